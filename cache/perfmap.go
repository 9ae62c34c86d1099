// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"os"
)

// PerfMapWriter appends one line per installed block to
// /tmp/perf-<pid>.map, the format perf(1) reads to symbolize JIT'd
// regions (§6 "Perf-symbol file"). LookupCache does not create one and
// Config has no setting for it; a caller that wants the file calls
// NewPerfMapWriter. The file handle is scoped and released by Close
// (§5 "Resource release").
type PerfMapWriter struct {
	f *os.File
}

// NewPerfMapWriter opens (creating if needed) /tmp/perf-<pid>.map for
// appending.
func NewPerfMapWriter(pid int) (*PerfMapWriter, error) {
	path := fmt.Sprintf("/tmp/perf-%d.map", pid)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &PerfMapWriter{f: f}, nil
}

// WriteBlock appends one `<hex-host-addr> <hex-host-size> <name>` line
// and flushes it immediately, since perf reads this file live while the
// traced process runs.
func (w *PerfMapWriter) WriteBlock(hostAddr uint64, hostSize uint32, name string) error {
	if _, err := fmt.Fprintf(w.f, "%x %x %s\n", hostAddr, hostSize, name); err != nil {
		return err
	}
	return w.f.Sync()
}

// WriteGuestBlock is WriteBlock with the conventional JIT_<guest-hex>
// symbol name (§6: "or a provided symbolic name").
func (w *PerfMapWriter) WriteGuestBlock(hostAddr uint64, hostSize uint32, guestRIP uint64) error {
	return w.WriteBlock(hostAddr, hostSize, fmt.Sprintf("JIT_%x", guestRIP))
}

// Close releases the underlying file handle.
func (w *PerfMapWriter) Close() error {
	return w.f.Close()
}
