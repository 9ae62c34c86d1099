// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import "fmt"

// MappingFailedError wraps the initial mmap failure of a cache region
// (§7 "MappingFailed"): fatal at construction, the process cannot
// proceed.
type MappingFailedError struct {
	Region string
	Err    error
}

func (e MappingFailedError) Error() string {
	return fmt.Sprintf("cache: mmap of %s region failed: %v", e.Region, e.Err)
}

func (e MappingFailedError) Unwrap() error { return e.Err }

// CacheFullError reports that Insert could not place a translation. A
// full block store is first recovered by Insert's ClearCache-and-retry
// path (§7 "CacheFull"); Insert returns this error when the block store
// is still full after that one retry, or when the guest RIP lies beyond
// the range the page directory covers (Config.VirtualMemSize).
type CacheFullError struct {
	Requested uint32
}

func (e CacheFullError) Error() string {
	return fmt.Sprintf("cache: block store exhausted, requested %d bytes", e.Requested)
}
