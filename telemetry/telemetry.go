// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package telemetry implements the process-wide counter sink (§4.4): a
// fixed set of monotonically-increasing counters, flushed to a
// `<application>.telem` file on shutdown with one rotating backup.
package telemetry

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/rcrowley/go-metrics"
)

var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := ioutil.Discard
	if PrintDebugInfo {
		w = os.Stderr
	}
	logger = log.New(w, "", log.Lshortfile)
}

// Kind enumerates the counters this sink tracks, names recovered
// verbatim from External/FEXCore/Source/Utils/Telemetry.cpp.
type Kind int

const (
	SplitLock64Bit Kind = iota
	SplitAtomic16Bit
	VEXInstructionsUsed
	EVEXInstructionsUsed
	CAS16BitTear
	CAS32BitTear
	CAS64BitTear
	CAS128BitTear

	numKinds
)

var kindNames = [numKinds]string{
	SplitLock64Bit:       "SplitLock64Bit",
	SplitAtomic16Bit:     "SplitAtomic16Bit",
	VEXInstructionsUsed:  "VEXInstructionsUsed",
	EVEXInstructionsUsed: "EVEXInstructionsUsed",
	CAS16BitTear:         "CAS16BitTear",
	CAS32BitTear:         "CAS32BitTear",
	CAS64BitTear:         "CAS64BitTear",
	CAS128BitTear:        "CAS128BitTear",
}

// String implements fmt.Stringer so counters print their recovered name
// rather than a bare integer in .telem output and log lines.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= int(numKinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Sink is a process-wide bag of additive counters, backed by a
// rcrowley/go-metrics registry so each Kind gets its own
// metrics.Counter with the registry's existing snapshot/export
// machinery available to callers that want it (e.g. a future
// /debug/metrics endpoint), even though this package's own Shutdown
// writes the plain text format §4.4 specifies.
type Sink struct {
	registry metrics.Registry
	counters [numKinds]metrics.Counter
}

// NewSink constructs a Sink with every Kind's counter pre-registered.
func NewSink() *Sink {
	s := &Sink{registry: metrics.NewRegistry()}
	for k := Kind(0); k < numKinds; k++ {
		c := metrics.NewCounter()
		s.registry.Register(k.String(), c)
		s.counters[k] = c
	}
	return s
}

// Initialize ensures dataDir exists so Shutdown's write never fails on a
// missing directory.
func Initialize(dataDir string) error {
	return os.MkdirAll(filepath.Join(dataDir, "Telemetry"), 0o755)
}

// Increment adds delta (additive-only, per §3's "Telemetry values") to
// the counter for kind.
func (s *Sink) Increment(kind Kind, delta int64) {
	s.counters[kind].Inc(delta)
}

// Value reads the current count for kind.
func (s *Sink) Value(kind Kind) int64 {
	return s.counters[kind].Count()
}

// Shutdown writes `<dataDir>/Telemetry/<application>.telem` as
// `Name: Value\n` lines, preserving exactly one `.1` backup of any file
// that was already there (§4.4, §6 "Telemetry file").
func (s *Sink) Shutdown(dataDir, application string) error {
	dir := filepath.Join(dataDir, "Telemetry")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, application+".telem")
	backup := path + ".1"

	if _, err := os.Stat(path); err == nil {
		os.Remove(backup)
		if err := os.Rename(path, backup); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for k := Kind(0); k < numKinds; k++ {
		if _, err := fmt.Fprintf(f, "%s: %d\n", k, s.Value(k)); err != nil {
			return err
		}
	}
	logger.Printf("telemetry flushed to %s", path)
	return nil
}
