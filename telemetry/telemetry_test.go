// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestCountersAreMonotonic exercises the "telemetry monotonicity"
// testable property (§8.8): counters only increase.
func TestCountersAreMonotonic(t *testing.T) {
	s := NewSink()
	s.Increment(VEXInstructionsUsed, 3)
	s.Increment(VEXInstructionsUsed, 4)
	if got := s.Value(VEXInstructionsUsed); got != 7 {
		t.Fatalf("Value = %d, want 7", got)
	}
}

func TestShutdownWritesAndRotatesBackup(t *testing.T) {
	dir, err := ioutil.TempDir("", "telemetry")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	s := NewSink()
	s.Increment(CAS32BitTear, 2)
	if err := s.Shutdown(dir, "myapp"); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}

	path := filepath.Join(dir, "Telemetry", "myapp.telem")
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("reading .telem: %v", err)
	}
	if !strings.Contains(string(data), "CAS32BitTear: 2") {
		t.Fatalf("unexpected .telem contents: %q", data)
	}

	s2 := NewSink()
	s2.Increment(CAS32BitTear, 9)
	if err := s2.Shutdown(dir, "myapp"); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}

	backup, err := ioutil.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if !strings.Contains(string(backup), "CAS32BitTear: 2") {
		t.Fatalf("backup should hold the first run's values, got %q", backup)
	}

	current, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("reading current .telem: %v", err)
	}
	if !strings.Contains(string(current), "CAS32BitTear: 9") {
		t.Fatalf("current .telem should hold the second run's values, got %q", current)
	}
}
