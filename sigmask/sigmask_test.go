// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sigmask

import (
	"sync"
	"testing"
)

// TestScopedSignalMaskLocksAndUnlocks exercises Scenario E (§8): entering
// the section must acquire mu, and Release must give it back so a
// second acquisition doesn't deadlock.
func TestScopedSignalMaskLocksAndUnlocks(t *testing.T) {
	var mu sync.Mutex

	s, err := NewScopedSignalMask(&mu)
	if err != nil {
		t.Fatalf("NewScopedSignalMask: %v", err)
	}
	if mu.TryLock() {
		mu.Unlock()
		t.Fatal("mutex was not held while the scoped section was open")
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !mu.TryLock() {
		t.Fatal("mutex still held after Release")
	}
	mu.Unlock()
}

func TestScopedSignalMaskSharedReadAllowsConcurrentReaders(t *testing.T) {
	var mu sync.RWMutex

	s1, err := NewScopedSignalMaskRead(&mu)
	if err != nil {
		t.Fatalf("first reader: %v", err)
	}
	if !mu.TryRLock() {
		t.Fatal("a second reader should be able to join while only readers hold the lock")
	}
	mu.RUnlock()
	if err := s1.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestScopedSignalMaskSharedWriteExcludesReaders(t *testing.T) {
	var mu sync.RWMutex

	s, err := NewScopedSignalMaskWrite(&mu)
	if err != nil {
		t.Fatalf("NewScopedSignalMaskWrite: %v", err)
	}
	if mu.TryRLock() {
		mu.RUnlock()
		t.Fatal("a reader should not be able to join while a writer holds the lock")
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
