// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sigmask implements the scoped signal-mask + mutex primitive
// (§5 "Signal interaction"): any critical section that mutates state
// shared with a signal handler installs a full signal mask before
// acquiring its lock, and restores the previous mask only after the
// lock is released, so a signal can never be taken while the lock is
// held.
package sigmask

import (
	"sync"

	"golang.org/x/sys/unix"
)

// ScopedSignalMask masks all signals, then acquires mu. Release()
// reverses both steps in the opposite order: unlock first, restore the
// signal mask second (§5's construction/destruction ordering).
type ScopedSignalMask struct {
	mu      *sync.Mutex
	oldMask unix.Sigset_t
}

// NewScopedSignalMask blocks every signal on the calling thread,
// acquires mu, and returns a handle whose Release undoes both.
func NewScopedSignalMask(mu *sync.Mutex) (*ScopedSignalMask, error) {
	var full, old unix.Sigset_t
	fillSigset(&full)
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &full, &old); err != nil {
		return nil, err
	}
	mu.Lock()
	return &ScopedSignalMask{mu: mu, oldMask: old}, nil
}

// Release unlocks mu, then restores the signal mask observed before
// construction.
func (s *ScopedSignalMask) Release() error {
	s.mu.Unlock()
	return unix.PthreadSigmask(unix.SIG_SETMASK, &s.oldMask, nil)
}

// ScopedSignalMaskShared is the reader/writer counterpart recovered from
// FEXHeaderUtils/ScopedSignalMask.h's ScopedSignalMaskWithSharedMutex:
// the same mask-then-lock discipline, but the caller chooses a read or
// write acquisition of the shared mutex.
type ScopedSignalMaskShared struct {
	mu      *sync.RWMutex
	oldMask unix.Sigset_t
	write   bool
}

// NewScopedSignalMaskRead masks all signals and takes mu for reading.
func NewScopedSignalMaskRead(mu *sync.RWMutex) (*ScopedSignalMaskShared, error) {
	var full, old unix.Sigset_t
	fillSigset(&full)
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &full, &old); err != nil {
		return nil, err
	}
	mu.RLock()
	return &ScopedSignalMaskShared{mu: mu, oldMask: old, write: false}, nil
}

// NewScopedSignalMaskWrite masks all signals and takes mu for writing.
func NewScopedSignalMaskWrite(mu *sync.RWMutex) (*ScopedSignalMaskShared, error) {
	var full, old unix.Sigset_t
	fillSigset(&full)
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &full, &old); err != nil {
		return nil, err
	}
	mu.Lock()
	return &ScopedSignalMaskShared{mu: mu, oldMask: old, write: true}, nil
}

// Release unlocks mu (in whichever mode it was acquired) then restores
// the prior signal mask.
func (s *ScopedSignalMaskShared) Release() error {
	if s.write {
		s.mu.Unlock()
	} else {
		s.mu.RUnlock()
	}
	return unix.PthreadSigmask(unix.SIG_SETMASK, &s.oldMask, nil)
}

// fillSigset sets every bit in set, blocking all blockable signals.
func fillSigset(set *unix.Sigset_t) {
	for i := range set.Val {
		set.Val[i] = ^uint64(0)
	}
}
