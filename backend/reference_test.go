// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"testing"

	"github.com/deep-gaurav/fexcore/frontend"
)

// TestReferenceBackendLowersSealedIR exercises the backend's consumption
// contract (§6 "Produced to backend"): given a sealed, finalized
// translation unit's view and block list, Lower must produce non-empty
// host bytes without error.
func TestReferenceBackendLowersSealedIR(t *testing.T) {
	b := frontend.NewBuilder()
	if err := b.BeginFunction(0x400000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}
	if _, err := b.ExitFunction(); err != nil {
		t.Fatalf("ExitFunction: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	view, err := b.ViewIR()
	if err != nil {
		t.Fatalf("ViewIR: %v", err)
	}

	var rb ReferenceBackend
	code, err := rb.Lower(view, b.CodeBlocks)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("Lower produced no host code")
	}
}
