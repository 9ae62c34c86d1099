// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"errors"
	"fmt"
)

// ErrNotBuilding is returned by BeginBlock, ExitFunction and Finalize
// when called outside the Building state (§4.1 "State machine").
// Dispatch and the emit helpers do not check the state.
var ErrNotBuilding = errors.New("frontend: builder is not in the Building state")

// ErrAlreadyBuilding is returned by BeginFunction when the builder is not
// Empty.
var ErrAlreadyBuilding = errors.New("frontend: BeginFunction requires the Empty state")

// ErrNotSealed is returned by operations restricted to the Sealed state
// (ViewIR, CreateIRCopy) when called too early.
var ErrNotSealed = errors.New("frontend: operation requires the Sealed state")

// DuplicateJumpTargetError is raised by InsertJumpTarget when a RIP has
// already been inserted once (§3 invariant on the jump target table).
type DuplicateJumpTargetError uint64

func (e DuplicateJumpTargetError) Error() string {
	return fmt.Sprintf("frontend: jump target 0x%x inserted more than once", uint64(e))
}

// BranchIncompleteError is raised by Finalize (as an InvariantViolation,
// §7) when a branch op still references InvalidNode after all fixups
// have been applied.
type BranchIncompleteError struct {
	RIP uint64
}

func (e BranchIncompleteError) Error() string {
	return fmt.Sprintf("frontend: branch to 0x%x never resolved to a code block", e.RIP)
}
