// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/ir"

// Fixup is a pending branch whose target RIP had not yet been emitted
// as a jump target when the branch op was built (§3 "Fixup entry").
// ArgIndex picks which of the op's Header.Args slots holds the target.
type Fixup struct {
	Node     ir.NodeID
	ArgIndex int
}

// InsertJumpTarget records that RIP now resolves to block, patching
// every fixup previously registered against RIP (§4.1 "Branch
// resolution"). It is an error to insert the same RIP twice (§3
// "Jump target table" invariant).
func (b *Builder) InsertJumpTarget(rip uint64, block ir.NodeID) error {
	if _, exists := b.JumpTargets[rip]; exists {
		return DuplicateJumpTargetError(rip)
	}
	b.JumpTargets[rip] = block
	b.CodeBlocks = append(b.CodeBlocks, block)

	for _, fx := range b.Fixups[rip] {
		b.patchFixup(fx, block)
	}
	delete(b.Fixups, rip)
	return nil
}

func (b *Builder) patchFixup(fx Fixup, target ir.NodeID) {
	payload := b.payload(fx.Node)
	payload.Header.Args[fx.ArgIndex] = target
}

// registerFixup appends a pending fixup for rip, to be resolved the
// next time InsertJumpTarget(rip, ...) is called.
func (b *Builder) registerFixup(rip uint64, node ir.NodeID, argIndex int) {
	b.Fixups[rip] = append(b.Fixups[rip], Fixup{Node: node, ArgIndex: argIndex})
}
