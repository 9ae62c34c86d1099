// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/arm64"

	"github.com/deep-gaurav/fexcore/ir"
)

// ReferenceBackend is a deliberately tiny stand-in for the real aarch64
// emitter: it walks the IR the same way a full lowering pass would
// (block list, then each block's node chain) but emits only a NOP per
// op plus a trailing RET, using golang-asm's arm64 support the same way
// the teacher's AMD64Backend drives its own assembler (exec/internal/compile/backend_amd64.go).
// It exists so this repo's tests can exercise IRListView consumption
// end to end without pulling in a real code generator, which is out of
// scope (§1).
type ReferenceBackend struct{}

// Lower walks every block in blocks, in order, and every contained node
// in emission order, emitting one NOP per op (regardless of its
// semantics — a real backend would switch on Header.Op here) followed
// by a single RET once every block has been visited.
func (r *ReferenceBackend) Lower(view ir.View, blocks []ir.NodeID) ([]byte, error) {
	builder, err := asm.NewBuilder("arm64", 64)
	if err != nil {
		return nil, fmt.Errorf("backend: NewBuilder: %w", err)
	}

	count := 0
	for _, block := range blocks {
		cb := view.Payload(block)
		for id := cb.First; id != ir.InvalidNodeID; {
			n := view.Node(id)
			if !n.Unlinked {
				prog := builder.NewProg()
				prog.As = arm64.ANOOP
				builder.AddInstruction(prog)
				count++
			}
			if id == cb.Last {
				break
			}
			id = n.Next
		}
	}

	ret := builder.NewProg()
	ret.As = obj.ARET
	builder.AddInstruction(ret)

	return builder.Assemble(), nil
}
