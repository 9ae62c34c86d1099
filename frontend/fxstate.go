// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// FXSAVEOp / FXRSTOROp spill or reload the full x87/MMX/XMM/MXCSR state
// block to/from the 512-byte memory region the instruction addresses.
// The frontend doesn't know (or need to know) the internal layout of
// that block — it's opaque to the IR, handed whole to the backend/executor
// the same way FEX's OpDispatcher emits a single FXSave/FXRStor IR node
// rather than unpacking every lane itself.
func (b *Builder) FXSAVEOp(op decoder.DecodedOp) error {
	addr := b.computeAddress(op.Operands[0])
	b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpFXSave, NumArgs: 1, Args: [4]ir.NodeID{addr}},
	})
	return nil
}

func (b *Builder) FXRSTOROp(op decoder.DecodedOp) error {
	addr := b.computeAddress(op.Operands[0])
	b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpFXRestore, NumArgs: 1, Args: [4]ir.NodeID{addr}},
	})
	return nil
}
