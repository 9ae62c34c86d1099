// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

func (b *Builder) cryptoOp(op ir.OpCode, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:       ir.Header{Op: op, HasDest: true, NumArgs: 2, Args: [4]ir.NodeID{a, c}},
		RegisterSize: xmmSize,
	})
}

// AESOp dispatches the single-round AES instructions; the round ops take
// the running state in the destination XMM register and a round key in
// the source operand, while AESIMC reads only the source operand,
// matching the AArch64 AESE/AESMC/AESD crypto extension shape FEX's
// backend targets.
func (b *Builder) AESOp(op decoder.DecodedOp) error {
	state := b.loadXMMOperand(op.Operands[0])
	key := b.loadXMMOperand(op.Operands[1])

	var result ir.NodeID
	switch op.Op {
	case decoder.OpAESIMC:
		result, _ = b.cryptoOp(ir.OpAESIMC, key, key)
	case decoder.OpAESENC:
		result, _ = b.cryptoOp(ir.OpAESEnc, state, key)
	case decoder.OpAESENCLAST:
		result, _ = b.cryptoOp(ir.OpAESEncLast, state, key)
	case decoder.OpAESDEC:
		result, _ = b.cryptoOp(ir.OpAESDec, state, key)
	case decoder.OpAESDECLAST:
		result, _ = b.cryptoOp(ir.OpAESDecLast, state, key)
	case decoder.OpAESKEYGENASSIST:
		result, _ = b.cryptoOp(ir.OpAESKeygenAssist, state, key)
	default:
		return b.UnhandledOp(op)
	}
	b.storeXMMOperand(op.Operands[0], result)
	return nil
}

// CRC32Op folds a GPR source into the running CRC accumulator.
func (b *Builder) CRC32Op(op decoder.DecodedOp) error {
	size := sizeOf(op)
	acc := b.loadOperand(op.Operands[0], 4)
	src := b.loadOperand(op.Operands[1], size)
	result, _ := b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpCRC32, HasDest: true, Size: 4, NumArgs: 2, Args: [4]ir.NodeID{acc, src}},
		Width:  size,
	})
	b.storeOperand(op.Operands[0], 4, result)
	return nil
}
