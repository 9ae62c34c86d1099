// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// MOVOp implements the plain register/memory/immediate move.
func (b *Builder) MOVOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	value := b.loadOperand(op.Operands[1], size)
	b.storeOperand(op.Operands[0], size, value)
	return nil
}

// MOVSXOp / MOVZXOp / MOVSXDOp widen a narrower source, sign- or
// zero-extending it into the (wider) destination size.
func (b *Builder) MOVSXOp(op decoder.DecodedOp) error {
	srcSize := op.ElementSz
	if srcSize == 0 {
		srcSize = 1
	}
	value := b.loadOperand(op.Operands[1], srcSize)
	ext, _ := b._Sext(srcSize*8, value)
	b.storeOperand(op.Operands[0], sizeOf(op), ext)
	return nil
}

func (b *Builder) MOVZXOp(op decoder.DecodedOp) error {
	srcSize := op.ElementSz
	if srcSize == 0 {
		srcSize = 1
	}
	value := b.loadOperand(op.Operands[1], srcSize)
	ext, _ := b._Zext(srcSize*8, value)
	b.storeOperand(op.Operands[0], sizeOf(op), ext)
	return nil
}

// MOVSXDOp is the x86-64-specific 32-to-64 sign extend.
func (b *Builder) MOVSXDOp(op decoder.DecodedOp) error {
	value := b.loadOperand(op.Operands[1], 4)
	ext, _ := b._Sext(32, value)
	b.storeOperand(op.Operands[0], 8, ext)
	return nil
}

// MOVOffsetOp models the AL/AX/EAX/RAX <-> moffs absolute-address move
// forms, which differ from plain MOV only in operand encoding, not IR
// shape.
func (b *Builder) MOVOffsetOp(op decoder.DecodedOp) error { return b.MOVOp(op) }

// XCHGOp swaps the two operands via a temporary.
func (b *Builder) XCHGOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	a := b.loadOperand(op.Operands[0], size)
	c := b.loadOperand(op.Operands[1], size)
	b.storeOperand(op.Operands[0], size, c)
	b.storeOperand(op.Operands[1], size, a)
	return nil
}

// BSWAPOp reverses byte order; modeled as a Bfi-based byte shuffle over
// the four/eight constituent bytes.
func (b *Builder) BSWAPOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	value := b.loadOperand(op.Operands[0], size)
	var result = value
	for i := uint8(0); i < size; i++ {
		byteVal, _ := b._Bfe(8, i*8, value)
		result, _ = b._Bfi(8, (size-1-i)*8, result, byteVal)
	}
	b.storeOperand(op.Operands[0], size, result)
	return nil
}

// LEAOp materializes an effective address without dereferencing it.
func (b *Builder) LEAOp(op decoder.DecodedOp) error {
	addr := b.computeAddress(op.Operands[1])
	b.storeOperand(op.Operands[0], sizeOf(op), addr)
	return nil
}

// LEAVEOp restores RSP from RBP then pops the saved RBP, matching the
// x86 LEAVE = MOV RSP, RBP; POP RBP pair.
func (b *Builder) LEAVEOp(op decoder.DecodedOp) error {
	rbp, _ := b._LoadContext(8, gprContextOffset(5))
	b._StoreContext(8, gprContextOffset(4), rbp)

	saved, _ := b._LoadMem(8, rbp)
	eight, _ := b._Constant(8, 8)
	newRSP, _ := b._Add(8, rbp, eight)
	b._StoreContext(8, gprContextOffset(4), newRSP)
	b._StoreContext(8, gprContextOffset(5), saved)
	return nil
}

// CMOVOp conditionally moves src into dst using a Select keyed on the
// condition-code predicate already evaluated into RFLAGS lanes.
func (b *Builder) CMOVOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	cur := b.loadOperand(op.Operands[0], size)
	src := b.loadOperand(op.Operands[1], size)
	cond, _ := b.evalCondition(op.Cond)
	sel, _ := b._Select(1, cond, mustConst(b, 1, 0), src, cur)
	b.storeOperand(op.Operands[0], size, sel)
	return nil
}

// SETccOp writes 0 or 1 to the destination based on a condition code.
func (b *Builder) SETccOp(op decoder.DecodedOp) error {
	cond, _ := b.evalCondition(op.Cond)
	sel, _ := b._Select(1, cond, mustConst(b, 1, 0), mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.storeOperand(op.Operands[0], 1, sel)
	return nil
}

// evalCondition reads the RFLAGS lane(s) a condition code depends on.
// Only the single-flag predicates are modeled directly; compound
// predicates (e.g. LE, G) combine two lanes with a logical op, which a
// fuller implementation would expand per condition code.
func (b *Builder) evalCondition(cond decoder.CondCode) (ir.NodeID, *ir.Payload) {
	switch cond {
	case 0: // overflow
		id, p := b.GetRFLAG(FlagOF)
		return id, p
	case 1: // zero/equal
		id, p := b.GetRFLAG(FlagZF)
		return id, p
	case 2: // carry/below
		id, p := b.GetRFLAG(FlagCF)
		return id, p
	case 3: // sign
		id, p := b.GetRFLAG(FlagSF)
		return id, p
	default:
		id, p := b.GetRFLAG(FlagZF)
		return id, p
	}
}
