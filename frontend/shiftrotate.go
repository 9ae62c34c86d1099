// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// shiftCarryOut computes the bit shifted out by a left or right shift of
// the pre-shift value by amount, used to feed GenerateFlagsShift's CF.
func (b *Builder) shiftCarryOut(size uint8, value, amount ir.NodeID, left bool) ir.NodeID {
	if left {
		width := mustConst(b, size, uint64(size)*8)
		back, _ := b._Sub(size, width, amount)
		shifted, _ := b._Shr(size, value, back)
		bit, _ := b._Bfe(1, 0, shifted)
		return bit
	}
	one := mustConst(b, size, 1)
	amountMinus1, _ := b._Sub(size, amount, one)
	shifted, _ := b._Shr(size, value, amountMinus1)
	bit, _ := b._Bfe(1, 0, shifted)
	return bit
}

// SHLOp implements the shift-left family, with and without the
// single-bit (1-operand) encoding.
func (b *Builder) SHLOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	amount := b.loadOperand(op.Operands[1], 1)
	res, _ := b._Shl(size, cur, amount)
	carry := b.shiftCarryOut(size, cur, amount, true)
	b.GenerateFlagsShift(res, carry, size)
	b.storeOperand(dst, size, res)
	return nil
}

// SHROp implements logical shift-right; SHR1Bit mirrors the spec's
// template parameter distinguishing the implicit-1 encoding, folded
// here into a bool since Go handlers dispatch on decoded operand count
// rather than instantiating per-width methods.
func (b *Builder) SHROp(op decoder.DecodedOp, shr1Bit bool) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	amount := op.Operands[1]
	var amountNode ir.NodeID
	if shr1Bit {
		amountNode = mustConst(b, 1, 1)
	} else {
		amountNode = b.loadOperand(amount, 1)
	}
	res, _ := b._Shr(size, cur, amountNode)
	carry := b.shiftCarryOut(size, cur, amountNode, false)
	b.GenerateFlagsShift(res, carry, size)
	b.storeOperand(dst, size, res)
	return nil
}

// ASHROp implements arithmetic shift-right (SAR).
func (b *Builder) ASHROp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	amount := b.loadOperand(op.Operands[1], 1)
	res, _ := b._Ashr(size, cur, amount)
	carry := b.shiftCarryOut(size, cur, amount, false)
	b.GenerateFlagsShift(res, carry, size)
	b.storeOperand(dst, size, res)
	return nil
}

// ROLOp / ROROp implement the rotate family; unlike shifts, ZF/SF/PF
// are left unmodified (GenerateFlagsRotate only touches CF).
func (b *Builder) ROLOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	amount := b.loadOperand(op.Operands[1], 1)
	res, _ := b._Rol(size, cur, amount)
	carry, _ := b._Bfe(1, 0, res)
	b.GenerateFlagsRotate(carry)
	b.storeOperand(dst, size, res)
	return nil
}

func (b *Builder) ROROp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	dst := op.Operands[0]
	cur := b.loadOperand(dst, size)
	amount := b.loadOperand(op.Operands[1], 1)
	res, _ := b._Ror(size, cur, amount)
	carry, _ := b._Bfe(1, (size*8)-1, res)
	b.GenerateFlagsRotate(carry)
	b.storeOperand(dst, size, res)
	return nil
}

// BSFOp / BSROp implement bit-scan-forward/reverse: the destination
// gets the index of the lowest/highest set bit, ZF reflects whether the
// source was zero.
func (b *Builder) BSFOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	src := b.loadOperand(op.Operands[1], size)
	idx, _ := b._Bfs(size, src)
	b.zeroSignParityFlags(src, size)
	b.storeOperand(op.Operands[0], size, idx)
	return nil
}

func (b *Builder) BSROp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	src := b.loadOperand(op.Operands[1], size)
	idx, _ := b._Bfr(size, src)
	b.zeroSignParityFlags(src, size)
	b.storeOperand(op.Operands[0], size, idx)
	return nil
}

// BTOp implements bit-test: CF takes the tested bit, the destination is
// unmodified (plain BT, as opposed to BTS/BTR/BTC).
func (b *Builder) BTOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	value := b.loadOperand(op.Operands[0], size)
	bitIndex := b.loadOperand(op.Operands[1], size)
	bit, _ := b._Bittest(size, value, bitIndex)
	b.SetRFLAG(FlagCF, bit)
	return nil
}
