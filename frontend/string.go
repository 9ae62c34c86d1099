// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// rdiOffset / rsiOffset are the GPR indices used as implicit string-op
// operands (destination and source index registers).
const (
	rsiOffset = 6
	rdiOffset = 7
)

func (b *Builder) stepIndex(reg uint8, size uint8) {
	df, _ := b._LoadContext(1, directionFlagOffset)
	cur, _ := b._LoadContext(8, gprContextOffset(reg))
	sz, _ := b._Constant(8, uint64(size))
	fwd, _ := b._Add(8, cur, sz)
	bwd, _ := b._Sub(8, cur, sz)
	next, _ := b._Select(1, df, mustConst(b, 1, 0), bwd, fwd)
	b._StoreContext(8, gprContextOffset(reg), next)
}

// STOSOp stores AL/AX/EAX/RAX to [RDI], then steps RDI by the operand
// size according to the direction flag.
func (b *Builder) STOSOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	rdi, _ := b._LoadContext(8, gprContextOffset(rdiOffset))
	acc, _ := b._LoadContext(size, gprContextOffset(0))
	b._StoreMem(size, rdi, acc)
	b.stepIndex(rdiOffset, size)
	return nil
}

// MOVSOp copies [RSI] to [RDI], stepping both index registers.
func (b *Builder) MOVSOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	rsi, _ := b._LoadContext(8, gprContextOffset(rsiOffset))
	rdi, _ := b._LoadContext(8, gprContextOffset(rdiOffset))
	value, _ := b._LoadMem(size, rsi)
	b._StoreMem(size, rdi, value)
	b.stepIndex(rsiOffset, size)
	b.stepIndex(rdiOffset, size)
	return nil
}

// CMPSOp compares [RSI] against [RDI], setting RFLAGS as SUB would,
// then stepping both index registers.
func (b *Builder) CMPSOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	rsi, _ := b._LoadContext(8, gprContextOffset(rsiOffset))
	rdi, _ := b._LoadContext(8, gprContextOffset(rdiOffset))
	lhs, _ := b._LoadMem(size, rsi)
	rhs, _ := b._LoadMem(size, rdi)
	res, _ := b._Sub(size, lhs, rhs)
	b.GenerateFlagsSUB(res, lhs, rhs, size)
	b.stepIndex(rsiOffset, size)
	b.stepIndex(rdiOffset, size)
	return nil
}
