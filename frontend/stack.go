// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// rspOffset is the GPR index of RSP (x86-64 GPR index 4), turned into a
// context byte offset by gprContextOffset.
const rspOffset = 4

// PUSHOp decrements RSP by the operand size and stores the operand at
// the new [RSP].
func (b *Builder) PUSHOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	value := b.loadOperand(op.Operands[0], size)
	rsp, _ := b._LoadContext(8, gprContextOffset(rspOffset))
	sz, _ := b._Constant(8, uint64(size))
	newRSP, _ := b._Sub(8, rsp, sz)
	b._StoreContext(8, gprContextOffset(rspOffset), newRSP)
	b._StoreMem(size, newRSP, value)
	return nil
}

// POPOp loads the operand from [RSP] then increments RSP by its size.
func (b *Builder) POPOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	rsp, _ := b._LoadContext(8, gprContextOffset(rspOffset))
	value, _ := b._LoadMem(size, rsp)
	sz, _ := b._Constant(8, uint64(size))
	newRSP, _ := b._Add(8, rsp, sz)
	b._StoreContext(8, gprContextOffset(rspOffset), newRSP)
	b.storeOperand(op.Operands[0], size, value)
	return nil
}
