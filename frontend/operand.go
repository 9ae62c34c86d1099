// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// gprContextOffset maps an x86 GPR number to its byte offset in the
// guest register context (§ "_LoadContext/_StoreContext"). Eight bytes
// per register covers the full 64-bit extension of each legacy GPR.
func gprContextOffset(reg uint8) uint32 { return uint32(reg) * 8 }

// xmmContextBase is the offset where the sixteen 128-bit XMM registers
// begin, following the sixteen GPRs in the context struct.
const xmmContextBase uint32 = 16 * 8

func xmmContextOffset(reg uint8) uint32 { return xmmContextBase + uint32(reg)*16 }

// loadOperand materializes a decoded operand as an IR node of the given
// size: an immediate becomes a Constant, a register becomes a
// LoadContext, and memory becomes address computation followed by a
// LoadMem.
func (b *Builder) loadOperand(op decoder.Operand, size uint8) ir.NodeID {
	switch op.Kind {
	case decoder.OperandImm:
		id, _ := b._Constant(size, op.Immediate)
		return id
	case decoder.OperandReg:
		id, _ := b._LoadContext(size, gprContextOffset(op.Reg))
		return id
	case decoder.OperandMem:
		addr := b.computeAddress(op)
		id, _ := b._LoadMem(size, addr)
		return id
	default:
		id, _ := b._Constant(size, 0)
		return id
	}
}

// storeOperand writes value back to a register or memory destination.
func (b *Builder) storeOperand(op decoder.Operand, size uint8, value ir.NodeID) {
	switch op.Kind {
	case decoder.OperandReg:
		b._StoreContext(size, gprContextOffset(op.Reg), value)
	case decoder.OperandMem:
		addr := b.computeAddress(op)
		b._StoreMem(size, addr, value)
	}
}

// computeAddress emits the IR for base + index*scale + displacement,
// the classic x86 effective-address computation; any component left at
// its zero value is folded away at emission time (no Add over a
// constant-zero base, etc.) to keep straight-line instructions like
// `mov eax, [rbx]` from carrying dead adds.
func (b *Builder) computeAddress(op decoder.Operand) ir.NodeID {
	var addr ir.NodeID
	has := false

	if op.Base != 0 {
		base, _ := b._LoadContext(8, gprContextOffset(op.Base))
		addr, has = base, true
	}
	if op.Index != 0 {
		index, _ := b._LoadContext(8, gprContextOffset(op.Index))
		if op.Scale > 1 {
			scale, _ := b._Constant(8, uint64(op.Scale))
			index, _ = b._UMul(8, index, scale)
		}
		if has {
			addr, _ = b._Add(8, addr, index)
		} else {
			addr, has = index, true
		}
	}
	if op.Displacement != 0 || !has {
		disp, _ := b._Constant(8, uint64(op.Displacement))
		if has {
			addr, _ = b._Add(8, addr, disp)
		} else {
			addr, has = disp, true
		}
	}
	return addr
}
