// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/ir"

// The helpers below mirror the small builder routines the opcode
// dispatcher composes handlers out of (§4.1 "IR allocation"): each
// allocates one op payload, links the resulting node after the write
// cursor, and returns the (node, payload) pair so callers can use the
// node as a source operand for the next helper.

func (b *Builder) _Constant(size uint8, value uint64) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:   ir.Header{Op: ir.OpConstant, HasDest: true, Size: size},
		Constant: value,
	})
}

func (b *Builder) _LoadMem(size uint8, addr ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpLoadMem, HasDest: true, Size: size, NumArgs: 1, Args: [4]ir.NodeID{addr}},
		MemSize: size,
	})
}

func (b *Builder) _StoreMem(size uint8, addr, value ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpStoreMem, NumArgs: 2, Args: [4]ir.NodeID{addr, value}},
		MemSize: size,
	})
}

func (b *Builder) _Bfe(width, lsb uint8, src ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpBfe, HasDest: true, NumArgs: 1, Args: [4]ir.NodeID{src}},
		Width:  width,
		LSB:    lsb,
	})
}

func (b *Builder) _Bfi(width, lsb uint8, dst, value ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpBfi, HasDest: true, NumArgs: 2, Args: [4]ir.NodeID{dst, value}},
		Width:  width,
		LSB:    lsb,
	})
}

func (b *Builder) _Select(cond uint8, cmp1, cmp2, trueVal, falseVal ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpSelect, HasDest: true, NumArgs: 4, Args: [4]ir.NodeID{cmp1, cmp2, trueVal, falseVal}},
		Cond:   cond,
	})
}

func (b *Builder) _Sext(srcSize uint8, src ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpSext, HasDest: true, NumArgs: 1, Args: [4]ir.NodeID{src}},
		Width:  srcSize,
	})
}

func (b *Builder) _Zext(srcSize uint8, src ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpZext, HasDest: true, NumArgs: 1, Args: [4]ir.NodeID{src}},
		Width:  srcSize,
	})
}

func (b *Builder) vectorBinOp(op ir.OpCode, registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:       ir.Header{Op: op, HasDest: true, NumArgs: 2, Args: [4]ir.NodeID{a, c}},
		RegisterSize: registerSize,
		ElementSize:  elementSize,
	})
}

func (b *Builder) _VAdd(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVAdd, registerSize, elementSize, a, c)
}

func (b *Builder) _VSub(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVSub, registerSize, elementSize, a, c)
}

func (b *Builder) _VZip(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVZip, registerSize, elementSize, a, c)
}

func (b *Builder) _VCMPEQ(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVCMPEQ, registerSize, elementSize, a, c)
}

func (b *Builder) _VCMPGT(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVCMPGT, registerSize, elementSize, a, c)
}

func (b *Builder) _VUShl(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVUShl, registerSize, elementSize, a, c)
}

func (b *Builder) _VUShr(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVUShr, registerSize, elementSize, a, c)
}

func (b *Builder) _VInsElement(registerSize, elementSize, destIdx, srcIdx uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:       ir.Header{Op: ir.OpVInsElement, HasDest: true, NumArgs: 2, Args: [4]ir.NodeID{a, c}},
		RegisterSize: registerSize,
		ElementSize:  elementSize,
		DestIdx:      destIdx,
		SrcIdx:       srcIdx,
	})
}

func (b *Builder) _VExtr(registerSize, elementSize uint8, a, c ir.NodeID, index uint8) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:       ir.Header{Op: ir.OpVExtr, HasDest: true, NumArgs: 2, Args: [4]ir.NodeID{a, c}},
		RegisterSize: registerSize,
		ElementSize:  elementSize,
		Index:        index,
	})
}

// _Jump emits an unconditional branch. If targetRIP has already been
// inserted as a jump target, the branch resolves immediately; otherwise
// InvalidNodeID is written and a Fixup is registered (§4.1 "Branch
// resolution").
func (b *Builder) _Jump(targetRIP uint64) (ir.NodeID, *ir.Payload) {
	target := ir.InvalidNodeID
	if blk, ok := b.JumpTargets[targetRIP]; ok {
		target = blk
	}
	id, payload := b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpJump, NumArgs: 1, Args: [4]ir.NodeID{target}},
	})
	if target == ir.InvalidNodeID {
		b.registerFixup(targetRIP, id, 0)
	}
	return id, payload
}

// _CondJump emits a conditional branch with a taken target (targetRIP)
// and a fallthrough target (nextRIP); each resolves immediately or
// registers a Fixup independently.
func (b *Builder) _CondJump(cond uint8, targetRIP, nextRIP uint64) (ir.NodeID, *ir.Payload) {
	taken := ir.InvalidNodeID
	if blk, ok := b.JumpTargets[targetRIP]; ok {
		taken = blk
	}
	fallthroughBlk := ir.InvalidNodeID
	if blk, ok := b.JumpTargets[nextRIP]; ok {
		fallthroughBlk = blk
	}
	id, payload := b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpCondJump, NumArgs: 2, Args: [4]ir.NodeID{taken, fallthroughBlk}},
		Cond:   cond,
	})
	if taken == ir.InvalidNodeID {
		b.registerFixup(targetRIP, id, 0)
	}
	if fallthroughBlk == ir.InvalidNodeID {
		b.registerFixup(nextRIP, id, 1)
	}
	return id, payload
}
