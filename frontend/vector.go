// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// xmmSize is the register width (bytes) every SSE handler below operates
// on; AVX's wider YMM/ZMM forms are out of scope (§ Non-goals).
const xmmSize = 16

func (b *Builder) loadXMM(reg uint8) ir.NodeID {
	id, _ := b._LoadContext(xmmSize, xmmContextOffset(reg))
	return id
}

func (b *Builder) storeXMM(reg uint8, value ir.NodeID) {
	b._StoreContext(xmmSize, xmmContextOffset(reg), value)
}

// loadXMMOperand resolves either an XMM register or a 128-bit memory
// operand to an IR value, mirroring loadOperand's GPR counterpart.
func (b *Builder) loadXMMOperand(op decoder.Operand) ir.NodeID {
	if op.Kind == decoder.OperandMem {
		addr := b.computeAddress(op)
		id, _ := b._LoadMem(xmmSize, addr)
		return id
	}
	return b.loadXMM(op.Reg)
}

func (b *Builder) storeXMMOperand(op decoder.Operand, value ir.NodeID) {
	if op.Kind == decoder.OperandMem {
		addr := b.computeAddress(op)
		b._StoreMem(xmmSize, addr, value)
		return
	}
	b.storeXMM(op.Reg, value)
}

func (b *Builder) _VUMin(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVUMin, registerSize, elementSize, a, c)
}

func (b *Builder) _VSMin(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVSMin, registerSize, elementSize, a, c)
}

func (b *Builder) _VZip2(registerSize, elementSize uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.vectorBinOp(ir.OpVZip2, registerSize, elementSize, a, c)
}

func (b *Builder) _VPMovMSKB(registerSize uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:       ir.Header{Op: ir.OpVPMovMSKB, HasDest: true, NumArgs: 1, Args: [4]ir.NodeID{a}},
		RegisterSize: registerSize,
	})
}

// elementSizeOf maps a decoded op's ElementSz (bytes per packed lane) to
// the value vector ops expect, defaulting to dword lanes.
func elementSizeOf(op decoder.DecodedOp) uint8 {
	if op.ElementSz == 0 {
		return 4
	}
	return op.ElementSz
}

// VectorALUOp dispatches the packed integer/FP arithmetic family (PADD,
// PSUB, PMINUB/PMINSW, and their FP counterparts, which this frontend
// models with the same VAdd/VSub ops since both lower to the same
// element-wise aarch64 instruction shape once element size is known).
func (b *Builder) VectorALUOp(op decoder.DecodedOp) error {
	elemSz := elementSizeOf(op)
	a := b.loadXMMOperand(op.Operands[0])
	c := b.loadXMMOperand(op.Operands[1])

	var result ir.NodeID
	switch op.Op {
	case decoder.OpPADD:
		result, _ = b._VAdd(xmmSize, elemSz, a, c)
	case decoder.OpPSUB:
		result, _ = b._VSub(xmmSize, elemSz, a, c)
	case decoder.OpPMINU:
		result, _ = b._VUMin(xmmSize, elemSz, a, c)
	case decoder.OpPMINS:
		result, _ = b._VSMin(xmmSize, elemSz, a, c)
	default:
		return b.UnhandledOp(op)
	}
	b.storeXMMOperand(op.Operands[0], result)
	return nil
}

// VectorCompareOp implements PCMPEQ*/PCMPGT*, writing an all-ones or
// all-zeros mask per lane.
func (b *Builder) VectorCompareOp(op decoder.DecodedOp) error {
	elemSz := elementSizeOf(op)
	a := b.loadXMMOperand(op.Operands[0])
	c := b.loadXMMOperand(op.Operands[1])

	var result ir.NodeID
	switch op.Op {
	case decoder.OpPCMPEQ:
		result, _ = b._VCMPEQ(xmmSize, elemSz, a, c)
	case decoder.OpPCMPGT:
		result, _ = b._VCMPGT(xmmSize, elemSz, a, c)
	default:
		return b.UnhandledOp(op)
	}
	b.storeXMMOperand(op.Operands[0], result)
	return nil
}

// VectorShuffleOp implements PSHUFD and the low/high unpack family
// (PUNPCKLxx/PUNPCKHxx) plus PALIGNR, all of which this frontend models
// as element interleaves (VZip/VZip2) or extracts (VExtr). Only PALIGNR
// uses the decoded immediate (as the VExtr index); PSHUFD is modeled as
// a VZip of the source with itself and its shuffle immediate is not used.
func (b *Builder) VectorShuffleOp(op decoder.DecodedOp) error {
	elemSz := elementSizeOf(op)
	a := b.loadXMMOperand(op.Operands[0])
	c := a
	if len(op.Operands) > 1 && op.Operands[1].Kind != decoder.OperandNone {
		c = b.loadXMMOperand(op.Operands[1])
	}

	var result ir.NodeID
	switch op.Op {
	case decoder.OpPUNPCKL:
		result, _ = b._VZip(xmmSize, elemSz, a, c)
	case decoder.OpPUNPCKH:
		result, _ = b._VZip2(xmmSize, elemSz, a, c)
	case decoder.OpPSHUFD:
		result, _ = b._VZip(xmmSize, elemSz, a, a)
	case decoder.OpPALIGNR:
		index := uint8(op.Operands[2].Immediate)
		result, _ = b._VExtr(xmmSize, elemSz, a, c, index)
	default:
		return b.UnhandledOp(op)
	}
	b.storeXMMOperand(op.Operands[0], result)
	return nil
}

// VectorShiftOp implements PSLL/PSRL (logical shifts by a GPR- or
// immediate-derived count) and PSRLDQ (whole-register byte shift,
// modeled as a shift with element size pinned to the full register).
func (b *Builder) VectorShiftOp(op decoder.DecodedOp) error {
	elemSz := elementSizeOf(op)
	a := b.loadXMMOperand(op.Operands[0])
	count := b.loadOperand(op.Operands[1], 8)

	var result ir.NodeID
	switch op.Op {
	case decoder.OpPSLL:
		result, _ = b._VUShl(xmmSize, elemSz, a, count)
	case decoder.OpPSRL:
		result, _ = b._VUShr(xmmSize, elemSz, a, count)
	case decoder.OpPSRLDQ:
		result, _ = b._VUShr(xmmSize, xmmSize, a, count)
	default:
		return b.UnhandledOp(op)
	}
	b.storeXMMOperand(op.Operands[0], result)
	return nil
}

// VectorMoveOp covers the lane/scalar move family: MOVD/MOVQ (GPR<->XMM
// low lane), MOVLHPS (insert high qword), MOVHPD (load/store high
// qword), MOVDDUP (broadcast low qword), MOVUPS (unaligned 128-bit
// load/store, no alignment checking modeled since the executor's
// memory ops don't fault on misalignment here).
func (b *Builder) VectorMoveOp(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpMOVD:
		if op.Operands[0].Kind == decoder.OperandReg && op.Operands[0].Reg < 16 && op.NumOps == 2 {
			value := b.loadOperand(op.Operands[1], 4)
			ext, _ := b._Zext(32, value)
			b.storeXMMOperand(op.Operands[0], ext)
			return nil
		}
		value := b.loadXMMOperand(op.Operands[1])
		trunc, _ := b._Bfe(32, 0, value)
		b.storeOperand(op.Operands[0], 4, trunc)
		return nil
	case decoder.OpMOVQ:
		value := b.loadXMMOperand(op.Operands[1])
		b.storeXMMOperand(op.Operands[0], value)
		return nil
	case decoder.OpMOVLHPS:
		dst := b.loadXMMOperand(op.Operands[0])
		src := b.loadXMMOperand(op.Operands[1])
		result, _ := b._VInsElement(xmmSize, 8, 1, 0, dst, src)
		b.storeXMMOperand(op.Operands[0], result)
		return nil
	case decoder.OpMOVHPD:
		dst := b.loadXMMOperand(op.Operands[0])
		src := b.loadXMMOperand(op.Operands[1])
		result, _ := b._VInsElement(xmmSize, 8, 1, 0, dst, src)
		b.storeXMMOperand(op.Operands[0], result)
		return nil
	case decoder.OpMOVDDUP:
		src := b.loadXMMOperand(op.Operands[1])
		result, _ := b._VInsElement(xmmSize, 8, 1, 0, src, src)
		b.storeXMMOperand(op.Operands[0], result)
		return nil
	case decoder.OpMOVUPS:
		value := b.loadXMMOperand(op.Operands[1])
		b.storeXMMOperand(op.Operands[0], value)
		return nil
	default:
		return b.UnhandledOp(op)
	}
}

// PMOVMSKBOp extracts the sign bit of each byte lane into a GPR mask.
func (b *Builder) PMOVMSKBOp(op decoder.DecodedOp) error {
	src := b.loadXMMOperand(op.Operands[1])
	mask, _ := b._VPMovMSKB(xmmSize, src)
	b.storeOperand(op.Operands[0], 4, mask)
	return nil
}
