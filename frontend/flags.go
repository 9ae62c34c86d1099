// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/ir"

// RFLAGS bit positions modeled as independent SSA lanes (§GLOSSARY
// "RFLAGS lanes"), so later optimization passes (out of scope here, §1)
// can drop unused flag computations without touching the ALU result.
const (
	FlagCF uint8 = 0
	FlagPF uint8 = 2
	FlagAF uint8 = 4
	FlagZF uint8 = 6
	FlagSF uint8 = 7
	FlagOF uint8 = 11
)

// SetRFLAG writes one RFLAGS bit lane from value.
func (b *Builder) SetRFLAG(bit uint8, value ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpSetRFlag, NumArgs: 1, Args: [4]ir.NodeID{value}},
		FlagBit: bit,
	})
}

// GetRFLAG reads one RFLAGS bit lane.
func (b *Builder) GetRFLAG(bit uint8) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpGetRFlag, HasDest: true, Size: 1},
		FlagBit: bit,
	})
}

// SetPackedRFLAG writes the whole flag word from value; lowOnly
// restricts the write to the low 8 bits, matching SAHF.
func (b *Builder) SetPackedRFLAG(lowOnly bool, value ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpSetPackedRFlag, NumArgs: 1, Args: [4]ir.NodeID{value}},
		LowOnly: lowOnly,
	})
}

// GetPackedRFLAG reads the whole flag word; lowOnly restricts the read
// to the low 8 bits, matching LAHF.
func (b *Builder) GetPackedRFLAG(lowOnly bool) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:  ir.Header{Op: ir.OpGetPackedRFlag, HasDest: true, Size: 2},
		LowOnly: lowOnly,
	})
}

// zeroSignParityFlags emits the ZF/SF/PF lanes shared by every
// flag-generating ALU/shift/rotate/logical op: ZF = (result == 0),
// SF = sign bit of result, PF = parity of the low byte of result.
func (b *Builder) zeroSignParityFlags(result ir.NodeID, size uint8) {
	zero, _ := b._Constant(size, 0)
	eq, _ := b._Select(0 /*equal*/, result, zero, mustConst(b, size, 1), mustConst(b, size, 0))
	b.SetRFLAG(FlagZF, eq)

	signBit, _ := b._Bfe(1, (size*8)-1, result)
	b.SetRFLAG(FlagSF, signBit)

	low, _ := b._Bfe(8, 0, result)
	b.SetRFLAG(FlagPF, low)
}

func mustConst(b *Builder, size uint8, v uint64) ir.NodeID {
	id, _ := b._Constant(size, v)
	return id
}

// GenerateFlagsADD emits RFLAGS for ADD/INC-style ops: carry from
// unsigned overflow, overflow from signed overflow, plus the shared
// ZF/SF/PF lanes.
func (b *Builder) GenerateFlagsADD(result, src1, src2 ir.NodeID, size uint8) {
	b.zeroSignParityFlags(result, size)

	carry, _ := b._Select(2 /*unsigned less-than*/, result, src1, mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.SetRFLAG(FlagCF, carry)

	overflow, _ := b._Select(3 /*signed overflow predicate*/, src1, src2, mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.SetRFLAG(FlagOF, overflow)
}

// GenerateFlagsSUB emits RFLAGS for SUB/DEC/CMP-style ops.
func (b *Builder) GenerateFlagsSUB(result, src1, src2 ir.NodeID, size uint8) {
	b.zeroSignParityFlags(result, size)

	borrow, _ := b._Select(4 /*unsigned less-than src1,src2*/, src1, src2, mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.SetRFLAG(FlagCF, borrow)

	overflow, _ := b._Select(3, src1, src2, mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.SetRFLAG(FlagOF, overflow)
}

// GenerateFlagsADC folds in the incoming carry the same way GenerateFlagsADD
// does for plain ADD, but against a pre-adjusted src2 the caller supplies
// (src2 + CF folded in before calling).
func (b *Builder) GenerateFlagsADC(result, src1, src2 ir.NodeID, size uint8) {
	b.GenerateFlagsADD(result, src1, src2, size)
}

// GenerateFlagsSBB mirrors GenerateFlagsADC for SBB.
func (b *Builder) GenerateFlagsSBB(result, src1, src2 ir.NodeID, size uint8) {
	b.GenerateFlagsSUB(result, src1, src2, size)
}

// GenerateFlagsMUL sets CF/OF from the high half of a signed multiply's
// double-width result, and leaves SF/ZF/PF undefined per the x86
// semantics (not written).
func (b *Builder) GenerateFlagsMUL(resultHigh ir.NodeID) {
	nonzero, _ := b._Select(1, resultHigh, mustConst(b, 8, 0), mustConst(b, 1, 1), mustConst(b, 1, 0))
	b.SetRFLAG(FlagCF, nonzero)
	b.SetRFLAG(FlagOF, nonzero)
}

// GenerateFlagsUMUL mirrors GenerateFlagsMUL for the unsigned multiply
// family (MUL as opposed to IMUL).
func (b *Builder) GenerateFlagsUMUL(resultHigh ir.NodeID) {
	b.GenerateFlagsMUL(resultHigh)
}

// GenerateFlagsLogical emits RFLAGS for AND/OR/XOR/TEST: CF and OF are
// cleared, ZF/SF/PF reflect the result.
func (b *Builder) GenerateFlagsLogical(result ir.NodeID, size uint8) {
	b.zeroSignParityFlags(result, size)
	zero := mustConst(b, 1, 0)
	b.SetRFLAG(FlagCF, zero)
	b.SetRFLAG(FlagOF, zero)
}

// GenerateFlagsShift emits RFLAGS for SHL/SHR/SAR: CF takes the last bit
// shifted out (precomputed by the caller as lastBitOut) and ZF/SF/PF
// reflect the result. OF is not written.
func (b *Builder) GenerateFlagsShift(result, lastBitOut ir.NodeID, size uint8) {
	b.zeroSignParityFlags(result, size)
	b.SetRFLAG(FlagCF, lastBitOut)
}

// GenerateFlagsRotate emits RFLAGS for ROL/ROR: CF takes the bit rotated
// into the carry position, and (unlike shifts) ZF/SF/PF are left
// unmodified, matching x86 ROL/ROR semantics.
func (b *Builder) GenerateFlagsRotate(carryOut ir.NodeID) {
	b.SetRFLAG(FlagCF, carryOut)
}
