// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// flagsScratchOffset is the first context byte past the sixteen GPRs and
// the sixteen XMM registers; the DF, TSC and segment-base slots are laid
// out from it.
const flagsScratchOffset = xmmContextBase + gprCount*16

const gprCount = 16

// SAHFOp loads the low 8 bits of RFLAGS from AH.
func (b *Builder) SAHFOp(op decoder.DecodedOp) error {
	ah, _ := b._LoadContext(1, gprContextOffset(0)+1)
	b.SetPackedRFLAG(true, ah)
	return nil
}

// LAHFOp stores the low 8 bits of RFLAGS into AH.
func (b *Builder) LAHFOp(op decoder.DecodedOp) error {
	flags, _ := b.GetPackedRFLAG(true)
	b._StoreContext(1, gprContextOffset(0)+1, flags)
	return nil
}

// FLAGControlOp dispatches CLC/STC/CLD/STD/CMC, each of which only
// touches a single RFLAGS bit (or, for CMC, complements it).
func (b *Builder) FLAGControlOp(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpCLC:
		b.SetRFLAG(FlagCF, mustConst(b, 1, 0))
	case decoder.OpSTC:
		b.SetRFLAG(FlagCF, mustConst(b, 1, 1))
	case decoder.OpCLD:
		// Direction flag isn't one of the modeled RFLAGS lanes (it only
		// affects string-op address stepping); STOS/MOVS/CMPS read it
		// directly rather than through GetRFLAG.
		b._StoreContext(1, directionFlagOffset, mustConst(b, 1, 0))
	case decoder.OpSTD:
		b._StoreContext(1, directionFlagOffset, mustConst(b, 1, 1))
	case decoder.OpCMC:
		cur, _ := b.GetRFLAG(FlagCF)
		inv, _ := b._Not(1, cur)
		b.SetRFLAG(FlagCF, inv)
	default:
		return b.UnhandledOp(op)
	}
	return nil
}

// directionFlagOffset is a dedicated context slot for DF, since it
// isn't one of the bit-addressable RFLAGS lanes modeled by
// SetRFLAG/GetRFLAG.
const directionFlagOffset = flagsScratchOffset + 8

// CPUIDOp exits to the executor, which owns the guest CPUID leaf table
// (out of scope here); the frontend only needs to know execution
// continues past this instruction once the executor resumes it.
func (b *Builder) CPUIDOp(op decoder.DecodedOp) error {
	_, err := b.ExitFunction()
	return err
}

// RDTSCOp reads the host cycle counter via a context-mapped
// pseudo-register the executor populates; modeled as a LoadContext so
// the IR doesn't need a dedicated opcode for one syscall-adjacent leaf.
func (b *Builder) RDTSCOp(op decoder.DecodedOp) error {
	low, _ := b._LoadContext(4, tscContextOffset)
	high, _ := b._LoadContext(4, tscContextOffset+4)
	b._StoreContext(4, gprContextOffset(0), low)
	b._StoreContext(4, gprContextOffset(2), high)
	return nil
}

const tscContextOffset = directionFlagOffset + 8
