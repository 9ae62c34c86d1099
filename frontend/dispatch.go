// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/telemetry"
)

// Dispatch routes one decoded instruction to the handler method for its
// Family, mirroring OpcodeDispatcher's giant opcode table: a single
// switch over the coarse Family groups, then (where a Family covers more
// than one IR shape) a nested switch over the specific Opcode.
//
// SHROp is special-cased here rather than folded into a uniform
// method-value table, since it alone needs an extra parameter (whether
// the encoding is the implicit-1-bit form) that the rest of the handler
// set doesn't carry.
func (b *Builder) Dispatch(op decoder.DecodedOp) error {
	b.countPrefixTelemetry(op)

	switch op.Family {
	case FamilyALU:
		return b.dispatchALU(op)
	case FamilyShiftRotate:
		return b.dispatchShiftRotate(op)
	case FamilyBitScan:
		return b.dispatchBitScan(op)
	case FamilyDataMove:
		return b.dispatchDataMove(op)
	case FamilyStack:
		return b.dispatchStack(op)
	case FamilyControlFlow:
		return b.dispatchControlFlow(op)
	case FamilyFlagControl:
		return b.dispatchFlagControl(op)
	case FamilyString:
		return b.dispatchString(op)
	case FamilySegmentMov:
		return b.SegmentMOVOp(op)
	case FamilyCmpXchg:
		return b.CMPXCHGOp(op)
	case FamilyVectorALU:
		return b.VectorALUOp(op)
	case FamilyVectorCompare:
		return b.VectorCompareOp(op)
	case FamilyVectorShuffle:
		return b.VectorShuffleOp(op)
	case FamilyVectorShift:
		return b.VectorShiftOp(op)
	case FamilyVectorMinMax:
		return b.VectorALUOp(op)
	case FamilyLaneMove:
		return b.dispatchLaneMove(op)
	case FamilyMaskExtract:
		return b.PMOVMSKBOp(op)
	case FamilyFPState:
		return b.dispatchFPState(op)
	case FamilyCrypto:
		return b.AESOp(op)
	case FamilyCRC32:
		return b.CRC32Op(op)
	case FamilyUnhandled:
		return b.UnhandledOp(op)
	case FamilyUnimplemented:
		return b.UnimplementedOp(op)
	default:
		return b.UnimplementedOp(op)
	}
}

// countPrefixTelemetry increments the VEX/EVEX usage counters Dispatch
// can tell statically from the decoded prefix bits, mirroring the
// telemetry points FEXCore's decoder records alongside the opcode
// dispatcher itself rather than deep in the executor.
func (b *Builder) countPrefixTelemetry(op decoder.DecodedOp) {
	if b.Telemetry == nil {
		return
	}
	if op.Prefixes&decoder.PrefixVEX != 0 {
		b.Telemetry.Increment(telemetry.VEXInstructionsUsed, 1)
	}
	if op.Prefixes&decoder.PrefixEVEX != 0 {
		b.Telemetry.Increment(telemetry.EVEXInstructionsUsed, 1)
	}
}

// Family name aliases kept local to this package so dispatch.go reads
// against decoder.Family values directly without qualifying every case.
const (
	FamilyALU           = decoder.FamilyALU
	FamilyShiftRotate   = decoder.FamilyShiftRotate
	FamilyBitScan       = decoder.FamilyBitScan
	FamilyDataMove      = decoder.FamilyDataMove
	FamilyStack         = decoder.FamilyStack
	FamilyControlFlow   = decoder.FamilyControlFlow
	FamilyFlagControl   = decoder.FamilyFlagControl
	FamilyString        = decoder.FamilyString
	FamilySegmentMov    = decoder.FamilySegmentMov
	FamilyCmpXchg       = decoder.FamilyCmpXchg
	FamilyVectorALU     = decoder.FamilyVectorALU
	FamilyVectorCompare = decoder.FamilyVectorCompare
	FamilyVectorShuffle = decoder.FamilyVectorShuffle
	FamilyVectorShift   = decoder.FamilyVectorShift
	FamilyVectorMinMax  = decoder.FamilyVectorMinMax
	FamilyLaneMove      = decoder.FamilyLaneMove
	FamilyMaskExtract   = decoder.FamilyMaskExtract
	FamilyFPState       = decoder.FamilyFPState
	FamilyCrypto        = decoder.FamilyCrypto
	FamilyCRC32         = decoder.FamilyCRC32
	FamilyUnhandled     = decoder.FamilyUnhandled
	FamilyUnimplemented = decoder.FamilyUnimplemented
)

func (b *Builder) dispatchALU(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpADD, decoder.OpSUB, decoder.OpADC, decoder.OpSBB,
		decoder.OpAND, decoder.OpOR, decoder.OpXOR, decoder.OpCMP, decoder.OpTEST:
		return b.ALUOp(op)
	case decoder.OpINC:
		return b.INCOp(op)
	case decoder.OpDEC:
		return b.DECOp(op)
	case decoder.OpNEG:
		return b.NEGOp(op)
	case decoder.OpNOT:
		return b.NOTOp(op)
	case decoder.OpMUL:
		return b.MULOp(op)
	case decoder.OpIMUL:
		if op.NumOps == 1 {
			return b.IMUL1SrcOp(op)
		}
		return b.IMUL2SrcOp(op)
	case decoder.OpDIV:
		return b.DIVOp(op)
	case decoder.OpIDIV:
		return b.IDIVOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchShiftRotate(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpSHL:
		return b.SHLOp(op)
	case decoder.OpSHR:
		shr1Bit := op.NumOps == 1
		return b.SHROp(op, shr1Bit)
	case decoder.OpSAR:
		return b.ASHROp(op)
	case decoder.OpROL:
		return b.ROLOp(op)
	case decoder.OpROR:
		return b.ROROp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchBitScan(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpBSF:
		return b.BSFOp(op)
	case decoder.OpBSR:
		return b.BSROp(op)
	case decoder.OpBT:
		return b.BTOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchDataMove(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpMOV:
		return b.MOVOp(op)
	case decoder.OpMOVSX:
		return b.MOVSXOp(op)
	case decoder.OpMOVZX:
		return b.MOVZXOp(op)
	case decoder.OpMOVSXD:
		return b.MOVSXDOp(op)
	case decoder.OpMOVOffset:
		return b.MOVOffsetOp(op)
	case decoder.OpXCHG:
		return b.XCHGOp(op)
	case decoder.OpBSWAP:
		return b.BSWAPOp(op)
	case decoder.OpLEA:
		return b.LEAOp(op)
	case decoder.OpLEAVE:
		return b.LEAVEOp(op)
	case decoder.OpCMOVcc:
		return b.CMOVOp(op)
	case decoder.OpSETcc:
		return b.SETccOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchStack(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpPUSH:
		return b.PUSHOp(op)
	case decoder.OpPOP:
		return b.POPOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchControlFlow(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpCALL:
		return b.CALLOp(op)
	case decoder.OpCALLAbs:
		return b.CALLAbsoluteOp(op)
	case decoder.OpRET:
		return b.RETOp(op)
	case decoder.OpJUMP:
		return b.JUMPOp(op)
	case decoder.OpJUMPAbs:
		return b.JUMPAbsoluteOp(op)
	case decoder.OpCondJUMP:
		return b.CondJUMPOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchFlagControl(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpSAHF:
		return b.SAHFOp(op)
	case decoder.OpLAHF:
		return b.LAHFOp(op)
	case decoder.OpCLC, decoder.OpSTC, decoder.OpCLD, decoder.OpSTD, decoder.OpCMC:
		return b.FLAGControlOp(op)
	case decoder.OpCPUID:
		return b.CPUIDOp(op)
	case decoder.OpRDTSC:
		return b.RDTSCOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchString(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpSTOS:
		return b.STOSOp(op)
	case decoder.OpMOVS:
		return b.MOVSOp(op)
	case decoder.OpCMPS:
		return b.CMPSOp(op)
	default:
		return b.UnhandledOp(op)
	}
}

func (b *Builder) dispatchLaneMove(op decoder.DecodedOp) error {
	return b.VectorMoveOp(op)
}

func (b *Builder) dispatchFPState(op decoder.DecodedOp) error {
	switch op.Op {
	case decoder.OpFXSAVE:
		return b.FXSAVEOp(op)
	case decoder.OpFXRSTOR:
		return b.FXRSTOROp(op)
	default:
		return b.UnhandledOp(op)
	}
}
