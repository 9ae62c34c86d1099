// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decoder declares the narrow interface the frontend consumes
// from the (out-of-scope, §1) guest instruction decoder: a stream of
// DecodedOp records describing one x86/x86-64 instruction each. The
// decoder itself — byte-stream parsing, prefix handling, ModRM/SIB
// decoding — is an external collaborator; this package exists only to
// give the frontend a stable type to dispatch on.
package decoder

// Family groups decoded opcodes the way the opcode dispatcher's handler
// methods are grouped (§4.1 "Opcode coverage").
type Family uint16

const (
	FamilyUnknown Family = iota
	FamilyALU
	FamilyShiftRotate
	FamilyBitScan
	FamilyDataMove
	FamilyStack
	FamilyControlFlow
	FamilyFlagControl
	FamilyString
	FamilySegmentMov
	FamilyCmpXchg
	FamilyVectorALU
	FamilyVectorCompare
	FamilyVectorShuffle
	FamilyVectorShift
	FamilyVectorMinMax
	FamilyLaneMove
	FamilyMaskExtract
	FamilyFPState
	FamilyCrypto
	FamilyCRC32
	FamilyUnhandled
	FamilyUnimplemented
)

// Opcode names the specific x86 mnemonic within a Family, enough for the
// frontend to pick the right IR pattern. Only the mnemonics the opcode
// dispatcher names in §4.1 are enumerated; decoders are free to return
// any Opcode value, and one that a family's handler doesn't recognize is
// routed to UnhandledOp.
type Opcode uint16

const (
	OpUnknown Opcode = iota
	OpADD
	OpSUB
	OpADC
	OpSBB
	OpAND
	OpOR
	OpXOR
	OpCMP
	OpTEST
	OpINC
	OpDEC
	OpNEG
	OpNOT
	OpMUL
	OpIMUL
	OpDIV
	OpIDIV
	OpSHL
	OpSHR
	OpSAR
	OpROL
	OpROR
	OpBSF
	OpBSR
	OpBT
	OpMOV
	OpMOVSX
	OpMOVZX
	OpMOVSXD
	OpMOVOffset
	OpXCHG
	OpBSWAP
	OpLEA
	OpLEAVE
	OpCMOVcc
	OpSETcc
	OpPUSH
	OpPOP
	OpCALL
	OpCALLAbs
	OpRET
	OpJUMP
	OpJUMPAbs
	OpCondJUMP
	OpSAHF
	OpLAHF
	OpCLC
	OpSTC
	OpCLD
	OpSTD
	OpCMC
	OpCPUID
	OpRDTSC
	OpSTOS
	OpMOVS
	OpCMPS
	OpMOVSeg
	OpCMPXCHG
	OpVectorALU
	OpPADD
	OpPSUB
	OpPCMPEQ
	OpPCMPGT
	OpPSHUFD
	OpSHUF
	OpPUNPCKL
	OpPUNPCKH
	OpPALIGNR
	OpPSLL
	OpPSRL
	OpPSRLDQ
	OpPMINU
	OpPMINS
	OpMOVD
	OpMOVQ
	OpMOVLHPS
	OpMOVHPD
	OpMOVDDUP
	OpMOVUPS
	OpPMOVMSKB
	OpFXSAVE
	OpFXRSTOR
	OpAESIMC
	OpAESENC
	OpAESENCLAST
	OpAESDEC
	OpAESDECLAST
	OpAESKEYGENASSIST
	OpCRC32
)

// CondCode is the x86 condition-code predicate carried by CondJUMP,
// SETcc and CMOVcc.
type CondCode uint8

// Prefix bits relevant to the frontend: operand-size/address-size
// overrides, segment overrides, REP/REPNE for string ops, and the
// VEX/EVEX markers the telemetry sink counts.
type Prefix uint16

const (
	PrefixNone     Prefix = 0
	PrefixRepeat   Prefix = 1 << 0
	PrefixRepeatNE Prefix = 1 << 1
	PrefixLock     Prefix = 1 << 2
	PrefixSegFS    Prefix = 1 << 3
	PrefixSegGS    Prefix = 1 << 4
	PrefixVEX      Prefix = 1 << 5
	PrefixEVEX     Prefix = 1 << 6
)

// Operand describes one decoded operand: a register number, a
// memory displacement/base/index triple, or an immediate. The frontend
// only reads whichever fields are relevant to Kind.
type Operand struct {
	Kind OperandKind

	Reg   uint8
	Base  uint8
	Index uint8
	Scale uint8

	Displacement int64
	Immediate    uint64
}

// OperandKind discriminates Operand's fields.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandReg
	OperandMem
	OperandImm
)

// DecodedOp is one decoded guest instruction, handed to the frontend by
// the (external) decoder (§6 "Consumed from decoder").
type DecodedOp struct {
	RIP       uint64
	Length    uint8
	Family    Family
	Op        Opcode
	Cond      CondCode
	Prefixes  Prefix
	ElementSz uint8 // vector element size or scalar operand width in bytes; 0 selects the handler's default
	Operands  [3]Operand
	NumOps    uint8
}
