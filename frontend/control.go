// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// returnAddress is the guest RIP immediately following a CALL
// instruction, used as both the pushed return address and the
// fallthrough block for the call's own basic block split.
func returnAddress(op decoder.DecodedOp) uint64 { return op.RIP + uint64(op.Length) }

// CALLOp implements a direct relative CALL: push the return address,
// then jump to the (immediate) target RIP. The call site's own block
// ends here; BeginBlock(returnAddress) is the caller's responsibility
// once the decoder reaches that RIP, matching how wagon's compile.Compile
// treats `end` as closing the current block rather than the dispatcher
// eagerly opening every successor.
func (b *Builder) CALLOp(op decoder.DecodedOp) error {
	retAddr, _ := b._Constant(8, returnAddress(op))
	rsp, _ := b._LoadContext(8, gprContextOffset(rspOffset))
	eight, _ := b._Constant(8, 8)
	newRSP, _ := b._Sub(8, rsp, eight)
	b._StoreContext(8, gprContextOffset(rspOffset), newRSP)
	b._StoreMem(8, newRSP, retAddr)

	target := op.Operands[0].Immediate
	b._Jump(target)
	return nil
}

// CALLAbsoluteOp implements an indirect CALL through a register/memory
// operand: the target isn't known until runtime, so instead of a
// fixed-target Jump it emits an ExitFunction that hands control back to
// the executor's LookupCache-driven dispatch loop (§6).
func (b *Builder) CALLAbsoluteOp(op decoder.DecodedOp) error {
	retAddr, _ := b._Constant(8, returnAddress(op))
	rsp, _ := b._LoadContext(8, gprContextOffset(rspOffset))
	eight, _ := b._Constant(8, 8)
	newRSP, _ := b._Sub(8, rsp, eight)
	b._StoreContext(8, gprContextOffset(rspOffset), newRSP)
	b._StoreMem(8, newRSP, retAddr)

	target := b.loadOperand(op.Operands[0], 8)
	b._StoreContext(8, gprContextOffset(16 /* RIP slot */), target)
	_, err := b.ExitFunction()
	return err
}

// RETOp pops the return address and exits the function; the executor's
// LookupCache resolves the popped RIP to its next translation.
func (b *Builder) RETOp(op decoder.DecodedOp) error {
	rsp, _ := b._LoadContext(8, gprContextOffset(rspOffset))
	retAddr, _ := b._LoadMem(8, rsp)
	eight, _ := b._Constant(8, 8)
	newRSP, _ := b._Add(8, rsp, eight)
	b._StoreContext(8, gprContextOffset(rspOffset), newRSP)
	b._StoreContext(8, gprContextOffset(16), retAddr)
	_, err := b.ExitFunction()
	return err
}

// JUMPOp implements a direct relative/absolute-immediate jump within
// the translation unit, resolved via the fixup table when the target
// hasn't been emitted yet.
func (b *Builder) JUMPOp(op decoder.DecodedOp) error {
	target := op.Operands[0].Immediate
	b._Jump(target)
	return nil
}

// JUMPAbsoluteOp is an indirect jump (through register/memory): like
// CALLAbsoluteOp, the target is unknown until runtime, so it exits to
// the executor instead of patching an IR branch.
func (b *Builder) JUMPAbsoluteOp(op decoder.DecodedOp) error {
	target := b.loadOperand(op.Operands[0], 8)
	b._StoreContext(8, gprContextOffset(16), target)
	_, err := b.ExitFunction()
	return err
}

// CondJUMPOp implements a conditional branch: taken target is the
// decoded immediate, fallthrough target is the next sequential RIP.
func (b *Builder) CondJUMPOp(op decoder.DecodedOp) error {
	target := op.Operands[0].Immediate
	next := returnAddress(op)
	b._CondJump(uint8(op.Cond), target, next)
	return nil
}
