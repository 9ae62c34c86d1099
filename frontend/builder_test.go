// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"testing"

	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
	"github.com/deep-gaurav/fexcore/telemetry"
)

// TestScenarioA_MovThenRet exercises §8 Scenario A: a straight-line
// function with no branches finalizes cleanly.
func TestScenarioA_MovThenRet(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x400000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}

	op := decoder.DecodedOp{
		RIP: 0x400000, Length: 5, Family: decoder.FamilyDataMove, Op: decoder.OpMOV,
		Operands: [3]decoder.Operand{
			{Kind: decoder.OperandReg, Reg: 0},
			{Kind: decoder.OperandImm, Immediate: 1},
		},
		NumOps: 2,
	}
	if err := b.Dispatch(op); err != nil {
		t.Fatalf("Dispatch(MOV): %v", err)
	}

	ret := decoder.DecodedOp{RIP: 0x400005, Length: 1, Family: decoder.FamilyControlFlow, Op: decoder.OpRET}
	if err := b.Dispatch(ret); err != nil {
		t.Fatalf("Dispatch(RET): %v", err)
	}

	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !b.Information.HadUnconditionalExit {
		t.Error("HadUnconditionalExit should be true after RET")
	}
	if b.HadDecodeFailure() {
		t.Error("DecodeFailure should be false for a fully-handled sequence")
	}
	if len(b.Fixups) != 0 {
		t.Errorf("Fixups should be empty, got %d entries", len(b.Fixups))
	}
	if len(b.CodeBlocks) > 3 {
		t.Errorf("expected at most 3 code blocks, got %d", len(b.CodeBlocks))
	}
}

// TestScenarioB_ForwardJump exercises §8 Scenario B: a jump to a RIP not
// yet seen registers a fixup that InsertJumpTarget later resolves.
func TestScenarioB_ForwardJump(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x401000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}

	jumpOp := decoder.DecodedOp{
		RIP: 0x401000, Length: 5, Family: decoder.FamilyControlFlow, Op: decoder.OpJUMP,
		Operands: [3]decoder.Operand{{Kind: decoder.OperandImm, Immediate: 0x401010}},
	}
	if err := b.Dispatch(jumpOp); err != nil {
		t.Fatalf("Dispatch(JUMP): %v", err)
	}
	if len(b.Fixups) != 1 {
		t.Fatalf("expected one pending fixup, got %d", len(b.Fixups))
	}

	block, err := b.BeginBlock(0x401010)
	if err != nil {
		t.Fatalf("BeginBlock: %v", err)
	}
	if len(b.Fixups) != 0 {
		t.Fatalf("fixup should have been resolved by BeginBlock, still have %d", len(b.Fixups))
	}

	retOp := decoder.DecodedOp{RIP: 0x401010, Length: 1, Family: decoder.FamilyControlFlow, Op: decoder.OpRET}
	if err := b.Dispatch(retOp); err != nil {
		t.Fatalf("Dispatch(RET): %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// Walk the node arena looking for the OpJump node and confirm its
	// target argument now equals block's id.
	found := false
	for id := ir.NodeID(0); int(id) < b.nodes.Len(); id++ {
		n := b.nodes.Get(id)
		p := b.ops.Get(n.PayloadOffset)
		if p.Header.Op == ir.OpJump {
			found = true
			if p.Header.Args[0] != block {
				t.Errorf("jump target = %v, want %v", p.Header.Args[0], block)
			}
		}
	}
	if !found {
		t.Fatal("no OpJump node found in the arena")
	}
}

// TestScenarioF_UnknownOpcode exercises §8 Scenario F: an unhandled
// opcode sets DecodeFailure, Finalize doesn't assert, and the builder is
// reusable after ResetWorkingList.
func TestScenarioF_UnknownOpcode(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x402000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}

	unknown := decoder.DecodedOp{RIP: 0x402000, Length: 3, Family: decoder.FamilyUnimplemented}
	if err := b.Dispatch(unknown); err != nil {
		t.Fatalf("Dispatch(unimplemented): %v", err)
	}
	if !b.HadDecodeFailure() {
		t.Fatal("DecodeFailure should be true after an unimplemented opcode")
	}

	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize should not assert on a DecodeFailure translation unit: %v", err)
	}

	b.ResetWorkingList()
	if !b.HadDecodeFailure() {
		t.Fatal("DecodeFailure should stay set until the next BeginFunction")
	}
	if err := b.BeginFunction(0x403000); err != nil {
		t.Fatalf("builder should be reusable after ResetWorkingList: %v", err)
	}
	if b.HadDecodeFailure() {
		t.Fatal("DecodeFailure must be false after a fresh BeginFunction")
	}
}

// TestNodeIDsAreUniqueAndStable is the "SSA uniqueness" universal
// property (§8.1).
func TestNodeIDsAreUniqueAndStable(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x404000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}

	seen := make(map[ir.NodeID]bool)
	for i := 0; i < 10; i++ {
		id, _ := b._Constant(4, uint64(i))
		if seen[id] {
			t.Fatalf("node id %v reused", id)
		}
		seen[id] = true
	}
	if _, err := b.ExitFunction(); err != nil {
		t.Fatalf("ExitFunction: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	// Ids must still resolve to the same payload after Finalize.
	for id := range seen {
		if b.nodes.Get(id).ID != id {
			t.Fatalf("node %v lost its stable id after Finalize", id)
		}
	}
}

// TestDispatchCountsVEXAndEVEXPrefixUsage confirms Dispatch feeds a
// Builder's attached telemetry sink from the decoded prefix bits alone.
func TestDispatchCountsVEXAndEVEXPrefixUsage(t *testing.T) {
	b := NewBuilder()
	sink := telemetry.NewSink()
	b.SetTelemetry(sink)
	if err := b.BeginFunction(0x406000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}

	vexOp := decoder.DecodedOp{
		RIP: 0x406000, Length: 4, Family: decoder.FamilyVectorALU, Op: decoder.OpPADD,
		Prefixes: decoder.PrefixVEX,
	}
	if err := b.Dispatch(vexOp); err != nil {
		t.Fatalf("Dispatch(VEX op): %v", err)
	}
	evexOp := decoder.DecodedOp{
		RIP: 0x406004, Length: 6, Family: decoder.FamilyVectorALU, Op: decoder.OpPADD,
		Prefixes: decoder.PrefixEVEX,
	}
	if err := b.Dispatch(evexOp); err != nil {
		t.Fatalf("Dispatch(EVEX op): %v", err)
	}

	if got := sink.Value(telemetry.VEXInstructionsUsed); got != 1 {
		t.Errorf("VEXInstructionsUsed = %d, want 1", got)
	}
	if got := sink.Value(telemetry.EVEXInstructionsUsed); got != 1 {
		t.Errorf("EVEXInstructionsUsed = %d, want 1", got)
	}
}

// TestDispatchWithoutTelemetryIsANoop confirms a Builder built without
// SetTelemetry never touches a nil sink.
func TestDispatchWithoutTelemetryIsANoop(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x407000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}
	vexOp := decoder.DecodedOp{
		RIP: 0x407000, Length: 4, Family: decoder.FamilyVectorALU, Op: decoder.OpPADD,
		Prefixes: decoder.PrefixVEX,
	}
	if err := b.Dispatch(vexOp); err != nil {
		t.Fatalf("Dispatch should not panic without a telemetry sink: %v", err)
	}
}

// TestBranchIncompleteIsRejectedWithoutDecodeFailure is testable
// property 2 ("Branch completeness", §8.2): Finalize must reject a
// translation unit that still has an unresolved branch and no
// DecodeFailure excuse.
func TestBranchIncompleteIsRejectedWithoutDecodeFailure(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginFunction(0x405000); err != nil {
		t.Fatalf("BeginFunction: %v", err)
	}
	jumpOp := decoder.DecodedOp{
		RIP: 0x405000, Length: 5, Family: decoder.FamilyControlFlow, Op: decoder.OpJUMP,
		Operands: [3]decoder.Operand{{Kind: decoder.OperandImm, Immediate: 0x999999}},
	}
	if err := b.Dispatch(jumpOp); err != nil {
		t.Fatalf("Dispatch(JUMP): %v", err)
	}
	if err := b.Finalize(); err == nil {
		t.Fatal("Finalize should reject an unresolved forward jump")
	}
}
