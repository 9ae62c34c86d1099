// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frontend implements the OpDispatchBuilder (§4.1): it walks a
// decoded guest instruction stream and emits the SSA IR pattern for each
// instruction's x86 semantics into the two arenas in package ir, tracking
// jump targets and pending fixups for branches to RIPs not yet seen.
package frontend

import (
	"github.com/deep-gaurav/fexcore/ir"
	"github.com/deep-gaurav/fexcore/telemetry"
)

const (
	defaultNodeCapacity = 512
	defaultOpCapacity   = 512
)

// Builder is a per-translation-unit OpDispatchBuilder. Each guest thread
// owns one, thread-local (§5 "Scheduling model"); it is reused across
// translation units via ResetWorkingList rather than reallocated.
type Builder struct {
	nodes *ir.ListArena
	ops   *ir.OpArena

	state       buildState
	entryRIP    uint64
	writeCursor ir.NodeID
	currentBlock ir.NodeID

	// Information mirrors the spec's Information struct: builder-wide
	// flags a backend consults after Finalize.
	Information struct {
		HadUnconditionalExit bool
	}

	// JumpTargets maps a guest RIP to the CODEBLOCK node that begins
	// its translation, and Fixups holds branches still waiting on a
	// RIP that hasn't been inserted yet (§3).
	JumpTargets map[uint64]ir.NodeID
	Fixups      map[uint64][]Fixup

	// CodeBlocks lists every block node in insertion order, handed to
	// the backend alongside the IR view (§6).
	CodeBlocks []ir.NodeID

	decodeFailure bool

	// Telemetry, when set via SetTelemetry, receives per-instruction
	// counts Dispatch can derive statically from the decoded op (§4.4):
	// VEX/EVEX prefix usage today, with the CAS-tear and split-lock
	// kinds left for the (out-of-scope) executor that actually observes
	// those faults at runtime. A nil Telemetry is a no-op, so building
	// without a sink (e.g. in tests) needs no special-casing.
	Telemetry *telemetry.Sink
}

// SetTelemetry attaches sink as the destination for the counters
// Dispatch can derive from a decoded instruction.
func (b *Builder) SetTelemetry(sink *telemetry.Sink) { b.Telemetry = sink }

// NewBuilder allocates a Builder with its arenas pre-sized; the zero
// value is not usable because the arenas must exist before
// BeginFunction.
func NewBuilder() *Builder {
	return &Builder{
		nodes:       ir.NewListArena(defaultNodeCapacity),
		ops:         ir.NewOpArena(defaultOpCapacity),
		JumpTargets: make(map[uint64]ir.NodeID),
		Fixups:      make(map[uint64][]Fixup),
		writeCursor: ir.InvalidNodeID,
		currentBlock: ir.InvalidNodeID,
	}
}

// BeginFunction seeds the builder with an entry CODEBLOCK at entryRIP
// and moves it into the Building state (§4.1).
func (b *Builder) BeginFunction(entryRIP uint64) error {
	if b.state != stateEmpty {
		return ErrAlreadyBuilding
	}
	b.entryRIP = entryRIP
	b.writeCursor = ir.InvalidNodeID
	b.currentBlock = ir.InvalidNodeID
	b.Information.HadUnconditionalExit = false
	b.decodeFailure = false
	b.state = stateBuilding

	block := b.emitCodeBlockNode()
	if err := b.InsertJumpTarget(entryRIP, block); err != nil {
		return err
	}
	return nil
}

// BeginBlock starts a new basic block at rip, emitting a CODEBLOCK node
// and registering it as rip's jump target, resolving any fixups
// pending against rip.
func (b *Builder) BeginBlock(rip uint64) (ir.NodeID, error) {
	if b.state != stateBuilding {
		return ir.InvalidNodeID, ErrNotBuilding
	}
	block := b.emitCodeBlockNode()
	if err := b.InsertJumpTarget(rip, block); err != nil {
		return ir.InvalidNodeID, err
	}
	return block, nil
}

// ExitFunction emits the terminal exit op and marks the translation
// unit as unconditionally exited.
func (b *Builder) ExitFunction() (ir.NodeID, error) {
	if b.state != stateBuilding {
		return ir.InvalidNodeID, ErrNotBuilding
	}
	id, _ := b.emit(ir.Payload{Header: ir.Header{Op: ir.OpExitFunction}})
	b.Information.HadUnconditionalExit = true
	return id, nil
}

// Finalize resolves all pending fixups and verifies every branch op's
// target arguments resolve to a CODEBLOCK node, per §4.1 and the
// "Branch completeness" testable property (§8.2). It does not assert
// when DecodeFailure is set (Scenario F): an abandoned translation unit
// is allowed to carry unresolved branches, since the surrounding
// executor routes its RIP to an interpreter/stub instead of running it.
func (b *Builder) Finalize() error {
	if b.state != stateBuilding {
		return ErrNotBuilding
	}
	if b.decodeFailure {
		b.state = stateSealed
		return nil
	}
	if len(b.Fixups) > 0 {
		for rip := range b.Fixups {
			return BranchIncompleteError{RIP: rip}
		}
	}
	for id := ir.NodeID(0); int(id) < b.nodes.Len(); id++ {
		n := b.nodes.Get(id)
		if n.Unlinked {
			continue
		}
		p := b.ops.Get(n.PayloadOffset)
		switch p.Header.Op {
		case ir.OpJump:
			if !b.argIsCodeBlock(p.Header.Args[0]) {
				return BranchIncompleteError{}
			}
		case ir.OpCondJump:
			if !b.argIsCodeBlock(p.Header.Args[0]) || !b.argIsCodeBlock(p.Header.Args[1]) {
				return BranchIncompleteError{}
			}
		}
	}
	b.state = stateSealed
	return nil
}

func (b *Builder) argIsCodeBlock(arg ir.NodeID) bool {
	if arg == ir.InvalidNodeID || int(arg) >= b.nodes.Len() {
		return false
	}
	n := b.nodes.Get(arg)
	return b.ops.Get(n.PayloadOffset).Header.Op == ir.OpCodeBlock
}

// ViewIR returns a read-only, borrowed view over the current arenas.
// Legal in the Sealed state, as the spec requires.
func (b *Builder) ViewIR() (ir.View, error) {
	if b.state != stateSealed {
		return ir.View{}, ErrNotSealed
	}
	return ir.NewView(b.nodes, b.ops), nil
}

// CreateIRCopy deep-copies the arenas so the result is safe to retain
// (and cache) past the next ResetWorkingList.
func (b *Builder) CreateIRCopy() (ir.View, error) {
	if b.state != stateSealed {
		return ir.View{}, ErrNotSealed
	}
	return ir.NewViewCopy(b.nodes, b.ops), nil
}

// ResetWorkingList rewinds both arenas to empty, clears the jump-target
// and fixup tables, empties CodeBlocks, and returns the builder to the
// Empty state so it can be reused for the next translation unit.
func (b *Builder) ResetWorkingList() {
	b.nodes.Reset()
	b.ops.Reset()
	for k := range b.JumpTargets {
		delete(b.JumpTargets, k)
	}
	for k := range b.Fixups {
		delete(b.Fixups, k)
	}
	b.CodeBlocks = b.CodeBlocks[:0]
	b.writeCursor = ir.InvalidNodeID
	b.currentBlock = ir.InvalidNodeID
	b.state = stateEmpty
}

// HadDecodeFailure reports the sticky flag set by UnhandledOp /
// UnimplementedOp.
func (b *Builder) HadDecodeFailure() bool { return b.decodeFailure }

// GetWriteCursor returns the node after which the next emitted node will
// be linked.
func (b *Builder) GetWriteCursor() ir.NodeID { return b.writeCursor }

// SetWriteCursor repositions the insertion point, letting handlers emit
// out-of-order code (e.g. both arms of a conditional after the test).
func (b *Builder) SetWriteCursor(id ir.NodeID) { b.writeCursor = id }

func (b *Builder) payload(id ir.NodeID) *ir.Payload {
	n := b.nodes.Get(id)
	return b.ops.Get(n.PayloadOffset)
}

// emitRaw allocates a node+payload pair and links it after the write
// cursor, without touching the current block's First/Last bookkeeping
// (emitCodeBlockNode calls it directly, since a CODEBLOCK node is itself
// the block boundary, not a contained instruction; emit wraps it with
// that bookkeeping).
func (b *Builder) emitRaw(p ir.Payload) (ir.NodeID, *ir.Payload) {
	off := b.ops.Allocate()
	*b.ops.Get(off) = p

	id := b.nodes.Allocate()
	node := b.nodes.Get(id)
	node.PayloadOffset = off
	b.linkAfterCursor(id)
	return id, b.ops.Get(off)
}

func (b *Builder) linkAfterCursor(id ir.NodeID) {
	node := b.nodes.Get(id)
	cur := b.writeCursor
	if cur == ir.InvalidNodeID {
		node.Prev = ir.InvalidNodeID
		node.Next = ir.InvalidNodeID
	} else {
		curNode := b.nodes.Get(cur)
		next := curNode.Next
		node.Prev = cur
		node.Next = next
		curNode.Next = id
		if next != ir.InvalidNodeID {
			b.nodes.Get(next).Prev = id
		}
	}
	b.writeCursor = id
}

// emit is the common path used by every builder helper (_Constant,
// _LoadMem, ...): allocate the node+payload and fold it into the
// current CODEBLOCK's First/Last range.
func (b *Builder) emit(p ir.Payload) (ir.NodeID, *ir.Payload) {
	id, payload := b.emitRaw(p)
	if b.currentBlock != ir.InvalidNodeID {
		cb := b.payload(b.currentBlock)
		if cb.First == ir.InvalidNodeID {
			cb.First = id
		}
		cb.Last = id
	}
	return id, payload
}

func (b *Builder) emitCodeBlockNode() ir.NodeID {
	id, payload := b.emitRaw(ir.Payload{Header: ir.Header{Op: ir.OpCodeBlock}})
	payload.First = ir.InvalidNodeID
	payload.Last = ir.InvalidNodeID
	payload.Next = ir.InvalidNodeID

	if b.currentBlock != ir.InvalidNodeID {
		b.payload(b.currentBlock).Next = id
	}
	b.currentBlock = id
	return id
}

// UnlinkNode removes id from emission order while keeping it
// addressable by id (§3 "Node" attributes: "may be unlinked"). Any
// existing Prev/Next neighbors are spliced together.
func (b *Builder) UnlinkNode(id ir.NodeID) {
	n := b.nodes.Get(id)
	if n.Unlinked {
		return
	}
	n.Unlinked = true
	if n.Prev != ir.InvalidNodeID {
		b.nodes.Get(n.Prev).Next = n.Next
	}
	if n.Next != ir.InvalidNodeID {
		b.nodes.Get(n.Next).Prev = n.Prev
	}
	if b.writeCursor == id {
		b.writeCursor = n.Prev
	}
}

// ReplaceAllUsesWith rewrites target's payload pointer to src's payload
// offset, so every consumer that resolves target's payload indirectly
// now observes src's op (§4.1 "Replace-all-uses", flavor (a)). This is
// legal only when no code holds a direct *ir.Payload alias across the
// call, which callers must ensure.
func (b *Builder) ReplaceAllUsesWith(target, src ir.NodeID) {
	srcOffset := b.nodes.Get(src).PayloadOffset
	b.nodes.Get(target).PayloadOffset = srcOffset
}

// CopyOpPayload implements flavor (b) of replace-all-uses: copy the
// payload offset from src into dst, used to collapse dead branches onto
// an existing op without allocating a new payload.
func (b *Builder) CopyOpPayload(dst, src ir.NodeID) {
	b.nodes.Get(dst).PayloadOffset = b.nodes.Get(src).PayloadOffset
}
