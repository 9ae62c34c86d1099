// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// ErrArenaShrink is returned by CopyData when the destination arena's
// backing storage is smaller than the source's (§4.2: "CopyData on a
// larger arena into a smaller one is a fatal error").
var ErrArenaShrink = fmt.Errorf("ir: CopyData target arena smaller than source")

// ListArena is the intrusive bump-allocated arena backing the node list.
// It is a fixed-stride array of Node records addressed by NodeID; Begin
// returns the base used to resolve node-id offsets, Allocate bumps the
// length, and CopyData/BackingSize support cheap deep-copy for caching
// (§4.2).
type ListArena struct {
	nodes []Node
}

// NewListArena preallocates capacity nodes of backing storage.
func NewListArena(capacity int) *ListArena {
	return &ListArena{nodes: make([]Node, 0, capacity)}
}

// Begin returns the arena's backing slice, used to resolve NodeIDs.
func (a *ListArena) Begin() []Node { return a.nodes }

// Allocate bumps the arena by one Node and returns its id.
func (a *ListArena) Allocate() NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, Node{ID: id, Prev: InvalidNodeID, Next: InvalidNodeID, PayloadOffset: InvalidNodeID.Uint32()})
	return id
}

// Get returns a pointer to the node at id for in-place mutation.
func (a *ListArena) Get(id NodeID) *Node { return &a.nodes[id] }

// Len returns the number of nodes currently in the arena.
func (a *ListArena) Len() int { return len(a.nodes) }

// BackingSize reports the arena's current element count, mirroring the
// teacher's arena BackingSize used to size CopyData destinations.
func (a *ListArena) BackingSize() int { return len(a.nodes) }

// Reset rewinds the arena to empty without releasing backing storage,
// used by ResetWorkingList to make the builder reusable.
func (a *ListArena) Reset() { a.nodes = a.nodes[:0] }

// CopyData deep-copies other's contents into a, growing a's backing
// slice as needed. It never shrinks a smaller destination silently;
// callers needing the teacher's "fatal on shrink" semantics should use
// CopyDataStrict.
func (a *ListArena) CopyData(other *ListArena) {
	a.nodes = append(a.nodes[:0], other.nodes...)
}

// CopyDataStrict matches §4.2 exactly: copying into an arena whose
// current capacity is smaller than the source is a programmer error.
func (a *ListArena) CopyDataStrict(other *ListArena) error {
	if cap(a.nodes) < len(other.nodes) {
		return ErrArenaShrink
	}
	a.CopyData(other)
	return nil
}

// Uint32 exposes NodeID as the raw comparison value stored by Header.Args
// and Node.PayloadOffset sentinels.
func (id NodeID) Uint32() uint32 { return uint32(id) }

// OpArena is the variable-stride payload arena. The spec describes each
// payload as a discriminated record with a header followed by
// opcode-specific fields (§3); here that record is the fixed-size,
// tagged Payload struct, so "variable stride" reduces to a flat slice
// indexed by offset rather than byte-packed fields accessed via unsafe
// pointer arithmetic (Go's type system already
// gives every consumer typed, safe access to Payload, and the real
// variable-length packing in the original buys nothing here since we
// don't serialize the arena to an AOT format, which is an explicit
// Non-goal).
type OpArena struct {
	payloads []Payload
}

// NewOpArena preallocates capacity payload slots.
func NewOpArena(capacity int) *OpArena {
	return &OpArena{payloads: make([]Payload, 0, capacity)}
}

func (a *OpArena) Begin() []Payload { return a.payloads }

// Allocate appends a zero-valued payload and returns its offset.
func (a *OpArena) Allocate() uint32 {
	off := uint32(len(a.payloads))
	a.payloads = append(a.payloads, Payload{})
	return off
}

func (a *OpArena) Get(off uint32) *Payload { return &a.payloads[off] }

func (a *OpArena) Len() int { return len(a.payloads) }

func (a *OpArena) BackingSize() int { return len(a.payloads) }

func (a *OpArena) Reset() { a.payloads = a.payloads[:0] }

func (a *OpArena) CopyData(other *OpArena) {
	a.payloads = append(a.payloads[:0], other.payloads...)
}

func (a *OpArena) CopyDataStrict(other *OpArena) error {
	if cap(a.payloads) < len(other.payloads) {
		return ErrArenaShrink
	}
	a.CopyData(other)
	return nil
}
