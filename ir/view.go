// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// View is a read-only view over one translation unit's two arenas. When
// constructed via NewView it borrows the builder's live arenas (Copy =
// false in the spec's IRListView<Copy?>); when constructed via
// NewViewCopy it owns cloned storage, safe to retain after the builder's
// ResetWorkingList is called (§4.1 "CreateIRCopy").
type View struct {
	nodes    []Node
	payloads []Payload
	owned    bool
}

// NewView borrows the given arenas; the returned View is only valid
// until the arenas are next mutated (e.g. by ResetWorkingList).
func NewView(list *ListArena, ops *OpArena) View {
	return View{nodes: list.Begin(), payloads: ops.Begin()}
}

// NewViewCopy deep-copies the given arenas so the result outlives the
// builder that produced it. This is what CreateIRCopy uses to hand a
// cacheable translation unit to the backend.
func NewViewCopy(list *ListArena, ops *OpArena) View {
	nodes := make([]Node, len(list.Begin()))
	copy(nodes, list.Begin())
	payloads := make([]Payload, len(ops.Begin()))
	copy(payloads, ops.Begin())
	return View{nodes: nodes, payloads: payloads, owned: true}
}

// Owned reports whether the view holds cloned storage.
func (v View) Owned() bool { return v.owned }

// Len returns the number of nodes in the view.
func (v View) Len() int { return len(v.nodes) }

// Node returns the node at id by random access.
func (v View) Node(id NodeID) Node { return v.nodes[id] }

// Payload resolves a node to its op payload, following the
// payload-pointer indirection every "replace all uses with" rewrite
// relies on.
func (v View) Payload(id NodeID) *Payload {
	n := v.nodes[id]
	return &v.payloads[n.PayloadOffset]
}

// Walk calls fn for every linked (non-unlinked) node in emission order,
// starting at head, following Next links until InvalidNodeID.
func (v View) Walk(head NodeID, fn func(NodeID, *Payload)) {
	for id := head; id != InvalidNodeID; {
		n := v.nodes[id]
		if !n.Unlinked {
			fn(id, &v.payloads[n.PayloadOffset])
		}
		id = n.Next
	}
}

// CodeBlocks returns the ids of every node whose payload op is
// OpCodeBlock, in arena order. The builder additionally tracks this set
// incrementally (Builder.CodeBlocks) to avoid the O(n) scan here; this
// helper exists for views reconstructed without that side list (e.g.
// after a cache round-trip).
func (v View) CodeBlocks() []NodeID {
	var blocks []NodeID
	for i, n := range v.nodes {
		if n.Unlinked {
			continue
		}
		if v.payloads[n.PayloadOffset].Header.Op == OpCodeBlock {
			blocks = append(blocks, NodeID(i))
		}
	}
	return blocks
}
