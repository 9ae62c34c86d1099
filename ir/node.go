// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// NodeID is the dense, stable identifier of an IR node: its position (by
// stride) in the node arena. It never changes once a node is emitted,
// even if the node is later unlinked from emission order or has its
// payload pointer rewritten.
type NodeID uint32

// InvalidNodeID is the sentinel used as a placeholder for unresolved
// branch targets, analogous to the teacher's compile.Compile initializing
// patch addresses to 0 before patchOffset overwrites them.
const InvalidNodeID NodeID = 1<<32 - 1

// Node is one SSA value: a position in emission order (via Prev/Next)
// plus a pointer (PayloadOffset) into the op arena. Nodes are never
// deleted from the arena; "replace all uses with" is implemented by
// rewriting PayloadOffset, which every consumer resolves indirectly
// through the node (§9 "Replace all uses with via payload-pointer swap").
type Node struct {
	ID            NodeID
	Prev, Next    NodeID
	PayloadOffset uint32
	Unlinked      bool
}
