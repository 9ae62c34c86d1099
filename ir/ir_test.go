// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestListArenaAllocateIsDenseAndStable(t *testing.T) {
	a := NewListArena(4)
	id0 := a.Allocate()
	id1 := a.Allocate()
	if id0 != 0 || id1 != 1 {
		t.Fatalf("ids = %d, %d; want 0, 1", id0, id1)
	}
	a.Get(id0).Next = id1
	a.Get(id1).Prev = id0
	if a.Get(id0).Next != id1 {
		t.Fatalf("node 0's Next = %d, want %d", a.Get(id0).Next, id1)
	}
}

func TestOpArenaCopyDataStrictRejectsShrink(t *testing.T) {
	src := NewOpArena(4)
	src.Allocate()
	src.Allocate()

	dst := NewOpArena(1)
	if err := dst.CopyDataStrict(src); err != ErrArenaShrink {
		t.Fatalf("CopyDataStrict err = %v, want %v", err, ErrArenaShrink)
	}
}

func TestViewWalkSkipsUnlinkedNodes(t *testing.T) {
	nodes := NewListArena(4)
	ops := NewOpArena(4)

	id0 := nodes.Allocate()
	off0 := ops.Allocate()
	nodes.Get(id0).PayloadOffset = off0
	ops.Get(off0).Header.Op = OpConstant

	id1 := nodes.Allocate()
	off1 := ops.Allocate()
	nodes.Get(id1).PayloadOffset = off1
	nodes.Get(id1).Unlinked = true
	ops.Get(off1).Header.Op = OpConstant

	id2 := nodes.Allocate()
	off2 := ops.Allocate()
	nodes.Get(id2).PayloadOffset = off2
	ops.Get(off2).Header.Op = OpExitFunction

	nodes.Get(id0).Next = id1
	nodes.Get(id1).Next = id2
	nodes.Get(id2).Next = InvalidNodeID

	v := NewView(nodes, ops)
	var seen []NodeID
	v.Walk(id0, func(id NodeID, p *Payload) { seen = append(seen, id) })

	if len(seen) != 2 || seen[0] != id0 || seen[1] != id2 {
		t.Fatalf("Walk visited %v, want [%d %d]", seen, id0, id2)
	}
}

func TestViewCopyIsIndependentOfSource(t *testing.T) {
	nodes := NewListArena(4)
	ops := NewOpArena(4)
	id := nodes.Allocate()
	off := ops.Allocate()
	nodes.Get(id).PayloadOffset = off
	ops.Get(off).Constant = 42

	cp := NewViewCopy(nodes, ops)
	if !cp.Owned() {
		t.Fatal("NewViewCopy view should be owned")
	}
	ops.Get(off).Constant = 7
	if got := cp.Payload(id).Constant; got != 42 {
		t.Fatalf("copied view Constant = %d, want 42 (unaffected by source mutation)", got)
	}
}
