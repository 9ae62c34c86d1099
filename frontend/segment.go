// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// fsBaseOffset / gsBaseOffset are the context slots holding the guest
// FS/GS segment bases, populated by the executor from the guest's
// arch_prctl/MSR state (out of scope here).
const (
	fsBaseOffset = tscContextOffset + 8
	gsBaseOffset = fsBaseOffset + 8
)

// SegmentMOVOp implements FS/GS-prefixed memory moves by folding the
// segment base into the effective address before the regular load or
// store. Dispatch sends every FamilySegmentMov op here without checking
// its prefixes; the FS base is used unless PrefixSegGS is set.
func (b *Builder) SegmentMOVOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	base := fsBaseOffset
	if op.Prefixes&decoder.PrefixSegGS != 0 {
		base = gsBaseOffset
	}
	segBase, _ := b._LoadContext(8, uint32(base))

	if op.Operands[1].Kind == decoder.OperandMem {
		addr := b.computeAddress(op.Operands[1])
		full, _ := b._Add(8, segBase, addr)
		value, _ := b._LoadMem(size, full)
		b.storeOperand(op.Operands[0], size, value)
		return nil
	}

	addr := b.computeAddress(op.Operands[0])
	full, _ := b._Add(8, segBase, addr)
	value := b.loadOperand(op.Operands[1], size)
	b._StoreMem(size, full, value)
	return nil
}
