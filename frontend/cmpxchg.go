// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/decoder"

// CMPXCHGOp compares the accumulator (AL/AX/EAX/RAX) against the
// destination; on equality the source replaces the destination,
// otherwise the destination's current value is loaded back into the
// accumulator. RFLAGS is set as a regular CMP/SUB would be.
func (b *Builder) CMPXCHGOp(op decoder.DecodedOp) error {
	size := sizeOf(op)
	acc, _ := b._LoadContext(size, gprContextOffset(0))
	dst := b.loadOperand(op.Operands[0], size)
	src := b.loadOperand(op.Operands[1], size)

	diff, _ := b._Sub(size, acc, dst)
	b.GenerateFlagsSUB(diff, acc, dst, size)

	eq, _ := b.GetRFLAG(FlagZF)
	newDst, _ := b._Select(1, eq, mustConst(b, 1, 0), src, dst)
	b.storeOperand(op.Operands[0], size, newDst)

	newAcc, _ := b._Select(1, eq, mustConst(b, 1, 0), acc, dst)
	b._StoreContext(size, gprContextOffset(0), newAcc)
	return nil
}
