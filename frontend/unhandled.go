// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"github.com/deep-gaurav/fexcore/decoder"
	"github.com/deep-gaurav/fexcore/ir"
)

// UnhandledOp records that the decoder produced an opcode this frontend
// recognizes but chose not to translate (FamilyUnhandled): it emits a
// Trap whose Reason names the failure and sets the sticky decode
// failure flag, which Finalize consults to skip the branch-completeness
// assertion (Scenario F, §8.2).
func (b *Builder) UnhandledOp(op decoder.DecodedOp) error {
	b.decodeFailure = true
	b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpTrap},
		Reason: "unhandled opcode",
	})
	return nil
}

// UnimplementedOp records an opcode the decoder itself couldn't classify
// (FamilyUnimplemented) — same sticky-failure handling as UnhandledOp,
// distinguished only by the Trap's Reason for postmortem logging.
func (b *Builder) UnimplementedOp(op decoder.DecodedOp) error {
	b.decodeFailure = true
	b.emit(ir.Payload{
		Header: ir.Header{Op: ir.OpTrap},
		Reason: "unimplemented opcode",
	})
	return nil
}
