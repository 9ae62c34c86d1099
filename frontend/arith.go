// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import "github.com/deep-gaurav/fexcore/ir"

func (b *Builder) binOp(op ir.OpCode, size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: op, HasDest: true, Size: size, NumArgs: 2, Args: [4]ir.NodeID{a, c}},
	})
}

func (b *Builder) unOp(op ir.OpCode, size uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header: ir.Header{Op: op, HasDest: true, Size: size, NumArgs: 1, Args: [4]ir.NodeID{a}},
	})
}

func (b *Builder) _Add(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpAdd, size, a, c) }
func (b *Builder) _Sub(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpSub, size, a, c) }
func (b *Builder) _Adc(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpAdc, size, a, c) }
func (b *Builder) _Sbb(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpSbb, size, a, c) }
func (b *Builder) _And(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpAnd, size, a, c) }
func (b *Builder) _Or(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload)  { return b.binOp(ir.OpOr, size, a, c) }
func (b *Builder) _Xor(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpXor, size, a, c) }
func (b *Builder) _Mul(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpMul, size, a, c) }
func (b *Builder) _UMul(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpUMul, size, a, c) }
func (b *Builder) _Div(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpDiv, size, a, c) }
func (b *Builder) _UDiv(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpUDiv, size, a, c) }
func (b *Builder) _Shl(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpShl, size, a, c) }
func (b *Builder) _Shr(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpShr, size, a, c) }
func (b *Builder) _Ashr(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpAshr, size, a, c) }
func (b *Builder) _Rol(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpRol, size, a, c) }
func (b *Builder) _Ror(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpRor, size, a, c) }
func (b *Builder) _Bittest(size uint8, a, c ir.NodeID) (ir.NodeID, *ir.Payload) { return b.binOp(ir.OpBittest, size, a, c) }

func (b *Builder) _Neg(size uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) { return b.unOp(ir.OpNeg, size, a) }
func (b *Builder) _Not(size uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) { return b.unOp(ir.OpNot, size, a) }
func (b *Builder) _Bfs(size uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) { return b.unOp(ir.OpBfs, size, a) }
func (b *Builder) _Bfr(size uint8, a ir.NodeID) (ir.NodeID, *ir.Payload) { return b.unOp(ir.OpBfr, size, a) }

// _LoadContext and _StoreContext model reading/writing the guest
// register file, addressed by byte offset into a context struct the
// (out-of-scope) backend owns — the same indirection FEX's
// _StoreContext/_LoadContext ops use to avoid binding the IR to a fixed
// physical register assignment before register allocation runs.
func (b *Builder) _LoadContext(size uint8, offset uint32) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:    ir.Header{Op: ir.OpLoadContext, HasDest: true, Size: size},
		CtxOffset: offset,
	})
}

func (b *Builder) _StoreContext(size uint8, offset uint32, value ir.NodeID) (ir.NodeID, *ir.Payload) {
	return b.emit(ir.Payload{
		Header:    ir.Header{Op: ir.OpStoreContext, NumArgs: 1, Args: [4]ir.NodeID{value}},
		CtxOffset: offset,
		MemSize:   size,
	})
}
