// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend declares the narrow external-collaborator interface
// the real aarch64 code emitter would implement (§6 "Produced to
// backend"), plus a minimal ReferenceBackend used only by this repo's
// own integration tests to exercise IRListView consumption end to end.
// Neither is an attempt at the real emitter — that is explicitly out of
// scope (§1 Non-goals).
package backend

import "github.com/deep-gaurav/fexcore/ir"

// Backend lowers one translation unit's sealed IR view into host machine
// code. The real implementation also registers the resulting region
// with the LookupCache; that wiring lives in the caller, not here, since
// this package only needs to describe the lowering contract.
type Backend interface {
	Lower(view ir.View, blocks []ir.NodeID) ([]byte, error)
}
