// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

// buildState implements the per-translation-unit state machine from
// §4.1: Empty -> Building -> Sealed -> (Reset) -> Empty.
type buildState uint8

const (
	stateEmpty buildState = iota
	stateBuilding
	stateSealed
)
