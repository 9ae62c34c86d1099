// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontend

import (
	"io/ioutil"
	"log"
	"os"
)

// PrintDebugInfo toggles verbose dispatch logging, matching the
// discard-unless-enabled logger idiom used throughout the teacher
// (wasm.PrintDebugInfo, validate.PrintDebugInfo).
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := ioutil.Discard
	if PrintDebugInfo {
		w = os.Stderr
	}
	logger = log.New(w, "", log.Lshortfile)
}
