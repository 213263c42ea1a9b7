// Copyright 2026 The go-vwire Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vwire

import (
	"fmt"
	"os"
)

// debugEnabled controls whether debug logging is active. Never enable
// it while actually clocking a radio: printing inside the tick path
// ruins the bit timing.
var debugEnabled = false

func init() {
	if os.Getenv("VWIRE_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// SetDebugEnabled turns debug output on or off at runtime.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// Debugf prints debug information when debug mode is enabled.
func Debugf(format string, args ...any) {
	if debugEnabled {
		_, _ = fmt.Fprintf(os.Stderr, "DEBUG: %s\n", fmt.Sprintf(format, args...))
	}
}

// Debugln prints debug information when debug mode is enabled.
func Debugln(args ...any) {
	if debugEnabled {
		_, _ = fmt.Fprintf(os.Stderr, "DEBUG: %s\n", fmt.Sprint(args...))
	}
}

// Internal aliases used inside the package.
var (
	debugf  = Debugf
	debugln = Debugln
)
