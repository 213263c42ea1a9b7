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
	"errors"

	"github.com/vwirelib/go-vwire/internal/frame"
)

// Send-side errors - local and recoverable, nothing was transmitted
var (
	// ErrPayloadTooLong is returned by Send when the payload exceeds
	// MaxPayloadLen.
	ErrPayloadTooLong = frame.ErrPayloadTooLong

	// ErrChannelBusy is returned by Send while a prior transmission is
	// still in flight. The in-flight frame is not disturbed.
	ErrChannelBusy = errors.New("channel busy: transmission in progress")
)

// Receive-side errors
var (
	// ErrNoMessage is returned by GetMessage and GetFloat when no
	// unread message is buffered.
	ErrNoMessage = errors.New("no message available")

	// ErrNotFloat is returned by GetFloat when the buffered message is
	// not a float measurement frame.
	ErrNotFloat = errors.New("message is not a float measurement")
)

// Lifecycle and configuration errors
var (
	// ErrClosed is returned by operations on a closed modem.
	ErrClosed = errors.New("modem is closed")

	// ErrNoLine is returned by New when no line driver is supplied.
	ErrNoLine = errors.New("line driver is required")

	// ErrInternalClock is returned by Tick on a modem driven by its
	// own sample clock.
	ErrInternalClock = errors.New("modem is driven by its internal clock")

	// ErrValueOutOfRange is returned by SendFloat when the scaled
	// value does not fit the wire representation.
	ErrValueOutOfRange = errors.New("scaled value out of range")

	// ErrBadPrecision is returned by SendFloat for a precision beyond
	// MaxFloatDigits decimal digits.
	ErrBadPrecision = errors.New("precision out of range")
)
