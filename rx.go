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
	"github.com/vwirelib/go-vwire/internal/frame"
	"github.com/vwirelib/go-vwire/internal/symbol"
)

// Receiver clock recovery: a ramp counter advances every sample and
// wraps once per bit period; the wrap is the sampling point. Each edge
// on the input nudges the ramp by one of two increments straddling the
// nominal one. An edge before the ramp midpoint means the sampling
// point runs late, so the ramp is advanced by the smaller increment
// (retard); an edge at or past the midpoint gets the larger one
// (advance). An early/late gate in 20 lines: the sampling phase
// converges onto the transmitter's bit centers within a few bit
// periods, with no shared clock.
const (
	rampLen        = samplesPerBit * rampInc // ramp wraps modulo this
	rampInc        = 20                      // nominal advance per sample
	rampTransition = rampLen / 2             // early/late decision point
	rampAdjust     = 9                       // correction delta
	rampIncRetard  = rampInc - rampAdjust    // edge seen early
	rampIncAdvance = rampInc + rampAdjust    // edge seen late

	// A bit is declared 1 when at least 5 of its 8 samples were high.
	// The majority vote doubles as a debounce against single-sample
	// glitches.
	integratorThreshold = 5

	// Bit position where a freshly sampled bit enters the 12-bit
	// shift window.
	windowTopBit = 1 << (frame.StartPatternBits - 1)
)

// rxState is the complete receiver state. Mutated only by the tick
// context; reset whenever a frame completes or framing fails.
type rxState struct {
	sample     bool // current (inversion-corrected) input sample
	lastSample bool // previous sample, for edge detection
	integrator uint8
	ramp       int

	bits     uint16 // 12-bit LSB-first shift window
	bitCount uint8  // bits collected since the last symbol pair

	active bool // false: hunting for start pattern
	count  int  // expected total bytes once the length byte is in
	length int  // bytes assembled so far
	buf    [frame.MaxMessageLen]byte
}

// resetRxLocked abandons any partial frame and returns to hunting.
func (m *Modem) resetRxLocked() {
	m.rx.active = false
	m.rx.bits = 0
	m.rx.bitCount = 0
	m.rx.count = 0
	m.rx.length = 0
	m.rx.integrator = 0
	m.rx.ramp = 0
}

// abortRxLocked handles a framing error: drop the partial frame, count
// it and resume hunting. This is the receiver's only recovery path.
func (m *Modem) abortRxLocked() {
	m.rx.active = false
	m.store.countBad()
}

// pllLocked runs the clock-recovery ramp for one sample and, on each
// ramp wrap, slices one bit and feeds it to the assembler.
func (m *Modem) pllLocked() {
	rx := &m.rx

	if rx.sample {
		rx.integrator++
	}

	if rx.sample != rx.lastSample {
		if rx.ramp < rampTransition {
			rx.ramp += rampIncRetard
		} else {
			rx.ramp += rampIncAdvance
		}
		rx.lastSample = rx.sample
	} else {
		rx.ramp += rampInc
	}
	if rx.ramp < rampLen {
		return
	}
	rx.ramp -= rampLen

	// One bit period has elapsed: slice the bit by majority vote and
	// shift it into the window, LSB first.
	rx.bits >>= 1
	if rx.integrator >= integratorThreshold {
		rx.bits |= windowTopBit
	}
	rx.integrator = 0

	if !rx.active {
		if rx.bits == frame.StartPattern {
			rx.active = true
			rx.bitCount = 0
			rx.count = 0
			rx.length = 0
		}
		return
	}

	rx.bitCount++
	if rx.bitCount < frame.StartPatternBits {
		return
	}
	rx.bitCount = 0

	// Twelve fresh bits: two symbols, one byte. The earlier symbol
	// sits in the low half of the window and carries the high nibble.
	hi, ok := symbol.Decode(byte(rx.bits & symbol.Mask))
	lo, ok2 := symbol.Decode(byte(rx.bits >> frame.BitsPerSymbol))
	if !ok || !ok2 {
		m.abortRxLocked()
		return
	}
	b := hi<<4 | lo

	if rx.length == 0 {
		// First byte is the length: payload plus FCS. Anything that
		// cannot be a real frame aborts the hunt immediately.
		if int(b) < frame.FCSLen || int(b) >= frame.MaxMessageLen {
			m.abortRxLocked()
			return
		}
		rx.count = int(b) + 1
	}

	rx.buf[rx.length] = b
	rx.length++
	if rx.length < rx.count {
		return
	}

	// Full frame assembled.
	rx.active = false
	m.publishLocked(rx.buf[:rx.length])
}

// publishLocked validates an assembled frame body and hands it to the
// message store. Checksum-failed frames are published too (the caller
// sees good == false from GetMessage); only the counters tell them
// apart.
func (m *Modem) publishLocked(body []byte) {
	payload, good, err := frame.Parse(body)
	if err != nil {
		// Cannot happen for a body assembled here, but a parse
		// refusal must never count as a good frame.
		debugf("rx: parse of assembled frame failed: %v", err)
		m.store.countBad()
		return
	}
	m.store.publish(payload, good)
	if good {
		m.store.countGood()
	} else {
		m.store.countBad()
	}
}
