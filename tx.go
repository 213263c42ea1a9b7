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

import "github.com/vwirelib/go-vwire/internal/frame"

// txState walks a prepared frame bit by bit. It is owned by the tick
// context once armed; the foreground only arms it (Send) and reads the
// enabled flag.
type txState struct {
	buf     [frame.MaxFrameSymbols]byte
	length  int
	index   int   // current symbol
	bit     uint8 // next bit within the symbol, sent LSB first
	sample  uint8 // sample counter; a bit goes out when it hits 0
	enabled bool
}

// startTxLocked arms the transmitter with a built frame and raises
// push-to-talk. The first bit goes out on the next tick.
func (m *Modem) startTxLocked(syms []byte) {
	copy(m.tx.buf[:], syms)
	m.tx.length = len(syms)
	m.tx.index = 0
	m.tx.bit = 0
	m.tx.sample = 0
	m.tx.enabled = true

	if err := m.line.SetPTT(m.pttLevel(true)); err != nil {
		debugf("tx: ptt assert failed: %v", err)
	}
}

// stopTxLocked drops the transmit line and push-to-talk and returns
// the transmitter to idle.
func (m *Modem) stopTxLocked() {
	m.tx.enabled = false
	if err := m.line.WriteTX(false); err != nil {
		debugf("tx: line release failed: %v", err)
	}
	if err := m.line.SetPTT(m.pttLevel(false)); err != nil {
		debugf("tx: ptt release failed: %v", err)
	}
}

// txTickLocked emits the next frame bit at each bit period boundary.
// The transmitter idles for one extra bit period after the final bit
// before dropping push-to-talk, so the receiver's last sample window
// is not cut short.
func (m *Modem) txTickLocked() {
	if m.tx.sample == 0 {
		if m.tx.index >= m.tx.length {
			m.stopTxLocked()
			return
		}
		sym := m.tx.buf[m.tx.index]
		level := sym&(1<<m.tx.bit) != 0
		if err := m.line.WriteTX(level); err != nil {
			debugf("tx: write failed at symbol %d bit %d: %v", m.tx.index, m.tx.bit, err)
		}
		m.tx.bit++
		if m.tx.bit >= frame.BitsPerSymbol {
			m.tx.bit = 0
			m.tx.index++
		}
	}
	m.tx.sample = (m.tx.sample + 1) % samplesPerBit
}
