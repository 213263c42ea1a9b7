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

import "sync"

// Line abstracts the two or three digital I/O lines the modem drives.
// Implementations deal in raw electrical levels; the modem applies the
// configured inversion flags before calling them.
//
// Line methods are called from the modem's tick context at the sample
// rate (bit rate times 8), so they must be cheap and must not block.
type Line interface {
	// WriteTX sets the transmit data line level.
	WriteTX(level bool) error

	// ReadRX samples the receive data line level.
	ReadRX() (bool, error)

	// SetPTT sets the push-to-talk (transmit enable) line level.
	// Implementations without a PTT line return nil.
	SetPTT(level bool) error

	// Close releases the underlying I/O resources. The modem parks
	// all lines at their idle level before closing.
	Close() error
}

// MockLine is an in-memory Line for tests and simulations. The RX level
// is set by the test; TX and PTT levels written by the modem are
// recorded and can be read back.
type MockLine struct {
	mu     sync.Mutex
	rx     bool
	tx     bool
	ptt    bool
	closed bool

	// TXTrace, when enabled, records every WriteTX level in order.
	trace   bool
	txTrace []bool
}

// NewMockLine creates a MockLine with all lines low.
func NewMockLine() *MockLine {
	return &MockLine{}
}

// WriteTX implements Line.
func (m *MockLine) WriteTX(level bool) error {
	m.mu.Lock()
	m.tx = level
	if m.trace {
		m.txTrace = append(m.txTrace, level)
	}
	m.mu.Unlock()
	return nil
}

// ReadRX implements Line.
func (m *MockLine) ReadRX() (bool, error) {
	m.mu.Lock()
	level := m.rx
	m.mu.Unlock()
	return level, nil
}

// SetPTT implements Line.
func (m *MockLine) SetPTT(level bool) error {
	m.mu.Lock()
	m.ptt = level
	m.mu.Unlock()
	return nil
}

// Close implements Line.
func (m *MockLine) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// SetRX sets the level the modem will sample next.
func (m *MockLine) SetRX(level bool) {
	m.mu.Lock()
	m.rx = level
	m.mu.Unlock()
}

// TXLevel returns the last level written to the transmit line.
func (m *MockLine) TXLevel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx
}

// PTTLevel returns the last level written to the push-to-talk line.
func (m *MockLine) PTTLevel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ptt
}

// Closed reports whether Close has been called.
func (m *MockLine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// EnableTXTrace starts recording WriteTX levels.
func (m *MockLine) EnableTXTrace() {
	m.mu.Lock()
	m.trace = true
	m.mu.Unlock()
}

// TXTrace returns a copy of the recorded WriteTX levels.
func (m *MockLine) TXTrace() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(m.txTrace))
	copy(out, m.txTrace)
	return out
}
