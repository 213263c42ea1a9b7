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

// Package vwire implements a software-defined ASK packet radio modem:
// a connectionless, unaddressed, best-effort datagram link over a bare
// on/off digital radio line, a bit like UDP over wireless.
//
// Arbitrary bytes are re-encoded into DC-balanced 6-bit symbols,
// framed with a training preamble, start pattern, length byte and a
// 16-bit FCS, and clocked out one bit per bit period. The receiver
// recovers the transmitter's bit clock purely from edge transitions
// with a software phase-locked loop sampling at 8x the bit rate; no
// UART framing and no shared reference clock are needed, which is why
// this outperforms a UART wired to the same cheap ASK modules.
//
// The link is half duplex and offers no addressing, acknowledgment,
// retransmission or encryption.
package vwire

import (
	"context"
	"sync"
	"time"

	"github.com/vwirelib/go-vwire/internal/frame"
	"github.com/vwirelib/go-vwire/internal/syncutil"
)

// MaxPayloadLen is the largest payload accepted by Send.
const MaxPayloadLen = frame.MaxPayloadLen

// samplesPerBit is the receiver oversampling factor. The sample clock
// runs at BitRate * samplesPerBit.
const samplesPerBit = 8

// Modem is a half-duplex ASK packet modem over a Line.
//
// All engine state is mutated only by the tick context (the internal
// sample clock goroutine, or the caller of Tick with an external
// clock). Foreground calls coordinate with it through a single mutex,
// taken briefly per tick; the blocking waits poll rather than hold it.
type Modem struct {
	line Line
	cfg  Config

	mu syncutil.Mutex

	tx    txState
	rx    rxState
	store messageStore

	rxEnabled bool
	closed    bool

	tickInterval time.Duration
	clockOn      bool
	quit         chan struct{}
	wg           sync.WaitGroup
}

// New creates a Modem over the given line. The configuration is fixed
// for the life of the modem. The receiver is initially stopped; call
// Start to begin listening.
func New(line Line, opts ...Option) (*Modem, error) {
	if line == nil {
		return nil, ErrNoLine
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Modem{
		line:         line,
		cfg:          cfg,
		tickInterval: time.Second / time.Duration(cfg.BitRate*samplesPerBit),
		quit:         make(chan struct{}),
	}
	// Park the lines at their idle levels.
	if err := line.WriteTX(false); err != nil {
		return nil, err
	}
	if err := line.SetPTT(m.pttLevel(false)); err != nil {
		return nil, err
	}
	return m, nil
}

// Close stops the sample clock, drops any in-flight transmission,
// parks the lines and closes the line driver.
func (m *Modem) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.rxEnabled = false
	if m.tx.enabled {
		m.stopTxLocked()
	}
	close(m.quit)
	m.mu.Unlock()

	m.wg.Wait()
	return m.line.Close()
}

// Start enables the receiver: the sample clock runs and the PLL hunts
// for a start pattern. Restarting an already started receiver is a
// no-op.
func (m *Modem) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if !m.rxEnabled {
		m.rxEnabled = true
		m.resetRxLocked()
		m.ensureClockLocked()
	}
	return nil
}

// Stop disables the receiver to save processing cycles. Any partially
// received frame is abandoned; a later Start hunts from scratch. An
// in-flight transmission is not affected.
func (m *Modem) Stop() {
	m.mu.Lock()
	m.rxEnabled = false
	m.resetRxLocked()
	m.mu.Unlock()
}

// Send queues a payload for transmission and returns immediately; the
// frame is clocked out bit by bit at the sample clock's pace. It
// returns ErrPayloadTooLong if the payload exceeds MaxPayloadLen and
// ErrChannelBusy while a prior transmission is still in flight.
func (m *Modem) Send(payload []byte) error {
	syms, err := frame.Build(payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.tx.enabled {
		return ErrChannelBusy
	}
	m.startTxLocked(syms)
	m.ensureClockLocked()
	return nil
}

// Transmitting reports whether a transmission is in flight.
func (m *Modem) Transmitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx.enabled
}

// WaitTx blocks until the transmitter is idle.
func (m *Modem) WaitTx() {
	for m.Transmitting() {
		time.Sleep(m.cfg.PollInterval)
	}
}

// WaitTxContext blocks until the transmitter is idle or the context is
// done.
func (m *Modem) WaitTxContext(ctx context.Context) error {
	for m.Transmitting() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}
	}
	return nil
}

// HaveMessage reports whether an unread message is buffered, whether
// its checksum verified or not.
func (m *Modem) HaveMessage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.unread
}

// GetMessage copies the buffered message into buf and clears the
// unread slot. It returns the number of bytes copied and whether the
// frame checksum verified; a message longer than buf is truncated, not
// an error. Checksum-failed messages are delivered too, with good set
// to false, so callers may inspect corrupted payloads. ErrNoMessage is
// returned when nothing is buffered.
func (m *Modem) GetMessage(buf []byte) (n int, good bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, good, ok := m.store.take(buf)
	if !ok {
		return 0, false, ErrNoMessage
	}
	return n, good, nil
}

// WaitMessage blocks until a message is available.
func (m *Modem) WaitMessage() {
	for !m.HaveMessage() {
		time.Sleep(m.cfg.PollInterval)
	}
}

// WaitMessageTimeout blocks until a message is available or the given
// duration has elapsed, and reports whether a message arrived. The
// deadline uses the wall clock, not the radio sample clock, so it
// holds even while the receiver is stopped.
func (m *Modem) WaitMessageTimeout(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if m.HaveMessage() {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if remaining > m.cfg.PollInterval {
			remaining = m.cfg.PollInterval
		}
		time.Sleep(remaining)
	}
}

// WaitMessageContext blocks until a message is available or the
// context is done.
func (m *Modem) WaitMessageContext(ctx context.Context) error {
	for !m.HaveMessage() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}
	}
	return nil
}

// GoodFrames returns the count of checksum-valid frames received. The
// counter saturates at 255; it is informational, not an exact total.
func (m *Modem) GoodFrames() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.goodCount
}

// BadFrames returns the count of framing errors and checksum failures.
// The counter saturates at 255.
func (m *Modem) BadFrames() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.badCount
}

// pttLevel translates a logical push-to-talk state into the electrical
// level for the configured polarity.
func (m *Modem) pttLevel(active bool) bool {
	return active != m.cfg.PTTInverted
}
