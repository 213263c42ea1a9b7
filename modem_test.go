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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// airLink couples two modems the way a radio pair is coupled: the
// receiver's RX line reads whatever the transmitter last drove onto
// its TX line.
type airLink struct {
	peer *MockLine
}

func (a *airLink) WriteTX(bool) error { return nil }

func (a *airLink) SetPTT(bool) error { return nil }

func (a *airLink) Close() error { return nil }

func (a *airLink) ReadRX() (bool, error) { return a.peer.TXLevel(), nil }

func TestNewRequiresLine(t *testing.T) {
	t.Parallel()
	m, err := New(nil)
	assert.ErrorIs(t, err, ErrNoLine)
	assert.Nil(t, m)
}

func TestNewRejectsBadOptions(t *testing.T) {
	t.Parallel()
	_, err := New(NewMockLine(), WithBitRate(0))
	assert.Error(t, err)
	_, err = New(NewMockLine(), WithPollInterval(0))
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	line := NewMockLine()
	m, err := New(line, WithExternalClock())
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.True(t, line.Closed())

	assert.ErrorIs(t, m.Start(), ErrClosed)
	assert.ErrorIs(t, m.Send([]byte{0x01}), ErrClosed)
	assert.ErrorIs(t, m.Tick(), ErrClosed)
}

func TestCloseDropsInFlightTransmission(t *testing.T) {
	t.Parallel()
	line := NewMockLine()
	m, err := New(line, WithExternalClock())
	require.NoError(t, err)
	require.NoError(t, m.Send([]byte{0x0F}))
	require.NoError(t, m.Close())
	assert.False(t, line.TXLevel())
	assert.False(t, line.PTTLevel())
}

func TestTickRequiresExternalClock(t *testing.T) {
	t.Parallel()
	m, err := New(NewMockLine())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()
	assert.ErrorIs(t, m.Tick(), ErrInternalClock)
}

func TestLoopbackEndToEnd(t *testing.T) {
	t.Parallel()
	// Two externally clocked modems sharing one simulated air link,
	// ticked in lockstep like two boards on the same crystal.
	txLine := NewMockLine()
	sender := newTestModem(t, txLine)
	receiver := newTestModem(t, &airLink{peer: txLine})
	require.NoError(t, receiver.Start())

	payload := []byte{0x01, 0x02, 0x03}
	require.NoError(t, sender.Send(payload))

	for i := 0; i < 100000 && !receiver.HaveMessage(); i++ {
		require.NoError(t, sender.Tick())
		require.NoError(t, receiver.Tick())
	}

	require.True(t, receiver.HaveMessage())
	buf := make([]byte, MaxPayloadLen)
	n, good, err := receiver.GetMessage(buf)
	require.NoError(t, err)
	assert.True(t, good)
	assert.Equal(t, payload, buf[:n])
	assert.Equal(t, uint8(1), receiver.GoodFrames())
}

func TestLoopbackBackToBackMessages(t *testing.T) {
	t.Parallel()
	txLine := NewMockLine()
	sender := newTestModem(t, txLine)
	receiver := newTestModem(t, &airLink{peer: txLine})
	require.NoError(t, receiver.Start())

	for _, payload := range [][]byte{{0x10}, {0x20, 0x21}, []byte("third")} {
		require.NoError(t, sender.Send(payload))
		for i := 0; i < 100000 && !receiver.HaveMessage(); i++ {
			require.NoError(t, sender.Tick())
			require.NoError(t, receiver.Tick())
		}
		buf := make([]byte, MaxPayloadLen)
		n, good, err := receiver.GetMessage(buf)
		require.NoError(t, err)
		assert.True(t, good)
		assert.Equal(t, payload, buf[:n])
	}
}

func TestWaitMessageTimeoutElapses(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	require.NoError(t, m.Start())

	start := time.Now()
	got := m.WaitMessageTimeout(100 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, got)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestWaitMessageTimeoutReturnsEarly(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	m.mu.Lock()
	m.store.publish([]byte{0x01}, true)
	m.mu.Unlock()

	start := time.Now()
	assert.True(t, m.WaitMessageTimeout(time.Second))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitMessageContextCancel(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := m.WaitMessageContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitTx(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	// Idle transmitter: returns immediately.
	m.WaitTx()
	require.NoError(t, m.WaitTxContext(context.Background()))

	require.NoError(t, m.Send([]byte{0x01}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	// Nobody ticks the external clock, so the send never finishes.
	assert.ErrorIs(t, m.WaitTxContext(ctx), context.DeadlineExceeded)
}

func TestInternalClockTransmits(t *testing.T) {
	t.Parallel()
	// Smoke test for the internal sample clock: the goroutine must
	// tick the transmitter through to idle on its own. High bit rate
	// keeps the nominal duration tiny; ticker overruns only stretch
	// it, they never stall it.
	line := NewMockLine()
	m, err := New(line, WithBitRate(20000))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	require.NoError(t, m.Send([]byte{0x42}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, m.WaitTxContext(ctx))
	assert.False(t, line.PTTLevel())
}
