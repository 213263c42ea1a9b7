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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFloatOverTheAir(t *testing.T) {
	t.Parallel()
	txLine := NewMockLine()
	sender := newTestModem(t, txLine)
	receiver := newTestModem(t, &airLink{peer: txLine})
	require.NoError(t, receiver.Start())

	tests := []struct {
		name   string
		value  float64
		digits uint8
		typ    uint8
		source uint8
	}{
		{name: "temperature", value: 23.45, digits: 2, typ: TypeTemperature, source: 1},
		{name: "negative", value: -7.125, digits: 3, typ: TypeTemperature, source: 2},
		{name: "light integer", value: 512, digits: 0, typ: TypeLight, source: 3},
		{name: "zero", value: 0, digits: 4, typ: TypeLight, source: 4},
	}
	for _, tt := range tests {
		require.NoError(t, sender.SendFloat(tt.value, tt.digits, tt.typ, tt.source), tt.name)
		for i := 0; i < 100000 && !receiver.HaveMessage(); i++ {
			require.NoError(t, sender.Tick())
			require.NoError(t, receiver.Tick())
		}

		value, typ, source, good, err := receiver.GetFloat()
		require.NoError(t, err, tt.name)
		assert.True(t, good, tt.name)
		assert.InDelta(t, tt.value, value, math.Pow10(-int(tt.digits))/2, tt.name)
		assert.Equal(t, tt.typ, typ, tt.name)
		assert.Equal(t, tt.source, source, tt.name)
	}
}

func TestSendFloatValidation(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())

	assert.ErrorIs(t, m.SendFloat(1.0, MaxFloatDigits+1, TypeTemperature, 1), ErrBadPrecision)
	assert.ErrorIs(t, m.SendFloat(1e12, 0, TypeTemperature, 1), ErrValueOutOfRange)
	assert.ErrorIs(t, m.SendFloat(-1e12, 0, TypeTemperature, 1), ErrValueOutOfRange)
	assert.ErrorIs(t, m.SendFloat(math.NaN(), 0, TypeTemperature, 1), ErrValueOutOfRange)
	assert.False(t, m.Transmitting(), "rejected sends must not key the transmitter")
}

func TestGetFloatOnEmptyStore(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	_, _, _, _, err := m.GetFloat()
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestGetFloatRejectsNonFloatMessage(t *testing.T) {
	t.Parallel()
	m := newTestModem(t, NewMockLine())
	m.mu.Lock()
	m.store.publish([]byte{0x01, 0x02, 0x03}, true)
	m.mu.Unlock()

	_, _, _, _, err := m.GetFloat()
	assert.ErrorIs(t, err, ErrNotFloat)
	assert.False(t, m.HaveMessage(), "malformed message is still consumed")
}
