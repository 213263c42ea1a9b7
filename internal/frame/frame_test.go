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

package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vwirelib/go-vwire/internal/symbol"
)

// decodeBody strips the header symbols and folds the remaining symbol
// pairs back into bytes, mimicking an ideal receiver.
func decodeBody(t *testing.T, syms []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(syms), HeaderSymbols)
	body := syms[HeaderSymbols:]
	require.Zero(t, len(body)%SymbolsPerByte, "odd symbol count")

	out := make([]byte, 0, len(body)/SymbolsPerByte)
	for i := 0; i < len(body); i += 2 {
		hi, ok := symbol.Decode(body[i])
		require.True(t, ok)
		lo, ok := symbol.Decode(body[i+1])
		require.True(t, ok)
		out = append(out, hi<<4|lo)
	}
	return out
}

func TestBuildHeader(t *testing.T) {
	t.Parallel()
	syms, err := Build([]byte{0x42})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2A, 0x2A, 0x2A, 0x2A, 0x2A, 0x2A, 0x38, 0x2C},
		syms[:HeaderSymbols])
}

func TestBuildLengthByte(t *testing.T) {
	t.Parallel()
	syms, err := Build([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	body := decodeBody(t, syms)
	// 3 payload bytes plus 2 FCS bytes.
	assert.Equal(t, byte(5), body[0])
	assert.Equal(t, 1+3+FCSLen, len(body))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, body[1:4])
}

func TestBuildParseRoundTrip(t *testing.T) {
	t.Parallel()
	payloads := [][]byte{
		{},
		{0x00},
		{0xFF},
		{0x01, 0x02, 0x03},
		[]byte("hello, wireless world"),
		bytes.Repeat([]byte{0xA5}, MaxPayloadLen),
	}
	for _, payload := range payloads {
		syms, err := Build(payload)
		require.NoError(t, err)

		got, good, err := Parse(decodeBody(t, syms))
		require.NoError(t, err)
		assert.True(t, good, "checksum must verify for %d byte payload", len(payload))
		assert.Equal(t, payload, append([]byte{}, got...))
	}
}

func TestBuildRejectsOversizedPayload(t *testing.T) {
	t.Parallel()
	syms, err := Build(make([]byte, MaxPayloadLen+1))
	require.ErrorIs(t, err, ErrPayloadTooLong)
	assert.Nil(t, syms)
}

func TestParseDeliversCorruptedFrame(t *testing.T) {
	t.Parallel()
	syms, err := Build([]byte{0x10, 0x20, 0x30, 0x40})
	require.NoError(t, err)
	body := decodeBody(t, syms)

	// A single flipped payload byte must fail the checksum but the
	// frame is still handed over, corrupted bytes intact.
	body[2] ^= 0x01
	payload, good, err := Parse(body)
	require.NoError(t, err)
	assert.False(t, good)
	assert.Equal(t, []byte{0x10, 0x21, 0x30, 0x40}, payload)
}

func TestParseBadLength(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty", body: nil},
		{name: "too short for FCS", body: []byte{0x02, 0xAB}},
		{name: "length byte mismatch", body: []byte{0x09, 0x01, 0x02, 0x03, 0x04}},
		{name: "over maximum", body: make([]byte, MaxMessageLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(tt.body)
			assert.ErrorIs(t, err, ErrBadLength)
		})
	}
}

func TestChecksumKnownValue(t *testing.T) {
	t.Parallel()
	// CRC-16/X.25 of "123456789" is 0x906E; Checksum omits the final
	// complement, so the raw remainder is its inverse.
	assert.Equal(t, uint16(^uint16(0x906E)), Checksum([]byte("123456789")))
}

func TestChecksumResidue(t *testing.T) {
	t.Parallel()
	body := []byte{0x04, 0xDE, 0xAD}
	fcs := ^Checksum(body)
	full := append(append([]byte{}, body...), byte(fcs), byte(fcs>>8))
	assert.Equal(t, uint16(Residue), Checksum(full))
}

func FuzzBuildParse(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x02, 0x03})
	f.Add(bytes.Repeat([]byte{0x55}, MaxPayloadLen))
	f.Fuzz(func(t *testing.T, payload []byte) {
		syms, err := Build(payload)
		if len(payload) > MaxPayloadLen {
			if err == nil {
				t.Fatal("oversized payload accepted")
			}
			return
		}
		require.NoError(t, err)

		got, good, err := Parse(decodeBody(t, syms))
		require.NoError(t, err)
		if !good {
			t.Fatalf("checksum failed on clean round trip of %x", payload)
		}
		if !bytes.Equal(payload, got) {
			t.Fatalf("payload %x decoded as %x", payload, got)
		}
	})
}
