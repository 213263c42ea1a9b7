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

// Package frame builds and parses the on-wire message frame: preamble,
// start pattern, length byte, payload and a 16-bit FCS, all carried as
// DC-balanced 6-bit symbols.
package frame

import (
	"errors"

	"github.com/vwirelib/go-vwire/internal/symbol"
)

var (
	// ErrPayloadTooLong is returned by Build when the payload would
	// not fit in a single frame.
	ErrPayloadTooLong = errors.New("payload too long for one frame")

	// ErrBadLength is returned by Parse when the frame body does not
	// match its own length byte or is too short to hold an FCS.
	ErrBadLength = errors.New("frame length field does not match body")
)

// Build encodes payload into the complete transmit symbol sequence:
// header symbols, then length byte, payload and FCS as symbol pairs.
// The length byte counts payload plus FCS. Each byte becomes two
// symbols, high nibble first; the FCS is the ones complement of the
// CRC over length byte and payload, appended low byte first.
func Build(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLong
	}

	count := byte(len(payload) + FCSLen)
	syms := make([]byte, 0, HeaderSymbols+SymbolsPerByte*(1+len(payload)+FCSLen))
	syms = append(syms, headerSymbols[:]...)

	appendByte := func(b byte) {
		syms = append(syms, symbol.Encode(b>>4), symbol.Encode(b&0x0F))
	}

	crc := crcUpdate(crcInit, count)
	appendByte(count)
	for _, b := range payload {
		crc = crcUpdate(crc, b)
		appendByte(b)
	}
	fcs := ^crc
	appendByte(byte(fcs))
	appendByte(byte(fcs >> 8))

	return syms, nil
}

// Parse validates a fully assembled frame body (length byte, payload,
// FCS) and extracts the payload.
//
// A checksum mismatch is not an error: the payload is still returned
// with good set to false, so callers can inspect corrupted data if
// they want to. The returned slice aliases body.
func Parse(body []byte) (payload []byte, good bool, err error) {
	if len(body) < 1+FCSLen || len(body) > MaxMessageLen {
		return nil, false, ErrBadLength
	}
	if int(body[0]) != len(body)-1 {
		return nil, false, ErrBadLength
	}
	good = Checksum(body) == Residue
	return body[1 : len(body)-FCSLen], good, nil
}
