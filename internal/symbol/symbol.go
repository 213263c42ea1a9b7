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

// Package symbol implements the 4-to-6 bit line code used on the radio.
//
// ASK receivers have no clock of their own and rely on the data stream
// itself for DC balance and bit transitions. Every 6-bit symbol in the
// table has exactly 3 bits set, so any symbol sequence is DC balanced
// and transition rich regardless of the payload it encodes.
package symbol

// Bits is the width of one line symbol.
const Bits = 6

// Mask selects the bits of one line symbol.
const Mask = (1 << Bits) - 1

// encodeTable maps each nibble 0..15 to its 6-bit symbol.
var encodeTable = [16]byte{
	0x0D, 0x0E, 0x13, 0x15, 0x16, 0x19, 0x1A, 0x1C,
	0x23, 0x25, 0x26, 0x29, 0x2A, 0x2C, 0x32, 0x34,
}

// decodeTable is the reverse mapping. Entries for 6-bit values that are
// not valid symbols hold -1.
var decodeTable [1 << Bits]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for nibble, sym := range encodeTable {
		decodeTable[sym] = int8(nibble)
	}
}

// Encode returns the 6-bit symbol for a nibble. Only the low 4 bits of
// the argument are used, so Encode is total.
func Encode(nibble byte) byte {
	return encodeTable[nibble&0x0F]
}

// Decode returns the nibble for a 6-bit symbol. The second return value
// is false when the value is not a member of the symbol table; this is
// the cheapest bit-error detector the receiver has, tripping long before
// the frame checksum gets a chance to.
func Decode(sym byte) (byte, bool) {
	n := decodeTable[sym&Mask]
	if n < 0 {
		return 0, false
	}
	return byte(n), true
}
