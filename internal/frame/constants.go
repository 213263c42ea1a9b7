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

// Wire format constants.
//
// A frame is transmitted as a sequence of 6-bit symbols: 6 preamble
// symbols (36 alternating bits) and 2 start symbols (12 bits), then the
// length byte, payload and 2-byte FCS, each byte as two symbols, high
// nibble first. Bits within a symbol go out LSB first.
const (
	// MaxMessageLen bounds the decoded frame body: length byte,
	// payload and FCS together.
	MaxMessageLen = 80

	// FCSLen is the size of the frame check sequence.
	FCSLen = 2

	// MaxPayloadLen is the largest payload that fits in a frame.
	MaxPayloadLen = MaxMessageLen - FCSLen - 1

	// HeaderSymbols is the number of preamble plus start symbols.
	HeaderSymbols = 8

	// SymbolsPerByte: two 6-bit symbols carry one byte.
	SymbolsPerByte = 2

	// BitsPerSymbol is the width of one line symbol.
	BitsPerSymbol = 6

	// MaxFrameSymbols is the worst-case symbol count of one frame.
	MaxFrameSymbols = HeaderSymbols + SymbolsPerByte*MaxMessageLen

	// StartPattern is the 12-bit start-of-frame pattern as it appears
	// in the receiver's LSB-first shift window once the two start
	// symbols have arrived in full.
	StartPattern = 0xB38

	// StartPatternBits is the width of the receiver's hunt window.
	StartPatternBits = 12
)

// headerSymbols is the fixed frame header: a run of 0x2A symbols gives
// the receiver PLL 36 alternating training bits, then the start pair.
var headerSymbols = [HeaderSymbols]byte{
	0x2A, 0x2A, 0x2A, 0x2A, 0x2A, 0x2A, 0x38, 0x2C,
}
