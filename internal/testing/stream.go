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

// Package testing provides a wire-level simulator for the modem: it
// renders frames into the level-sample streams an ideal (or jittery)
// ASK receiver would see, one sample per tick, so receiver tests run
// deterministically without timers or hardware.
package testing

import (
	"math/rand/v2"
	"sync"

	"github.com/vwirelib/go-vwire/internal/frame"
)

// SymbolBits expands a symbol sequence into the bit sequence as it
// appears on the wire: each 6-bit symbol LSB first.
func SymbolBits(syms []byte) []bool {
	bits := make([]bool, 0, len(syms)*frame.BitsPerSymbol)
	for _, sym := range syms {
		for b := 0; b < frame.BitsPerSymbol; b++ {
			bits = append(bits, sym&(1<<b) != 0)
		}
	}
	return bits
}

// ExpandBits renders bits into level samples, holding each bit level
// for samplesPerBit consecutive samples.
func ExpandBits(bits []bool, samplesPerBit int) []bool {
	samples := make([]bool, 0, len(bits)*samplesPerBit)
	for _, bit := range bits {
		for s := 0; s < samplesPerBit; s++ {
			samples = append(samples, bit)
		}
	}
	return samples
}

// ExpandBitsJitter renders bits into level samples with phase jitter:
// every bit period is stretched or shrunk by up to maxJitter samples,
// moving each edge relative to a free-running receiver clock the way a
// drifting transmitter oscillator would.
func ExpandBitsJitter(bits []bool, samplesPerBit int, rng *rand.Rand, maxJitter int) []bool {
	samples := make([]bool, 0, len(bits)*(samplesPerBit+maxJitter))
	for _, bit := range bits {
		width := samplesPerBit
		if maxJitter > 0 {
			width += rng.IntN(2*maxJitter+1) - maxJitter
		}
		if width < 1 {
			width = 1
		}
		for s := 0; s < width; s++ {
			samples = append(samples, bit)
		}
	}
	return samples
}

// JitterEdges renders bits into level samples with every transition
// re-timed by up to maxShift samples around its nominal position. The
// underlying bit grid is preserved, so the phase error is bounded
// rather than cumulative; maxShift must stay below half a bit period
// or edges could cross.
func JitterEdges(bits []bool, samplesPerBit int, rng *rand.Rand, maxShift int) []bool {
	total := len(bits) * samplesPerBit
	out := make([]bool, total)

	boundaries := make([]int, len(bits)+1)
	for i := range boundaries {
		boundaries[i] = i * samplesPerBit
	}
	for i := 1; i < len(bits); i++ {
		if bits[i] != bits[i-1] && maxShift > 0 {
			boundaries[i] += rng.IntN(2*maxShift+1) - maxShift
		}
	}

	for i, bit := range bits {
		start, end := boundaries[i], boundaries[i+1]
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		for s := start; s < end; s++ {
			out[s] = bit
		}
	}
	return out
}

// NewRand returns a deterministic rand source for jitter tests.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xDEADBEEF)) //nolint:gosec // Test code, not crypto
}

// StreamLine replays a recorded level stream on the receive line, one
// sample per ReadRX call. Once the stream is exhausted ReadRX returns
// the idle level. Transmit-side writes are recorded so the same type
// also works as a sink.
type StreamLine struct {
	mu      sync.Mutex
	samples []bool
	pos     int
	idle    bool

	tx     []bool
	ptt    bool
	closed bool
}

// NewStreamLine creates a StreamLine replaying samples.
func NewStreamLine(samples []bool) *StreamLine {
	return &StreamLine{samples: samples}
}

// Append adds samples to the end of the stream.
func (l *StreamLine) Append(samples ...bool) {
	l.mu.Lock()
	l.samples = append(l.samples, samples...)
	l.mu.Unlock()
}

// Exhausted reports whether every sample has been consumed.
func (l *StreamLine) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos >= len(l.samples)
}

// ReadRX pops the next recorded sample.
func (l *StreamLine) ReadRX() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pos >= len(l.samples) {
		return l.idle, nil
	}
	level := l.samples[l.pos]
	l.pos++
	return level, nil
}

// WriteTX records the written level.
func (l *StreamLine) WriteTX(level bool) error {
	l.mu.Lock()
	l.tx = append(l.tx, level)
	l.mu.Unlock()
	return nil
}

// TXSamples returns a copy of everything written to the transmit line.
func (l *StreamLine) TXSamples() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]bool, len(l.tx))
	copy(out, l.tx)
	return out
}

// SetPTT records the push-to-talk level.
func (l *StreamLine) SetPTT(level bool) error {
	l.mu.Lock()
	l.ptt = level
	l.mu.Unlock()
	return nil
}

// PTT returns the last push-to-talk level.
func (l *StreamLine) PTT() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ptt
}

// Close implements the line interface.
func (l *StreamLine) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}
