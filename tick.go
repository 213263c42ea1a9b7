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

import "time"

// The tick context stands in for the fixed-period timer interrupt of a
// microcontroller build: one goroutine ticking at BitRate * 8, doing
// at most one transmit bit and one receive sample of work per tick.
// With WithExternalClock there is no goroutine and the caller supplies
// the ticks.

// Tick advances the modem by one sample period. It is only valid on a
// modem built with WithExternalClock; modems on the internal clock
// return ErrInternalClock.
func (m *Modem) Tick() error {
	if !m.cfg.ExternalClock {
		return ErrInternalClock
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.tickLocked()
	return nil
}

// ensureClockLocked starts the internal sample clock if it is needed
// and not already running. The clock goroutine parks itself once the
// receiver is stopped and no transmission is in flight.
func (m *Modem) ensureClockLocked() {
	if m.cfg.ExternalClock || m.clockOn || m.closed {
		return
	}
	m.clockOn = true
	m.wg.Add(1)
	go m.runClock()
}

func (m *Modem) runClock() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.quit:
			m.mu.Lock()
			m.clockOn = false
			m.mu.Unlock()
			return
		case <-ticker.C:
			m.mu.Lock()
			if !m.rxEnabled && !m.tx.enabled {
				m.clockOn = false
				m.mu.Unlock()
				return
			}
			m.tickLocked()
			m.mu.Unlock()
		}
	}
}

// tickLocked performs one sample period of work. The order mirrors the
// original interrupt handler: capture the receive sample, run the
// transmitter, then run the PLL. Transmit work goes ahead of receive
// work so that variable PLL processing cannot jitter the transmit bit
// timing, and the receiver is held off entirely while transmitting
// (the link is half duplex; the receiver would only hear its own
// transmitter).
func (m *Modem) tickLocked() {
	receiving := m.rxEnabled && !m.tx.enabled
	if receiving {
		level, err := m.line.ReadRX()
		if err == nil {
			m.rx.sample = level != m.cfg.RxInverted
		}
		// On a read error the previous sample is reused; the FCS
		// catches anything the symbol decoder misses.
	}

	if m.tx.enabled {
		m.txTickLocked()
	}

	if receiving {
		m.pllLocked()
	}
}
