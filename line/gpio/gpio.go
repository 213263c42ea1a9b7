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

// Package gpio provides a modem line driver over host GPIO pins using
// periph.io. This is the wiring for the classic cheap ASK modules: TX
// data to the transmitter input, RX data from the receiver output and
// an optional push-to-talk pin for the transmitter enable.
package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Config names the pins to use, in the host's periph naming ("GPIO17",
// "P1_11", ...). PTT may be empty when the transmitter has no enable
// pin.
type Config struct {
	TX  string
	RX  string
	PTT string
}

// Line drives a modem over three GPIO pins.
type Line struct {
	tx  gpio.PinIO
	rx  gpio.PinIO
	ptt gpio.PinIO // nil without a PTT pin
}

// New initializes the periph host, resolves the configured pins by
// name and parks them at their idle levels.
func New(cfg Config) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	tx := gpioreg.ByName(cfg.TX)
	if tx == nil {
		return nil, fmt.Errorf("unknown TX pin %q", cfg.TX)
	}
	rx := gpioreg.ByName(cfg.RX)
	if rx == nil {
		return nil, fmt.Errorf("unknown RX pin %q", cfg.RX)
	}
	var ptt gpio.PinIO
	if cfg.PTT != "" {
		if ptt = gpioreg.ByName(cfg.PTT); ptt == nil {
			return nil, fmt.Errorf("unknown PTT pin %q", cfg.PTT)
		}
	}
	return NewFromPins(tx, rx, ptt)
}

// NewFromPins builds a Line from already resolved pins; ptt may be
// nil. Intended for tests and for hosts with pins that are not in the
// periph registry.
func NewFromPins(tx, rx, ptt gpio.PinIO) (*Line, error) {
	if err := tx.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure TX pin %s: %w", tx, err)
	}
	if err := rx.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure RX pin %s: %w", rx, err)
	}
	if ptt != nil {
		if err := ptt.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("failed to configure PTT pin %s: %w", ptt, err)
		}
	}
	return &Line{tx: tx, rx: rx, ptt: ptt}, nil
}

// WriteTX sets the transmit data pin.
func (l *Line) WriteTX(level bool) error {
	if err := l.tx.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("TX pin write failed: %w", err)
	}
	return nil
}

// ReadRX samples the receive data pin.
func (l *Line) ReadRX() (bool, error) {
	return l.rx.Read() == gpio.High, nil
}

// SetPTT sets the push-to-talk pin; a no-op without one.
func (l *Line) SetPTT(level bool) error {
	if l.ptt == nil {
		return nil
	}
	if err := l.ptt.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("PTT pin write failed: %w", err)
	}
	return nil
}

// Close halts the pins.
func (l *Line) Close() error {
	var firstErr error
	for _, pin := range []gpio.PinIO{l.tx, l.rx, l.ptt} {
		if pin == nil {
			continue
		}
		if err := pin.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to halt pin %s: %w", pin, err)
		}
	}
	return firstErr
}
