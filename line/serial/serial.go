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

// Package serial provides a modem line driver that bit-bangs the
// modem-control lines of an ordinary serial port: TX data on RTS,
// push-to-talk on DTR and RX data from CTS. No UART framing is
// involved; the port is only a source of three slow GPIO-ish wires,
// which is enough for machines without accessible GPIO headers.
package serial

import (
	"fmt"

	"go.bug.st/serial"
)

// controlPort is the slice of serial.Port this driver needs; tests
// inject a fake.
type controlPort interface {
	SetRTS(rts bool) error
	SetDTR(dtr bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
	Close() error
}

// Line drives a modem over a serial port's control lines.
type Line struct {
	port controlPort
}

// Open opens the named serial port and parks the control lines. The
// baud rate is irrelevant; set anyway because some drivers refuse a
// port without a mode.
func Open(portName string) (*Line, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: 9600,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return newLine(port)
}

func newLine(port controlPort) (*Line, error) {
	l := &Line{port: port}
	if err := l.WriteTX(false); err != nil {
		_ = port.Close()
		return nil, err
	}
	if err := l.SetPTT(false); err != nil {
		_ = port.Close()
		return nil, err
	}
	return l, nil
}

// WriteTX sets the RTS line.
func (l *Line) WriteTX(level bool) error {
	if err := l.port.SetRTS(level); err != nil {
		return fmt.Errorf("RTS write failed: %w", err)
	}
	return nil
}

// ReadRX samples the CTS line.
func (l *Line) ReadRX() (bool, error) {
	bits, err := l.port.GetModemStatusBits()
	if err != nil {
		return false, fmt.Errorf("modem status read failed: %w", err)
	}
	return bits.CTS, nil
}

// SetPTT sets the DTR line.
func (l *Line) SetPTT(level bool) error {
	if err := l.port.SetDTR(level); err != nil {
		return fmt.Errorf("DTR write failed: %w", err)
	}
	return nil
}

// Close closes the underlying port.
func (l *Line) Close() error {
	if err := l.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}
