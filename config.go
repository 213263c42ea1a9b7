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
	"fmt"
	"time"
)

const (
	// DefaultBitRate is the default link speed in bits per second.
	// 2000 bps is the sweet spot for cheap 433 MHz ASK modules.
	DefaultBitRate = 2000

	// DefaultPollInterval is the default re-check period of the
	// blocking wait calls.
	DefaultPollInterval = 500 * time.Microsecond
)

// Config holds the modem configuration. It is immutable once the modem
// has been created: both the tick context and foreground callers read
// it without synchronization.
type Config struct {
	// BitRate is the link speed in bits per second. The sample clock
	// runs at BitRate times the oversampling factor.
	BitRate int

	// RxInverted inverts the sense of the receive line. Needed when
	// the transport medium inverts the signal, as some A/V senders do.
	RxInverted bool

	// PTTInverted drives the push-to-talk line low-active instead of
	// high-active.
	PTTInverted bool

	// ExternalClock disables the internal sample clock. The caller
	// advances the modem one sample period at a time via Tick. Used
	// for simulation and testing.
	ExternalClock bool

	// PollInterval is the re-check period of WaitMessage, WaitTx and
	// friends.
	PollInterval time.Duration
}

// Option configures a Modem at construction time.
type Option func(*Config) error

// WithBitRate sets the link speed in bits per second.
func WithBitRate(bps int) Option {
	return func(c *Config) error {
		if bps <= 0 {
			return fmt.Errorf("invalid bit rate %d", bps)
		}
		c.BitRate = bps
		return nil
	}
}

// WithRxInverted inverts the sense of the receive line.
func WithRxInverted(inverted bool) Option {
	return func(c *Config) error {
		c.RxInverted = inverted
		return nil
	}
}

// WithPTTInverted makes the push-to-talk line low-active.
func WithPTTInverted(inverted bool) Option {
	return func(c *Config) error {
		c.PTTInverted = inverted
		return nil
	}
}

// WithExternalClock disables the internal sample clock; the caller
// drives the modem via Tick.
func WithExternalClock() Option {
	return func(c *Config) error {
		c.ExternalClock = true
		return nil
	}
}

// WithPollInterval sets the re-check period of the blocking waits.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("invalid poll interval %v", d)
		}
		c.PollInterval = d
		return nil
	}
}

func defaultConfig() Config {
	return Config{
		BitRate:      DefaultBitRate,
		PollInterval: DefaultPollInterval,
	}
}
