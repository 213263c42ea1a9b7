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

package serial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	rts    bool
	dtr    bool
	cts    bool
	fail   error
	closed bool
}

func (f *fakePort) SetRTS(rts bool) error {
	if f.fail != nil {
		return f.fail
	}
	f.rts = rts
	return nil
}

func (f *fakePort) SetDTR(dtr bool) error {
	if f.fail != nil {
		return f.fail
	}
	f.dtr = dtr
	return nil
}

func (f *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &serial.ModemStatusBits{CTS: f.cts}, nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestLineParksControlsOnOpen(t *testing.T) {
	t.Parallel()
	port := &fakePort{rts: true, dtr: true}
	line, err := newLine(port)
	require.NoError(t, err)
	assert.False(t, port.rts)
	assert.False(t, port.dtr)
	require.NoError(t, line.Close())
	assert.True(t, port.closed)
}

func TestLineMapsSignals(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	line, err := newLine(port)
	require.NoError(t, err)

	require.NoError(t, line.WriteTX(true))
	assert.True(t, port.rts, "TX data rides on RTS")

	require.NoError(t, line.SetPTT(true))
	assert.True(t, port.dtr, "PTT rides on DTR")

	port.cts = true
	level, err := line.ReadRX()
	require.NoError(t, err)
	assert.True(t, level, "RX data comes from CTS")
}

func TestLineSurfacesPortErrors(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	line, err := newLine(port)
	require.NoError(t, err)

	boom := errors.New("boom")
	port.fail = boom
	assert.ErrorIs(t, line.WriteTX(true), boom)
	assert.ErrorIs(t, line.SetPTT(true), boom)
	_, err = line.ReadRX()
	assert.ErrorIs(t, err, boom)
}

func TestOpenFailureClosesNothing(t *testing.T) {
	t.Parallel()
	port := &fakePort{fail: errors.New("io error")}
	_, err := newLine(port)
	require.Error(t, err)
	assert.True(t, port.closed, "half-initialized port must be closed")
}
