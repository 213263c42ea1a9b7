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
	"encoding/binary"
	"math"
)

// Well-known measurement type tags for SendFloat.
const (
	TypeTemperature uint8 = 250
	TypeLight       uint8 = 251
)

// MaxFloatDigits is the largest decimal precision SendFloat accepts.
const MaxFloatDigits = 9

// floatPayloadLen is the fixed wire size of a float measurement:
// type, source, digits, then the scaled value as int32 little endian.
const floatPayloadLen = 7

// SendFloat transmits a floating-point measurement with the given
// decimal precision, tagged with a measurement type and a source id.
// The value is scaled to an integer (round(value * 10^digits)) and
// sent through Send; it is a payload-encoding convenience, not a
// separate frame format.
func (m *Modem) SendFloat(value float64, digits, dataType, source uint8) error {
	if digits > MaxFloatDigits {
		return ErrBadPrecision
	}
	scaled := math.Round(value * math.Pow10(int(digits)))
	if scaled > math.MaxInt32 || scaled < math.MinInt32 || math.IsNaN(scaled) {
		return ErrValueOutOfRange
	}

	var payload [floatPayloadLen]byte
	payload[0] = dataType
	payload[1] = source
	payload[2] = digits
	binary.LittleEndian.PutUint32(payload[3:], uint32(int32(scaled)))
	return m.Send(payload[:])
}

// DecodeFloat interprets a received payload as a float measurement.
// It returns ErrNotFloat for payloads that are not in the measurement
// format.
func DecodeFloat(payload []byte) (value float64, dataType, source uint8, err error) {
	if len(payload) != floatPayloadLen || payload[2] > MaxFloatDigits {
		return 0, 0, 0, ErrNotFloat
	}
	raw := int32(binary.LittleEndian.Uint32(payload[3:7]))
	value = float64(raw) / math.Pow10(int(payload[2]))
	return value, payload[0], payload[1], nil
}

// GetFloat reads the buffered message as a float measurement. It
// consumes the message like GetMessage; good reports whether the frame
// checksum verified. Messages that are not float measurements return
// ErrNotFloat (the message is still consumed).
func (m *Modem) GetFloat() (value float64, dataType, source uint8, good bool, err error) {
	var buf [MaxPayloadLen]byte
	n, good, err := m.GetMessage(buf[:])
	if err != nil {
		return 0, 0, 0, false, err
	}
	value, dataType, source, err = DecodeFloat(buf[:n])
	if err != nil {
		return 0, 0, 0, good, err
	}
	return value, dataType, source, good, nil
}
