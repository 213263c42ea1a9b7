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

// CRC-16/CCITT, reflected polynomial 0x8408, initial value 0xFFFF.
// The FCS appended to a frame is the ones complement of the CRC over
// length byte and payload, sent low byte first. Running the same CRC
// over body plus FCS of an intact frame always yields Residue.
const (
	crcInit = 0xFFFF
	crcPoly = 0x8408

	// Residue is the magic remainder of a checksum-clean frame.
	Residue = 0xF0B8
)

func crcUpdate(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ crcPoly
		} else {
			crc >>= 1
		}
	}
	return crc
}

// Checksum computes the CRC-16/CCITT of data.
func Checksum(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc = crcUpdate(crc, b)
	}
	return crc
}
