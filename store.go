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

import "github.com/vwirelib/go-vwire/internal/frame"

// messageStore is the single point of coordinated mutation between the
// tick context (producer) and foreground callers (consumer): one
// completed-message slot plus the good/bad counters. All access runs
// under the modem mutex; the store itself carries no locking.
//
// At most one unread message is buffered. A newly completed frame
// overwrites an unread one; the link has no flow control, so there is
// nothing to push back against.
type messageStore struct {
	buf    [frame.MaxPayloadLen]byte
	length int
	good   bool
	unread bool

	goodCount uint8
	badCount  uint8
}

// publish stores a completed message, overwriting any unread one.
func (s *messageStore) publish(payload []byte, good bool) {
	s.length = copy(s.buf[:], payload)
	s.good = good
	s.unread = true
}

// take copies the unread message into buf (truncating if buf is
// shorter) and clears the slot. ok is false when nothing is buffered.
func (s *messageStore) take(buf []byte) (n int, good, ok bool) {
	if !s.unread {
		return 0, false, false
	}
	n = copy(buf, s.buf[:s.length])
	s.unread = false
	return n, s.good, true
}

// Counters saturate at 255 instead of wrapping; a pegged counter still
// reads as "many".

func (s *messageStore) countGood() {
	if s.goodCount < 0xFF {
		s.goodCount++
	}
}

func (s *messageStore) countBad() {
	if s.badCount < 0xFF {
		s.badCount++
	}
}
