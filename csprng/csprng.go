// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package csprng implements the deterministic pseudorandom stream
// that seeds PointerSet construction. The stream is a plain value
// (not package-level state, unlike math/rand's default source) so
// that two independent calls with the same master key always produce
// bit-identical output, on encode and on decode alike.
package csprng

import (
	"encoding/binary"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/crypto"
)

// Stream is a keyed HMAC-SHA256 counter-mode generator. Each draw
// consumes 8 bytes of an HMAC-SHA256 block to feed NextFloatUnit;
// nothing besides the master key and the running counter is needed
// to reproduce the sequence.
type Stream struct {
	key     []byte
	counter uint64
	buf     []byte
}

// New returns a Stream seeded from key. It is pure: no global or
// process-wide state is touched.
func New(key []byte) *Stream {
	return &Stream{key: key}
}

// fill refills the internal buffer with the next HMAC-SHA256 block
// of keystream and advances the counter.
func (s *Stream) fill() {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.counter)
	s.counter++
	s.buf = crypto.HMACSHA256(s.key, ctr[:])
}

// nextUint64 draws the next 8 bytes of keystream as a big-endian
// uint64, refilling the internal buffer whenever it runs dry.
func (s *Stream) nextUint64() uint64 {
	if len(s.buf) < 8 {
		s.fill()
	}
	v := binary.BigEndian.Uint64(s.buf[:8])
	s.buf = s.buf[8:]
	return v
}

// NextFloatUnit returns the next pseudorandom value in [0, 1), using
// the standard double-from-uint64 construction (keep the top 53 bits
// of mantissa precision, divide by 2^53) also used by math/rand's
// Float64.
func (s *Stream) NextFloatUnit() float64 {
	return float64(s.nextUint64()>>11) / (1 << 53)
}
