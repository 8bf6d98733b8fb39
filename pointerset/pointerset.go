// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package pointerset derives the keyed pseudorandom candidate-pixel
// index set S and implements the pointer-resolution relation
// next(K, p) that links one chain node to the next.
package pointerset

import (
	"encoding/binary"
	"fmt"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/crypto"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/csprng"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/stegerr"
)

// Q is the size of the pointer value space: a pointer occupies 16
// bits, split across the G and B channels.
const Q = 65536

// ErrCapacity is an alias of stegerr.ErrCapacity.
var ErrCapacity = stegerr.ErrCapacity

// Size returns |S| for an alias count t and image pixel count wh:
// min(floor(Q/t), wh).
func Size(t, wh int) int {
	s := Q / t
	if s > wh {
		s = wh
	}
	return s
}

// Build derives the candidate set S deterministically from stream.
// S is ordered by insertion, which is the only order that matters:
// two independent calls with streams seeded from the same master key
// and the same wh/t always produce the same S, element-wise.
func Build(stream *csprng.Stream, wh, t int) ([]int, error) {
	size := Size(t, wh)
	if size <= 0 || wh <= 0 {
		return nil, fmt.Errorf("%w: empty candidate space (wh=%d t=%d)", ErrCapacity, wh, t)
	}

	s := make([]int, 0, size)
	seen := make(map[int]struct{}, size)
	for len(s) < size {
		i := int(stream.NextFloatUnit() * float64(wh))
		if i >= wh {
			i = wh - 1
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		s = append(s, i)
	}
	return s, nil
}

// Next resolves a pointer value p to a position in S, given the
// cardinality of S. This is the only permitted link from one chain
// node to the next:
//
//	next(K, p) = (HMAC_SHA256(K, be16(p))[0:2] as u16_be) mod |S|
func Next(key []byte, p uint16, setSize int) int {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], p)
	tag := crypto.HMACSHA256(key, buf[:])
	v := binary.BigEndian.Uint16(tag[:2])
	return int(v) % setSize
}

// BuildBuckets precomputes, for every pointer value p in [0, Q), the
// position in S that next(K, p) resolves to, and inverts that map
// into per-position buckets of valid pointers. This turns ChainBuilder's
// per-byte "which pointers resolve to this target position" query
// from an O(Q) scan into an O(1) slice lookup, at a one-time O(Q) cost
// per encode.
func BuildBuckets(key []byte, setSize int) [][]uint16 {
	buckets := make([][]uint16, setSize)
	for p := 0; p < Q; p++ {
		pos := Next(key, uint16(p), setSize)
		buckets[pos] = append(buckets[pos], uint16(p))
	}
	return buckets
}
