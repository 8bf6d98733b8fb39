// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package chain implements the two halves of the pointer-chain
// embedding engine: ChainBuilder, which walks the ciphertext backward
// and mutates a PixelGrid to minimise per-pixel distortion, and
// ChainWalker, which follows the resulting chain forward to recover
// the ciphertext.
package chain

import (
	"fmt"
	"sort"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/pointerset"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/stegerr"
)

// Grid is the minimal pixel-access surface ChainBuilder and
// ChainWalker need; png.Grid satisfies it.
type Grid interface {
	Len() int
	At(i int) (r, g, b, a byte)
	Set(i int, r, g, b, a byte)
}

// Result carries what ChainBuilder produced beyond the mutated grid:
// the chain's first position (needed for the serialised key) and the
// counts behind the encode-completion statistics (spec §6).
type Result struct {
	Pos0              int
	ModifiedPositions int
	ModifiedChannels  int
}

// ByteProgress is called once per ciphertext byte processed during
// the backward chain extension, most recent byte first (i.e. in the
// same L-1..0 order the algorithm runs in), so a caller driving a
// progress sink can report "encode-bytes" fraction as done/total. A
// non-nil return aborts the build (cooperative cancellation).
type ByteProgress func(done, total int) error

// Build performs phases 2-4 of the encoder (spec §4.3): it seeds the
// last chain node, extends the chain backward to the first byte, and
// mutates grid in place. S and buckets must already reflect the
// effective alias count (phase 0/1 is the caller's responsibility,
// since it may require rebuilding S).
func Build(grid Grid, s []int, buckets [][]uint16, key []byte, ciphertext []byte, onByte ByteProgress) (Result, error) {
	l := len(ciphertext)
	if l == 0 || l > len(s) {
		return Result{}, fmt.Errorf("%w: ciphertext length %d exceeds candidate set size %d", stegerr.ErrCapacity, l, len(s))
	}

	used := make([]bool, len(s))
	pos := make([]int, l) // pos[i] = position in S chosen for ciphertext byte i

	// Phase 2: seed the last chain node with the closest R match,
	// irrespective of its pointer (the last node's G,B are never
	// dereferenced by the walker, so they are left untouched).
	target := ciphertext[l-1]
	bestPos, bestDist := -1, -1
	for i, idx := range s {
		r, _, _, _ := grid.At(idx)
		d := absDiff(r, target)
		if bestPos == -1 || d < bestDist {
			bestPos, bestDist = i, d
		}
	}
	if bestPos == -1 {
		return Result{}, fmt.Errorf("%w: no candidates available for last byte", stegerr.ErrExhaustedCandidates)
	}
	origR, origG, origB, origA := grid.At(s[bestPos])
	grid.Set(s[bestPos], target, origG, origB, origA)
	used[bestPos] = true
	pos[l-1] = bestPos

	modifiedPositions := 0
	modifiedChannels := 0
	if origR != target {
		modifiedPositions++
		modifiedChannels++
	}

	if onByte != nil {
		if err := onByte(1, l); err != nil {
			return Result{}, err
		}
	}

	// Phase 3: backward chain extension.
	for i := l - 2; i >= 0; i-- {
		target := ciphertext[i]
		nextPos := pos[i+1]
		validPointers := buckets[nextPos]

		order := candidateOrder(grid, s, used, target)

		chosenPos := -1
		var chosenP uint16
		chosenDist := -1.0

		for _, cand := range order {
			idx := s[cand]
			r, g, b, a := grid.At(idx)
			pOrig := uint16(g)<<8 | uint16(b)

			if r == target && containsPointer(validPointers, pOrig) {
				chosenPos, chosenP, chosenDist = cand, pOrig, 0
				break
			}

			for _, p := range validPointers {
				ng := byte(p >> 8)
				nb := byte(p)
				d := distortion(r, g, b, a, target, ng, nb, a)
				if chosenPos == -1 || d < chosenDist {
					chosenPos, chosenP, chosenDist = cand, p, d
				}
			}
		}

		if chosenPos == -1 {
			return Result{}, fmt.Errorf("%w: no unused candidate satisfies the pointer relation at byte %d", stegerr.ErrExhaustedCandidates, i)
		}

		idx := s[chosenPos]
		origR, origG, origB, origA := grid.At(idx)
		newG := byte(chosenP >> 8)
		newB := byte(chosenP)
		grid.Set(idx, target, newG, newB, origA)
		used[chosenPos] = true
		pos[i] = chosenPos

		changed := 0
		if origR != target {
			changed++
		}
		if origG != newG {
			changed++
		}
		if origB != newB {
			changed++
		}
		if changed > 0 {
			modifiedPositions++
			modifiedChannels += changed
		}

		if onByte != nil {
			if err := onByte(l-i, l); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{
		Pos0:              pos[0],
		ModifiedPositions: modifiedPositions,
		ModifiedChannels:  modifiedChannels,
	}, nil
}

// candidateOrder returns the unused positions of S in the iteration
// order spec §4.3 mandates: exact R-matches first (in S order), then
// the remaining unused positions sorted by ascending |R - target|,
// ties broken by earlier position in S.
func candidateOrder(grid Grid, s []int, used []bool, target byte) []int {
	exact := make([]int, 0)
	rest := make([]int, 0)
	for i, idx := range s {
		if used[i] {
			continue
		}
		r, _, _, _ := grid.At(idx)
		if r == target {
			exact = append(exact, i)
		} else {
			rest = append(rest, i)
		}
	}
	sort.SliceStable(rest, func(a, b int) bool {
		ra, _, _, _ := grid.At(s[rest[a]])
		rb, _, _, _ := grid.At(s[rest[b]])
		return absDiff(ra, target) < absDiff(rb, target)
	})
	return append(exact, rest...)
}

func containsPointer(pointers []uint16, p uint16) bool {
	for _, v := range pointers {
		if v == p {
			return true
		}
	}
	return false
}

func absDiff(a, b byte) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// PrecomputeBuckets is a thin re-export so callers driving the
// progress sink through "prepare-pointers" don't need to import
// pointerset directly for this one call.
func PrecomputeBuckets(key []byte, setSize int) [][]uint16 {
	return pointerset.BuildBuckets(key, setSize)
}
