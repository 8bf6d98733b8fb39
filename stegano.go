// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package stegano is the pointer-chain steganography engine's public
// surface: Encode derives a master key, encrypts a plaintext message
// and embeds it into a PixelGrid by building a keyed-hash-linked
// chain across a pseudorandom candidate-pixel set; Decode reverses
// the process given the grid and a compact serialised key.
//
// The engine consumes and produces in-memory RGBA pixel grids (see
// package png); file I/O, PNG/JPEG codecs, UI and progress display
// are the caller's concern.
package stegano

import (
	"fmt"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/chain"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/crypto"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/csprng"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/key"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/pointerset"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/stegerr"
)

// Re-export the engine's error kinds (spec §7) from this package so
// callers of the public API need only import package stegano.
var (
	ErrCapacity            = stegerr.ErrCapacity
	ErrCrypto              = stegerr.ErrCrypto
	ErrKeyFormat           = stegerr.ErrKeyFormat
	ErrDecrypt             = stegerr.ErrDecrypt
	ErrExhaustedCandidates = stegerr.ErrExhaustedCandidates
	ErrCancelled           = stegerr.ErrCancelled
)

// Grid is the pixel-access surface the engine operates on; png.Grid
// satisfies it.
type Grid interface {
	Len() int
	At(i int) (r, g, b, a byte)
	Set(i int, r, g, b, a byte)
}

// ProgressFunc is an optional sink the engine calls with a fraction
// in [0,1] and the current phase name. Encode reports, in order:
// "encrypt", "select-pixels", "prepare-pointers", "encode-bytes"
// (fraction advances per byte), "write-pixels", "package-key",
// "done". Decode reports "select-pixels", "decode-bytes", "done".
type ProgressFunc func(fraction float64, phase string)

// CancelFunc is polled at yield points (§5); returning true aborts
// the call with ErrCancelled.
type CancelFunc func() bool

// Options configures an Encode or Decode call.
type Options struct {
	// AliasCount is the caller-requested t (spec §3). Zero defaults
	// to 1, which maximises |S| = min(Q, W*H).
	AliasCount uint16
	Progress   ProgressFunc
	Cancel     CancelFunc
}

// Stats is the statistics struct returned on encode completion
// (spec §6's external "statistics" collaborator, made concrete).
type Stats struct {
	TotalPixels       int
	ChainPositions    int // L
	ModifiedPositions int
	ModifiedChannels  int
	PercentModified   float64
}

func (o Options) report(frac float64, phase string) {
	if o.Progress != nil {
		o.Progress(frac, phase)
	}
}

func (o Options) checkCancel() error {
	if o.Cancel != nil && o.Cancel() {
		return stegerr.ErrCancelled
	}
	return nil
}

// Encode derives a fresh master key, encrypts plaintext, embeds it
// into img via the pointer-chain algorithm, and returns the
// serialised key together with encode statistics. img is mutated in
// place; on error the caller should discard it (spec §5).
func Encode(img Grid, plaintext []byte, opts Options) (serializedKey string, stats Stats, err error) {
	masterKey, err := crypto.DeriveMasterKey()
	if err != nil {
		return "", Stats{}, err
	}
	return EncodeWithKey(img, plaintext, masterKey, opts)
}

// EncodeWithKey is Encode with an explicit, caller-supplied master
// key. It exists so tests (and any caller that wants a reproducible
// run) can fix K; production callers should use Encode, since K must
// never be reused across messages.
func EncodeWithKey(img Grid, plaintext []byte, masterKey []byte, opts Options) (serializedKey string, stats Stats, err error) {
	if err := opts.checkCancel(); err != nil {
		return "", Stats{}, err
	}

	ciphertext, err := crypto.Encrypt(masterKey, plaintext)
	if err != nil {
		return "", Stats{}, err
	}
	opts.report(1, "encrypt")

	wh := img.Len()
	l := len(ciphertext)
	if l > wh {
		return "", Stats{}, fmt.Errorf("%w: ciphertext length %d exceeds %d pixels", stegerr.ErrCapacity, l, wh)
	}

	t := int(opts.AliasCount)
	if t == 0 {
		t = 1
	}
	// Phase 0: alias renegotiation (spec §4.3). If the caller's t
	// would make |S| < L, shrink t until |S| >= L.
	if pointerset.Size(t, wh) < l {
		t = pointerset.Q / l
		if t < 1 {
			t = 1
		}
	}
	if pointerset.Size(t, wh) < l {
		return "", Stats{}, fmt.Errorf("%w: no alias count yields a candidate set large enough for %d bytes", stegerr.ErrCapacity, l)
	}

	if err := opts.checkCancel(); err != nil {
		return "", Stats{}, err
	}

	stream := csprng.New(masterKey)
	s, err := pointerset.Build(stream, wh, t)
	if err != nil {
		return "", Stats{}, err
	}
	opts.report(1, "select-pixels")

	if err := opts.checkCancel(); err != nil {
		return "", Stats{}, err
	}

	buckets := pointerset.BuildBuckets(masterKey, len(s))
	opts.report(1, "prepare-pointers")

	onByte := func(done, total int) error {
		opts.report(float64(done)/float64(total), "encode-bytes")
		return opts.checkCancel()
	}

	result, err := chain.Build(img, s, buckets, masterKey, ciphertext, onByte)
	if err != nil {
		return "", Stats{}, err
	}
	opts.report(1, "write-pixels")

	serializedKey = key.Serialize(masterKey, uint16(t), uint16(l), result.Pos0, wh)
	opts.report(1, "package-key")

	stats = Stats{
		TotalPixels:       wh,
		ChainPositions:    l,
		ModifiedPositions: result.ModifiedPositions,
		ModifiedChannels:  result.ModifiedChannels,
		PercentModified:   100 * float64(result.ModifiedPositions) / float64(wh),
	}
	opts.report(1, "done")

	return serializedKey, stats, nil
}

// Decode parses serializedKey, reconstructs the candidate set,
// follows the chain forward, and decrypts the recovered ciphertext.
// It needs neither the original cover image nor the plaintext.
func Decode(img Grid, serializedKey string, opts Options) ([]byte, error) {
	if err := opts.checkCancel(); err != nil {
		return nil, err
	}

	masterKey, t, l, pos0, err := key.Parse(serializedKey)
	if err != nil {
		return nil, err
	}
	if t == 0 {
		return nil, fmt.Errorf("%w: alias count t must be in [1, %d]", stegerr.ErrKeyFormat, pointerset.Q)
	}

	wh := img.Len()
	size := pointerset.Size(int(t), wh)
	if pos0 < 0 || pos0 >= size {
		return nil, fmt.Errorf("%w: pos0 %d out of range for candidate set of size %d", stegerr.ErrKeyFormat, pos0, size)
	}
	if int(l) > size {
		return nil, fmt.Errorf("%w: L %d exceeds candidate set size %d", stegerr.ErrKeyFormat, l, size)
	}

	stream := csprng.New(masterKey)
	s, err := pointerset.Build(stream, wh, int(t))
	if err != nil {
		return nil, err
	}
	opts.report(1, "select-pixels")

	onByte := func(done, total int) error {
		opts.report(float64(done)/float64(total), "decode-bytes")
		return opts.checkCancel()
	}

	ciphertext, err := chain.Walk(img, s, masterKey, pos0, int(l), onByte)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(masterKey, ciphertext)
	if err != nil {
		return nil, err
	}
	opts.report(1, "done")

	return plaintext, nil
}
