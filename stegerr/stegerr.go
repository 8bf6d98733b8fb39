// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package stegerr defines the error kinds surfaced by the engine
// (spec §7). Every error the engine returns wraps one of these
// sentinels, so callers can branch on kind with errors.Is regardless
// of which component produced it.
package stegerr

import "errors"

var (
	// ErrCapacity means L > W*H: the message is too long for the image.
	ErrCapacity = errors.New("message too long for image")

	// ErrCrypto means an AES or HMAC operation failed.
	ErrCrypto = errors.New("cryptographic operation failed")

	// ErrKeyFormat means the serialised key is too short, non-hex, or
	// numerically inconsistent (e.g. pos0 >= |S|).
	ErrKeyFormat = errors.New("malformed serialised key")

	// ErrDecrypt means decryption yielded invalid plaintext.
	ErrDecrypt = errors.New("decryption failed")

	// ErrExhaustedCandidates means the backward chain extension ran
	// out of unused candidates, which should be impossible whenever
	// |S| >= L; it indicates a bug, not a bad input.
	ErrExhaustedCandidates = errors.New("exhausted candidate pixels")

	// ErrCancelled means the caller's cancellation flag was observed
	// at a yield point.
	ErrCancelled = errors.New("operation cancelled")
)
