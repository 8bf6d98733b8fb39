// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package crypto provides the cryptographic envelope around the
// pointer-chain engine: master key derivation, AES-256-CTR
// encryption/decryption with key-derived state, and the keyed
// HMAC-SHA256 primitive used for pointer resolution.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/stegerr"
)

// KeySize is the length in bytes of the master key K (256 bits).
const KeySize = 32

// pbkdf2Iterations is fixed per spec: 10^6 rounds of HMAC-SHA256.
const pbkdf2Iterations = 1000000

// ErrCrypto is an alias of stegerr.ErrCrypto.
var ErrCrypto = stegerr.ErrCrypto

// nonceInfo is the fixed, key-derived label used to produce the
// AES-256-CTR nonce. No nonce is ever persisted; both encode and
// decode derive it afresh from K.
const nonceInfo = "stego-nonce-v1"

// DeriveMasterKey draws a fresh 256-bit random password and a fresh
// 256-bit random salt from a cryptographically secure source, and
// derives a 256-bit master key K via PBKDF2-HMAC-SHA256 with 10^6
// iterations. It is used only on encode; decode reconstructs K from
// a serialised key instead.
func DeriveMasterKey() ([]byte, error) {
	password := make([]byte, KeySize)
	if _, err := crand.Read(password); err != nil {
		return nil, fmt.Errorf("%w: generate password: %v", ErrCrypto, err)
	}
	salt := make([]byte, KeySize)
	if _, err := crand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: generate salt: %v", ErrCrypto, err)
	}
	return pbkdf2.Key(password, salt, pbkdf2Iterations, KeySize, sha256.New), nil
}

// nonce derives the 16-byte AES-256-CTR nonce from K alone, so that
// encode and decode always agree on cipher state without persisting
// an IV.
func nonce(key []byte) []byte {
	tag := HMACSHA256(key, []byte(nonceInfo))
	return tag[:aes.BlockSize]
}

// Encrypt encrypts plaintext with AES-256-CTR under key, using a
// nonce derived deterministically from key (see nonce). CTR mode
// needs no padding, so Encrypt never fails on length grounds; it can
// only fail if key is the wrong size.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	out := make([]byte, len(plaintext))
	stream := cipher.NewCTR(block, nonce(key))
	stream.XORKeyStream(out, plaintext)
	return out, nil
}

// Decrypt reverses Encrypt. Because AES-256-CTR is unauthenticated
// and unpadded, Decrypt only fails on a malformed key; a caller that
// presents the wrong key or a tampered ciphertext receives garbage
// plaintext rather than an error; no check of the recovered bytes is
// made here or in the engine package's Decode.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	out := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(block, nonce(key))
	stream.XORKeyStream(out, ciphertext)
	return out, nil
}

// HMACSHA256 computes the keyed HMAC-SHA256 tag of msg under key. It
// underlies both the pointer-resolution relation (spec §3) and the
// CSPRNG keystream (package csprng).
func HMACSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
