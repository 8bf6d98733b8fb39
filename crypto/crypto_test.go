// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package crypto

import (
	"bytes"
	"testing"
)

func TestDeriveMasterKeyLength(t *testing.T) {
	k, err := DeriveMasterKey()
	if err != nil {
		t.Fatalf("DeriveMasterKey: %v", err)
	}
	if len(k) != KeySize {
		t.Fatalf("key length = %d, want %d", len(k), KeySize)
	}
}

func TestDeriveMasterKeyUniqueness(t *testing.T) {
	a, err := DeriveMasterKey()
	if err != nil {
		t.Fatalf("DeriveMasterKey: %v", err)
	}
	b, err := DeriveMasterKey()
	if err != nil {
		t.Fatalf("DeriveMasterKey: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two derived master keys were identical")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	ciphertext, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ciphertext) != len(plaintext) {
		t.Fatalf("ciphertext length = %d, want %d (CTR mode adds no padding)", len(ciphertext), len(plaintext))
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(key, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, KeySize)
	plaintext := []byte("hi")

	a, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("Encrypt is not deterministic for a fixed key and plaintext")
	}
}

func TestHMACSHA256Deterministic(t *testing.T) {
	key := []byte("some-key")
	msg := []byte{0x00, 0x01}
	a := HMACSHA256(key, msg)
	b := HMACSHA256(key, msg)
	if !bytes.Equal(a, b) {
		t.Fatal("HMACSHA256 is not deterministic")
	}
	if len(a) != 32 {
		t.Fatalf("tag length = %d, want 32", len(a))
	}
}

func TestHMACSHA256DifferentKeysDiffer(t *testing.T) {
	msg := []byte{0x00, 0x01}
	a := HMACSHA256([]byte("key-a"), msg)
	b := HMACSHA256([]byte("key-b"), msg)
	if bytes.Equal(a, b) {
		t.Fatal("HMACSHA256 produced identical tags for different keys")
	}
}
