// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Package key implements the compact serialised-key format: a single
// lowercase ASCII-hex string carrying the master key, the alias
// count, the ciphertext length and the chain's first position, with
// no separators and no prefix.
package key

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg/crypto"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/stegerr"
)

// ErrKeyFormat is an alias of stegerr.ErrKeyFormat, kept local so
// package key's own doc comments and error messages can be specific
// while errors.Is(err, stegerr.ErrKeyFormat) still succeeds.
var ErrKeyFormat = stegerr.ErrKeyFormat

const (
	keyHexLen = crypto.KeySize * 2 // 64
	tHexLen   = 4
	lHexLen   = 4
	fixedLen  = keyHexLen + tHexLen + lHexLen
)

// Digits returns the number of hex characters needed to represent
// pos0 values up to wh-1: ceil(log16(wh)), minimum 1.
func Digits(wh int) int {
	if wh <= 1 {
		return 1
	}
	return len(fmt.Sprintf("%x", wh-1))
}

// Serialize packs (K, t, L, pos0) into the fixed-order hex string
// described in spec §3. wh (the image's pixel count) determines how
// many hex digits are used for pos0, since the parser has no
// out-of-band way to know where that field ends.
func Serialize(masterKey []byte, t, l uint16, pos0, wh int) string {
	var b strings.Builder
	b.WriteString(hex.EncodeToString(masterKey))
	fmt.Fprintf(&b, "%04x", t)
	fmt.Fprintf(&b, "%04x", l)
	fmt.Fprintf(&b, "%0*x", Digits(wh), pos0)
	return b.String()
}

// Parse reverses Serialize. It trims surrounding whitespace and
// validates that every field is well-formed hex and that pos0 is
// representable; it does not know |S| and therefore cannot validate
// pos0 < |S| itself (the caller does, once S has been rebuilt).
func Parse(s string) (masterKey []byte, t, l uint16, pos0 int, err error) {
	s = strings.TrimSpace(s)
	if len(s) <= fixedLen {
		return nil, 0, 0, 0, fmt.Errorf("%w: too short (%d chars)", ErrKeyFormat, len(s))
	}

	masterKey, err = hex.DecodeString(s[:keyHexLen])
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: key field: %v", ErrKeyFormat, err)
	}

	tVal, err := strconv.ParseUint(s[keyHexLen:keyHexLen+tHexLen], 16, 16)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: t field: %v", ErrKeyFormat, err)
	}

	lStart := keyHexLen + tHexLen
	lVal, err := strconv.ParseUint(s[lStart:lStart+lHexLen], 16, 16)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: L field: %v", ErrKeyFormat, err)
	}

	posStart := lStart + lHexLen
	posField := s[posStart:]
	posVal, err := strconv.ParseUint(posField, 16, 64)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: pos0 field: %v", ErrKeyFormat, err)
	}

	return masterKey, uint16(tVal), uint16(lVal), int(posVal), nil
}
