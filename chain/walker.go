// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package chain

import "github.com/marsnebulasoup/cs4379h-group4-securesteg/pointerset"

// Walk reconstructs the ciphertext by following the chain forward
// from S[pos0] for L steps (spec §4.4). It does not validate the
// pointer relation; ChainBuilder is the only writer of valid chains,
// so Walk is a pure, unconditional replay. onByte, if non-nil, is
// called once per step and can abort the walk by returning an error.
func Walk(grid Grid, s []int, key []byte, pos0, l int, onByte ByteProgress) ([]byte, error) {
	c := make([]byte, l)
	cur := s[pos0]
	for i := 0; i < l; i++ {
		r, g, b, _ := grid.At(cur)
		c[i] = r
		p := uint16(g)<<8 | uint16(b)
		cur = s[pointerset.Next(key, p, len(s))]
		if onByte != nil {
			if err := onByte(i+1, l); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
