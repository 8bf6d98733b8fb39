// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

package chain

import "math"

// distortion computes the Euclidean distance in RGBA space between an
// original pixel and a hypothetical modification. The alpha channel
// never changes, so it always contributes 0; it is kept in the
// signature so the formula visibly matches spec §4.5 rather than
// silently dropping a channel.
func distortion(origR, origG, origB, origA, newR, newG, newB, newA byte) float64 {
	dr := float64(int(newR) - int(origR))
	dg := float64(int(newG) - int(origG))
	db := float64(int(newB) - int(origB))
	da := float64(int(newA) - int(origA))
	return math.Sqrt(dr*dr + dg*dg + db*db + da*da)
}
