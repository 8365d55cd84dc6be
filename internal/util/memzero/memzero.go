// Package memzero wipes secret material once it is no longer needed.
//
// Go may have copied the data elsewhere (stack growth, GC moves, big.Int
// reallocation), so this is best effort only.
package memzero

import (
	"crypto/subtle"
	"math/big"
)

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// Scalar overwrites the limbs backing d and sets it to zero.
func Scalar(d *big.Int) {
	if d == nil {
		return
	}
	words := d.Bits()
	for i := range words {
		words[i] = 0
	}
	d.SetInt64(0)
}
