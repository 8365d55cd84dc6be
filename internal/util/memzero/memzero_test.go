package memzero_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/util/memzero"
)

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	memzero.Zero(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)
	memzero.Zero(nil)
}

func TestScalar(t *testing.T) {
	d, ok := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140", 16)
	require.True(t, ok)
	words := d.Bits()

	memzero.Scalar(d)
	require.Zero(t, d.Sign())
	for _, w := range words {
		require.Zero(t, w)
	}
	memzero.Scalar(nil)
}
