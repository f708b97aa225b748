package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	a := HashBytes([]byte("left"))
	b := HashBytes([]byte("right"))

	h1 := Hash(a, b)
	h2 := Hash(a, b)
	require.True(t, h1.Equal(h2))
}

func TestHashSensitiveToOrder(t *testing.T) {
	a := HashBytes([]byte("left"))
	b := HashBytes([]byte("right"))

	require.False(t, Hash(a, b).Equal(Hash(b, a)))
}

func TestBytesRoundTrip(t *testing.T) {
	d := HashBytes([]byte("round trip"))
	require.True(t, d.Equal(FromBytes(d.Bytes())))
}

func TestZeroDigest(t *testing.T) {
	require.True(t, Zero().Equal(Digest{}))
}
