package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/field"
)

func TestChallengeDeterministicGivenSameBindings(t *testing.T) {
	t1 := New()
	require.NoError(t, t1.BindElement(field.FromReal(42)))
	c1, err := t1.Challenge()
	require.NoError(t, err)

	t2 := New()
	require.NoError(t, t2.BindElement(field.FromReal(42)))
	c2, err := t2.Challenge()
	require.NoError(t, err)

	require.True(t, c1.Equal(c2))
}

func TestChallengeSensitiveToBoundData(t *testing.T) {
	t1 := New()
	require.NoError(t, t1.BindElement(field.FromReal(1)))
	c1, err := t1.Challenge()
	require.NoError(t, err)

	t2 := New()
	require.NoError(t, t2.BindElement(field.FromReal(2)))
	c2, err := t2.Challenge()
	require.NoError(t, err)

	require.False(t, c1.Equal(c2))
}

func TestBytesToElementUsesFullDigest(t *testing.T) {
	raw := make([]byte, 32)
	base := bytesToElement(raw)

	for _, i := range []int{0, 7, 8, 15, 16, 23, 24, 31} {
		tampered := make([]byte, 32)
		copy(tampered, raw)
		tampered[i] = 1
		require.False(t, base.Equal(bytesToElement(tampered)), "byte %d did not influence the element", i)
	}
}

func TestChallengesAreIndependent(t *testing.T) {
	tr := New()
	require.NoError(t, tr.BindElement(field.FromReal(7)))
	cs, err := tr.Challenges(4)
	require.NoError(t, err)
	require.Len(t, cs, 4)

	seen := map[field.Element]bool{}
	for _, c := range cs {
		require.False(t, seen[c], "challenge repeated: %v", c)
		seen[c] = true
	}
}
