package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/hash"
)

func leavesOf(n int) []hash.Digest {
	out := make([]hash.Digest, n)
	for i := range out {
		out[i] = hash.HashBytes([]byte{byte(i), byte(i >> 8)})
	}
	return out
}

func TestBuildAndVerifyAllPositions(t *testing.T) {
	leaves := leavesOf(16)
	tree := Build(leaves)

	root := tree.Root()
	for p := 0; p < tree.NumLeaves(); p++ {
		path := tree.AuthPath(p)
		ok := VerifyPath(root, p, tree.NumLeaves(), tree.Leaf(p), path)
		require.True(t, ok, "position %d should verify", p)
	}
}

func TestVerifyPathRejectsFlippedSibling(t *testing.T) {
	leaves := leavesOf(8)
	tree := Build(leaves)
	root := tree.Root()

	path := tree.AuthPath(3)
	path[0] = hash.HashBytes([]byte("tampered"))

	ok := VerifyPath(root, 3, tree.NumLeaves(), tree.Leaf(3), path)
	require.False(t, ok)
}

func TestVerifyPathRejectsWrongLeaf(t *testing.T) {
	leaves := leavesOf(8)
	tree := Build(leaves)
	root := tree.Root()

	path := tree.AuthPath(2)
	ok := VerifyPath(root, 2, tree.NumLeaves(), hash.HashBytes([]byte("wrong")), path)
	require.False(t, ok)
}

func TestBuildPadsToPowerOfTwo(t *testing.T) {
	leaves := leavesOf(5)
	tree := Build(leaves)
	require.Equal(t, 8, tree.NumLeaves())

	padding := hash.Hash(hash.Zero(), hash.Zero())
	require.True(t, tree.Leaf(7).Equal(padding))
}

func TestProofMeterAmortizesRepeatedQueries(t *testing.T) {
	m := NewProofMeter(16, 32)
	require.Equal(t, 32, m.Charge(3))
	require.Equal(t, 0, m.Charge(3))
	require.Equal(t, 32, m.Charge(4))
	require.Equal(t, 64, m.Bytes())
}

func TestSingleLeafTree(t *testing.T) {
	tree := Build(leavesOf(1))
	require.Equal(t, 1, tree.NumLeaves())
	require.True(t, tree.Root().Equal(tree.Leaf(0)))
}
