// Package merkle implements the power-of-two, flat-array Merkle tree used to
// authenticate Reed-Solomon codewords in the polynomial commitment and FRI
// protocols. The layout matches the classic binary-heap array: node i's
// children live at 2i and 2i+1, the root is at index 1, and leaves occupy
// the index range [N, 2N).
package merkle

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/MuriData/gkr-fri/hash"
)

// Tree is a complete binary tree over N = 2^k leaves, stored as a flat
// 2N-element array of digests.
type Tree struct {
	nodes []hash.Digest // length 2N; nodes[0] is unused
	n     int           // number of leaves (power of two)
}

// paddingLeaf is the digest used to fill leaf slots beyond the caller's
// input: the hash of two zero digests, per the data-model invariant.
var paddingLeaf = hash.Hash(hash.Zero(), hash.Zero())

// Build constructs a tree over leaves, padding up to the next power of two
// with paddingLeaf. Leaves may be assigned in any order since every leaf
// slot is written exactly once (the classic reverse-iteration bug in the
// original Rust build loop never arises here).
func Build(leaves []hash.Digest) *Tree {
	n := nextPowerOfTwo(len(leaves))
	if n == 0 {
		n = 1
	}

	nodes := make([]hash.Digest, 2*n)
	for i := 0; i < n; i++ {
		if i < len(leaves) {
			nodes[n+i] = leaves[i]
		} else {
			nodes[n+i] = paddingLeaf
		}
	}

	for i := n - 1; i >= 1; i-- {
		nodes[i] = hash.Hash(nodes[2*i], nodes[2*i+1])
	}

	return &Tree{nodes: nodes, n: n}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Root returns the tree's root digest.
func (t *Tree) Root() hash.Digest {
	if len(t.nodes) < 2 {
		return hash.Digest{}
	}
	return t.nodes[1]
}

// NumLeaves returns N, the (power-of-two) leaf count.
func (t *Tree) NumLeaves() int {
	return t.n
}

// Leaf returns the leaf digest at position p.
func (t *Tree) Leaf(p int) hash.Digest {
	return t.nodes[t.n+p]
}

// AuthPath returns the sibling chain for leaf p, from the leaf's immediate
// sibling up to (but not including) the root.
func (t *Tree) AuthPath(p int) []hash.Digest {
	depth := log2(t.n)
	path := make([]hash.Digest, depth)

	idx := t.n + p
	for i := 0; i < depth; i++ {
		path[i] = t.nodes[idx^1]
		idx >>= 1
	}
	return path
}

func log2(n int) int {
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}

// VerifyPath recomputes the root from a claimed leaf digest and its sibling
// chain, and reports whether it matches root. The low bit of the walked
// position at each level determines sibling ordering: if the current index
// is even, the sibling sits to its right; otherwise to its left.
func VerifyPath(root hash.Digest, p int, numLeaves int, leaf hash.Digest, siblings []hash.Digest) bool {
	if numLeaves <= 0 || p < 0 || p >= numLeaves {
		return false
	}
	depth := log2(numLeaves)
	if len(siblings) != depth {
		return false
	}

	cur := leaf
	idx := numLeaves + p
	for i := 0; i < depth; i++ {
		sib := siblings[i]
		if idx&1 == 0 {
			cur = hash.Hash(cur, sib)
		} else {
			cur = hash.Hash(sib, cur)
		}
		idx >>= 1
	}
	return cur.Equal(root)
}

// ProofMeter tallies the number of distinct digests charged to a proof's
// size, amortizing repeated queries that revisit the same Merkle path. The
// scheme is graduated the same way the teacher's checkpointed SMT amortizes
// rebuild cost across openings: once a digest is "visited" by one query, a
// later query over the same path is free.
type ProofMeter struct {
	visited *bitset.BitSet
	perItem int // bytes charged per newly-visited digest
}

// NewProofMeter creates a meter over a universe of `size` addressable
// digests (e.g. 2N tree-node slots), charging perItem bytes for a digest
// seen for the first time.
func NewProofMeter(size int, perItem int) *ProofMeter {
	return &ProofMeter{visited: bitset.New(uint(size)), perItem: perItem}
}

// Charge marks node index idx as revealed and returns the marginal bytes
// added to the proof (perItem if this is the first time idx is revealed,
// zero otherwise).
func (m *ProofMeter) Charge(idx int) int {
	if idx < 0 {
		panic(fmt.Sprintf("merkle: negative proof index %d", idx))
	}
	u := uint(idx)
	if m.visited.Test(u) {
		return 0
	}
	m.visited.Set(u)
	return m.perItem
}

// Bytes returns the total bytes charged so far.
func (m *ProofMeter) Bytes() int {
	return int(m.visited.Count()) * m.perItem
}
