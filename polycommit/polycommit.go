// Package polycommit implements the Reed-Solomon polynomial commitment: a
// witness is sliced, each slice is encoded into a codeword, and the
// codewords are interleaved into a single Merkle-committed oracle that the
// fri package later opens.
package polycommit

import (
	"github.com/MuriData/gkr-fri/config"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/hash"
	"github.com/MuriData/gkr-fri/merkle"
	"github.com/MuriData/gkr-fri/zkerr"
)

// SliceNumber and RSCodeRate are the config package's protocol-wide values;
// aliased here so callers don't need to import config just to read them.
const (
	SliceNumber = config.SliceNumber
	RSCodeRate  = config.RSCodeRate
)

// Encoder maps a power-of-two-length message to its Reed-Solomon codeword.
// The default is the FFT-based systematic-via-evaluation encoder; linearcode
// offers an expander-graph-based alternative satisfying the same interface.
type Encoder interface {
	Encode(message []field.Element) ([]field.Element, error)
}

// Commitment is the public root a verifier holds; Witness is the prover-side
// state (the codewords themselves plus the Merkle tree) retained for the
// later FRI opening.
type Commitment struct {
	Root hash.Digest
}

// Witness is the prover's retained state from Commit: the per-slice
// codewords (needed to answer FRI queries) and the Merkle tree committing
// to their interleaved leaves.
type Witness struct {
	Codewords       [][]field.Element
	Tree            *merkle.Tree
	SliceSize       int
	SliceRealEleCnt int
}

// Commit slices witness into SliceNumber equal parts, encodes each into a
// codeword via enc (all-zero slices short-circuit to an all-zero codeword,
// skipping the encode entirely), interleaves the codewords into Merkle
// leaves (leaf j hashes the pair at position 2j/2j+1 from every slice), and
// returns the resulting commitment plus the prover's retained witness.
func Commit(witness []field.Element, enc Encoder) (*Commitment, *Witness, error) {
	n := len(witness)
	if n == 0 || n%SliceNumber != 0 {
		return nil, nil, zkerr.NewInvariantViolation("witness length must be a nonzero multiple of the slice count", nil)
	}
	sliceRealEleCnt := n / SliceNumber
	if !isPowerOfTwo(sliceRealEleCnt) {
		return nil, nil, zkerr.NewInvariantViolation("witness slice length must be a power of two", nil)
	}

	codewords := make([][]field.Element, SliceNumber)
	sliceSize := 0

	for i := 0; i < SliceNumber; i++ {
		seg := witness[i*sliceRealEleCnt : (i+1)*sliceRealEleCnt]
		if allZero(seg) {
			continue
		}

		cw, err := enc.Encode(seg)
		if err != nil {
			return nil, nil, err
		}
		if sliceSize == 0 {
			sliceSize = len(cw)
		} else if len(cw) != sliceSize {
			return nil, nil, zkerr.NewInvariantViolation("encoder returned inconsistent codeword length across slices", nil)
		}
		codewords[i] = cw
	}

	// Every slice shares one codeword length: the default FFT encoder's RS
	// blow-up if every slice happened to be all-zero, otherwise whatever the
	// encoder actually produced for the first non-zero slice.
	if sliceSize == 0 {
		sliceSize = sliceRealEleCnt << RSCodeRate
	}
	if sliceSize%2 != 0 {
		return nil, nil, zkerr.NewInvariantViolation("encoder codeword length must be even for leaf-pair interleaving", nil)
	}
	for i := 0; i < SliceNumber; i++ {
		if codewords[i] == nil {
			codewords[i] = make([]field.Element, sliceSize)
		}
	}

	leaves := interleaveLeaves(codewords, sliceSize)
	tree := merkle.Build(leaves)

	return &Commitment{Root: tree.Root()},
		&Witness{Codewords: codewords, Tree: tree, SliceSize: sliceSize, SliceRealEleCnt: sliceRealEleCnt},
		nil
}

// interleaveLeaves builds one Merkle leaf per codeword-position pair,
// concatenating the pair's bytes from every slice before hashing, so a
// single tree authenticates all SliceNumber codewords at once.
func interleaveLeaves(codewords [][]field.Element, sliceSize int) []hash.Digest {
	numLeaves := sliceSize / 2
	leaves := make([]hash.Digest, numLeaves)
	for j := 0; j < numLeaves; j++ {
		buf := make([]byte, 0, len(codewords)*32)
		for _, cw := range codewords {
			a := cw[2*j].Bytes()
			b := cw[2*j+1].Bytes()
			buf = append(buf, a[:]...)
			buf = append(buf, b[:]...)
		}
		leaves[j] = hash.HashBytes(buf)
	}
	return leaves
}

func allZero(vals []field.Element) bool {
	for _, v := range vals {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
