// Package fri implements the Reed-Solomon proximity test that backs the
// polynomial commitment: a codeword is repeatedly folded in half, each fold
// level Merkle-committed, until a small constant-rate codeword can be
// revealed in the clear; a handful of random queries then check that every
// fold was computed honestly.
package fri

import (
	"fmt"

	"github.com/MuriData/gkr-fri/config"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/hash"
	"github.com/MuriData/gkr-fri/merkle"
	"github.com/MuriData/gkr-fri/transcript"
	"github.com/MuriData/gkr-fri/zkerr"
)

// RSCodeRate and LDTRepeatNum are the config package's protocol-wide values;
// aliased here so callers don't need to import config just to read them.
const (
	RSCodeRate   = config.RSCodeRate
	LDTRepeatNum = config.LDTRepeatNum
)

// QueryProof is one query's revealed data across every fold level: the pair
// of codeword values at that level plus the Merkle path authenticating them.
type QueryProof struct {
	Position   int
	LevelLow   []field.Element
	LevelHigh  []field.Element
	LevelPaths [][]hash.Digest
}

// Proof is the full low-degree test transcript for one codeword.
type Proof struct {
	InitialRoot   hash.Digest
	FoldRoots     []hash.Digest
	FinalCodeword []field.Element
	Queries       []QueryProof
}

// Prove runs the fold-by-two commit phase over codeword (whose length must
// be a power of two strictly greater than 2^RSCodeRate) and the 33-query
// phase, binding every root and the final codeword to tr so the verifier can
// rederive the same challenges.
func Prove(tr *transcript.Transcript, codeword []field.Element) (*Proof, error) {
	n := len(codeword)
	if n == 0 || n&(n-1) != 0 {
		return nil, zkerr.NewInvariantViolation("fri: codeword length must be a power of two", nil)
	}
	if n <= (1 << RSCodeRate) {
		return nil, zkerr.NewInvariantViolation("fri: codeword already at or below the final rate", nil)
	}

	var levels [][]field.Element
	var trees []*merkle.Tree
	var roots []hash.Digest
	var rs []field.Element

	cur := codeword
	for len(cur) > (1 << RSCodeRate) {
		tree := buildLevelTree(cur)
		levels = append(levels, cur)
		trees = append(trees, tree)
		roots = append(roots, tree.Root())

		if err := tr.Bind(digestBytes(tree.Root())); err != nil {
			return nil, err
		}
		r, err := tr.Challenge()
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)

		g, err := field.GetRootOfUnity(log2Int(len(cur)))
		if err != nil {
			return nil, err
		}
		cur = foldCodeword(cur, g, r)
	}

	finalCodeword := cur
	if err := tr.BindElements(finalCodeword); err != nil {
		return nil, err
	}

	numLevels := len(levels)
	initialLeafCount := len(levels[0]) / 2

	queries := make([]QueryProof, LDTRepeatNum)
	for q := 0; q < LDTRepeatNum; q++ {
		p0, err := samplePosition(tr, initialLeafCount)
		if err != nil {
			return nil, err
		}

		qp := QueryProof{Position: p0}
		for l := 0; l < numLevels; l++ {
			m := len(levels[l]) / 2
			idx := p0 % m
			qp.LevelLow = append(qp.LevelLow, levels[l][idx])
			qp.LevelHigh = append(qp.LevelHigh, levels[l][idx+m])
			qp.LevelPaths = append(qp.LevelPaths, trees[l].AuthPath(idx))
		}
		queries[q] = qp
	}

	return &Proof{
		InitialRoot:   roots[0],
		FoldRoots:     roots[1:],
		FinalCodeword: finalCodeword,
		Queries:       queries,
	}, nil
}

// Verify replays the commit phase's challenges from tr, checks that the
// final codeword is constant (a rate-1/2^RSCodeRate codeword folded down to
// 2^RSCodeRate entries has degree zero), and checks every query's Merkle
// paths and local fold recomputation against the proof.
// initialRoot is the independently-known commitment (e.g. from polycommit)
// the proof's own claimed first root must match.
func Verify(tr *transcript.Transcript, initialRoot hash.Digest, proof *Proof) error {
	if !proof.InitialRoot.Equal(initialRoot) {
		return zkerr.NewProofReject("fri: initial root does not match the committed codeword")
	}

	numLevels := len(proof.FoldRoots) + 1
	allRoots := make([]hash.Digest, numLevels)
	allRoots[0] = proof.InitialRoot
	copy(allRoots[1:], proof.FoldRoots)

	finalLen := len(proof.FinalCodeword)
	if finalLen == 0 || finalLen&(finalLen-1) != 0 {
		return zkerr.NewProofReject("fri: final codeword length is not a power of two")
	}
	for _, v := range proof.FinalCodeword[1:] {
		if !v.Equal(proof.FinalCodeword[0]) {
			return zkerr.NewProofReject("fri: final codeword is not constant")
		}
	}
	lens := make([]int, numLevels+1)
	lens[numLevels] = finalLen
	for l := numLevels - 1; l >= 0; l-- {
		lens[l] = lens[l+1] * 2
	}

	rs := make([]field.Element, numLevels)
	for l := 0; l < numLevels; l++ {
		if err := tr.Bind(digestBytes(allRoots[l])); err != nil {
			return err
		}
		r, err := tr.Challenge()
		if err != nil {
			return err
		}
		rs[l] = r
	}
	if err := tr.BindElements(proof.FinalCodeword); err != nil {
		return err
	}

	half, err := field.FromReal(2).Inverse()
	if err != nil {
		return err
	}

	initialLeafCount := lens[0] / 2
	for q, qp := range proof.Queries {
		p0, err := samplePosition(tr, initialLeafCount)
		if err != nil {
			return err
		}
		if qp.Position != p0 {
			return zkerr.NewProofReject(fmt.Sprintf("fri: query %d position mismatch", q))
		}
		if len(qp.LevelLow) != numLevels || len(qp.LevelHigh) != numLevels || len(qp.LevelPaths) != numLevels {
			return zkerr.NewProofReject(fmt.Sprintf("fri: query %d has wrong level count", q))
		}

		for l := 0; l < numLevels; l++ {
			m := lens[l] / 2
			idx := p0 % m

			lo, hi := qp.LevelLow[l], qp.LevelHigh[l]
			leaf := leafDigest(lo, hi)
			if !merkle.VerifyPath(allRoots[l], idx, m, leaf, qp.LevelPaths[l]) {
				return zkerr.NewProofReject(fmt.Sprintf("fri: query %d level %d Merkle path mismatch", q, l))
			}

			g, err := field.GetRootOfUnity(log2Int(lens[l]))
			if err != nil {
				return err
			}
			gInv, err := g.Inverse()
			if err != nil {
				return err
			}
			muInv := gInv.Pow(uint64(idx))

			folded := half.Mul(lo.Add(hi)).Add(half.Mul(muInv).Mul(rs[l]).Mul(lo.Sub(hi)))

			var expected field.Element
			if l == numLevels-1 {
				expected = proof.FinalCodeword[idx]
			} else {
				nextM := lens[l+1] / 2
				if idx < nextM {
					expected = qp.LevelLow[l+1]
				} else {
					expected = qp.LevelHigh[l+1]
				}
			}
			if !folded.Equal(expected) {
				return zkerr.NewProofReject(fmt.Sprintf("fri: query %d level %d fold inconsistency", q, l))
			}
		}
	}

	return nil
}

// ProofSize tallies the proof's size in bytes, charging each distinct
// revealed leaf pair and each distinct Merkle sibling exactly once across
// all LDTRepeatNum queries.
func ProofSize(proof *Proof) int {
	numLevels := len(proof.FoldRoots) + 1
	finalLen := len(proof.FinalCodeword)
	lens := make([]int, numLevels+1)
	lens[numLevels] = finalLen
	for l := numLevels - 1; l >= 0; l-- {
		lens[l] = lens[l+1] * 2
	}

	valueMeters := make([]*merkle.ProofMeter, numLevels)
	pathMeters := make([]*merkle.ProofMeter, numLevels)
	for l := 0; l < numLevels; l++ {
		m := lens[l] / 2
		valueMeters[l] = merkle.NewProofMeter(m, 32)
		pathMeters[l] = merkle.NewProofMeter(2*m, 32)
	}

	total := len(proof.FinalCodeword) * 16
	for _, qp := range proof.Queries {
		p0 := qp.Position
		for l := 0; l < numLevels; l++ {
			m := lens[l] / 2
			idx := p0 % m
			total += valueMeters[l].Charge(idx)
			total += chargeAuthPath(pathMeters[l], m, idx)
		}
	}
	return total
}

func chargeAuthPath(meter *merkle.ProofMeter, numLeaves, p int) int {
	total := 0
	idx := numLeaves + p
	for idx > 1 {
		total += meter.Charge(idx ^ 1)
		idx >>= 1
	}
	return total
}

func buildLevelTree(codeword []field.Element) *merkle.Tree {
	m := len(codeword) / 2
	leaves := make([]hash.Digest, m)
	for j := 0; j < m; j++ {
		leaves[j] = leafDigest(codeword[j], codeword[j+m])
	}
	return merkle.Build(leaves)
}

func leafDigest(low, high field.Element) hash.Digest {
	a, b := low.Bytes(), high.Bytes()
	buf := make([]byte, 0, 32)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return hash.HashBytes(buf)
}

// foldCodeword halves prev (length 2M) into a codeword of length M:
// next[i] = (1/2)*(prev[i]+prev[i+M]) + (1/2)*g^-i*r*(prev[i]-prev[i+M]),
// where g generates the order-len(prev) evaluation subgroup.
func foldCodeword(prev []field.Element, g, r field.Element) []field.Element {
	m := len(prev) / 2
	half, _ := field.FromReal(2).Inverse()
	gInv, _ := g.Inverse()

	next := make([]field.Element, m)
	muInv := field.One
	for i := 0; i < m; i++ {
		a, b := prev[i], prev[i+m]
		term1 := half.Mul(a.Add(b))
		term2 := half.Mul(muInv).Mul(r).Mul(a.Sub(b))
		next[i] = term1.Add(term2)
		muInv = muInv.Mul(gInv)
	}
	return next
}

func samplePosition(tr *transcript.Transcript, bound int) (int, error) {
	c, err := tr.Challenge()
	if err != nil {
		return 0, err
	}
	return int(c.Real % uint64(bound)), nil
}

func digestBytes(d hash.Digest) []byte {
	b := d.Bytes()
	return b[:]
}

func log2Int(n int) int {
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}
