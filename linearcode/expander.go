// Package linearcode implements an expander-graph-based linear-time encoder
// (Spielman/Brakedown style) as an alternative to the FFT-based Reed-Solomon
// encoder: two sparse random bipartite graphs per recursion level fold the
// message down to a small base case and build it back up into a systematic
// codeword, entirely without any FFT.
package linearcode

import (
	"math/rand"

	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/zkerr"
)

const (
	// targetDistance is the relative distance the code aims for; below
	// distanceThreshold message elements the code degenerates to the
	// identity (no graph can usefully expand so few symbols).
	// distanceThreshold is floor(1/targetDistance) - 1.
	targetDistance    = 0.07
	distanceThreshold = 13
	// alpha is the fraction of a level's message folded into the first
	// (C) graph's parity; r fixes how much larger the second (D) graph's
	// domain is than the first graph's codomain.
	alpha  = 0.238
	rRatio = 1.72
	cDeg   = 10
	dDeg   = 20
)

// graph is a random bipartite graph with L left vertices (degree cDeg/dDeg
// each) and R right vertices, used to compute one level's parity symbols as
// a sparse linear combination of the input.
type graph struct {
	degree   int
	neighbor [][]int
	weight   [][]field.Element
	l, r     int
}

func generateRandomExpander(rng *rand.Rand, l, r, degree int) *graph {
	g := &graph{degree: degree, neighbor: make([][]int, l), weight: make([][]field.Element, l), l: l, r: r}
	for i := 0; i < l; i++ {
		g.neighbor[i] = make([]int, degree)
		g.weight[i] = make([]field.Element, degree)
		for d := 0; d < degree; d++ {
			g.neighbor[i][d] = rng.Intn(r)
			g.weight[i][d] = field.NewRandom(rng)
		}
	}
	return g
}

// level holds one recursion depth's pair of graphs plus the message/parity
// sizes they were built for.
type level struct {
	c, d       *graph
	n, innerL, finalR int
}

// ExpanderEncoder implements polycommit.Encoder via recursive expander-graph
// encoding instead of an FFT. The graph chain is built once (deterministically
// from seed, so prover and verifier reconstruct identical graphs) for a fixed
// message length n; Encode only accepts messages of that exact length.
type ExpanderEncoder struct {
	n         int
	levels    []level
	outputLen int
}

// NewExpanderEncoder builds the recursive graph chain for messages of length
// n, seeded deterministically so any two callers with the same (n, seed)
// obtain byte-identical graphs.
func NewExpanderEncoder(n int, seed uint64) (*ExpanderEncoder, error) {
	if n <= 0 {
		return nil, zkerr.NewInvariantViolation("linearcode: message length must be positive", nil)
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	levels, outputLen, err := buildChain(rng, n)
	if err != nil {
		return nil, err
	}
	return &ExpanderEncoder{n: n, levels: levels, outputLen: outputLen}, nil
}

// buildChain recursively constructs the graph chain the way expander_init
// does: fold n down via C into R = alpha*n parity symbols, recursively encode
// those, then fold the recursively-encoded vector via D into a second parity
// block sized so the whole level reaches a 1/r_ratio rate.
func buildChain(rng *rand.Rand, n int) ([]level, int, error) {
	if n <= distanceThreshold {
		return nil, n, nil
	}

	r := int(alpha * float64(n))
	if r < 1 {
		return nil, 0, zkerr.NewInvariantViolation("linearcode: message too small to expand", nil)
	}
	c := generateRandomExpander(rng, n, r, cDeg)

	rest, innerL, err := buildChain(rng, r)
	if err != nil {
		return nil, 0, err
	}

	finalR := int(float64(n)*(rRatio-1) - float64(innerL))
	if finalR < 1 {
		return nil, 0, zkerr.NewInvariantViolation("linearcode: expansion ratio too small for this message size", nil)
	}
	d := generateRandomExpander(rng, innerL, finalR, dDeg)

	levels := append([]level{{c: c, d: d, n: n, innerL: innerL, finalR: finalR}}, rest...)
	return levels, n + innerL + finalR, nil
}

// Encode implements polycommit.Encoder.
func (e *ExpanderEncoder) Encode(message []field.Element) ([]field.Element, error) {
	if len(message) != e.n {
		return nil, zkerr.NewInvariantViolation("linearcode: message length does not match the encoder's graph chain", nil)
	}
	return encodeLevels(e.levels, message), nil
}

// encodeLevels produces a systematic codeword: the message itself, followed
// by its recursively-encoded C-parity, followed by a D-parity computed over
// that recursive codeword (so the whole output is checkable by both graphs
// without ever touching an FFT).
func encodeLevels(levels []level, src []field.Element) []field.Element {
	n := len(src)
	if len(levels) == 0 {
		out := make([]field.Element, n)
		copy(out, src)
		return out
	}

	lvl := levels[0]
	c, d := lvl.c, lvl.d

	parity := make([]field.Element, c.r)
	for i := 0; i < n; i++ {
		val := src[i]
		if val.IsZero() {
			continue
		}
		for di := 0; di < c.degree; di++ {
			t := c.neighbor[i][di]
			parity[t] = parity[t].Add(c.weight[i][di].Mul(val))
		}
	}

	recursiveCode := encodeLevels(levels[1:], parity)

	secondParity := make([]field.Element, d.r)
	for i := 0; i < len(recursiveCode); i++ {
		val := recursiveCode[i]
		if val.IsZero() {
			continue
		}
		for di := 0; di < d.degree; di++ {
			t := d.neighbor[i][di]
			secondParity[t] = secondParity[t].Add(val.Mul(d.weight[i][di]))
		}
	}

	out := make([]field.Element, 0, n+len(recursiveCode)+len(secondParity))
	out = append(out, src...)
	out = append(out, recursiveCode...)
	out = append(out, secondParity...)
	return out
}

// OutputLen returns the codeword length Encode produces for this encoder's
// fixed message length.
func (e *ExpanderEncoder) OutputLen() int {
	return e.outputLen
}
