// Package gkr implements the layered-circuit sumcheck protocol: the prover
// evaluates a circuit and proves each layer's claim reduces correctly to a
// claim about the layer below, descending from the output to the input; the
// verifier replays the same reduction using only the public circuit
// structure and the prover's round polynomials.
package gkr

import (
	"fmt"
	"time"

	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/transcript"
	"github.com/MuriData/gkr-fri/zkerr"
)

// RoundPoly is one round's univariate sumcheck polynomial, sent in
// coefficient form (q(X) = C2*X^2 + C1*X + C0).
type RoundPoly struct {
	C0, C1, C2 field.Element
}

// Eval returns q(x).
func (p RoundPoly) Eval(x field.Element) field.Element {
	return p.C0.Add(p.C1.Mul(x)).Add(p.C2.Mul(x).Mul(x))
}

// LayerProof carries one layer's phase-1 and phase-2 round polynomials plus
// the two final openings (v_u, v_v) the prover reveals after binding every
// variable.
type LayerProof struct {
	Phase1 []RoundPoly
	Phase2 []RoundPoly
	Vu, Vv field.Element
}

// Proof is the full GKR transcript: one LayerProof per non-input layer,
// ordered from the output layer down to layer 1, plus the output layer's
// values (so the verifier can form the first claim) and the final point at
// which the input layer's claim must be opened (handed off to a polynomial
// commitment).
type Proof struct {
	Output     []field.Element
	Layers     []LayerProof
	FinalPoint []field.Element
	FinalValue field.Element
}

// Stats records the four timing fields the CLI reports.
type Stats struct {
	TotalProveTime      time.Duration
	VerificationTime    time.Duration
	PredicatesCalcTime  time.Duration
	VerificationRDLTime time.Duration
}

// Prove evaluates c on input and produces a Proof that the evaluation is
// correct, descending the sumcheck from the output layer to layer 1.
func Prove(c *circuit.Circuit, input []field.Element) (*Proof, []field.Element, Stats, error) {
	start := time.Now()

	values, err := c.Evaluate(input)
	if err != nil {
		return nil, nil, Stats{}, fmt.Errorf("gkr: evaluate: %w", err)
	}

	tr := transcript.New()
	output := values[len(values)-1]
	if err := tr.BindElements(output); err != nil {
		return nil, nil, Stats{}, err
	}

	outBits := bitLen(len(output))
	r0, err := tr.Challenges(outBits)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	betaOut := NewBetaTable(r0)
	claimedSum := field.Zero
	for i, v := range output {
		claimedSum = claimedSum.Add(betaOut.At(i).Mul(v))
	}

	r1 := make([]field.Element, outBits)
	alpha, beta := field.One, field.Zero

	proof := &Proof{Output: output}

	for l := len(values) - 1; l >= 1; l-- {
		layer := c.Layers[l]
		prev := values[l-1]

		betaR0 := NewBetaTable(r0)
		betaR1 := NewBetaTable(r1)

		addV1, addMult1, vMultAdd1 := phase1Init(layer, prev, betaR0, betaR1, alpha, beta)
		phase1Rounds, rU, f1, vuVal, err := runSumcheckPhase(tr, addV1, addMult1, vMultAdd1, claimedSum)
		if err != nil {
			return nil, nil, Stats{}, err
		}

		publicA := phase1PublicCoeff(layer, betaR0, betaR1, alpha, beta, rU)
		publicConst := phase1PublicConstant(layer, betaR0, betaR1, alpha, beta, rU)
		claimed2 := f1.Sub(vuVal.Mul(publicA)).Sub(publicConst)

		addV2, addMult2, vMultAdd2 := phase2Init(layer, prev, betaR0, betaR1, alpha, beta, rU, vuVal)
		phase2Rounds, rV, _, vvVal, err := runSumcheckPhase(tr, addV2, addMult2, vMultAdd2, claimed2)
		if err != nil {
			return nil, nil, Stats{}, err
		}

		proof.Layers = append(proof.Layers, LayerProof{Phase1: phase1Rounds, Phase2: phase2Rounds, Vu: vuVal, Vv: vvVal})

		if err := tr.BindElement(vuVal); err != nil {
			return nil, nil, Stats{}, err
		}
		if err := tr.BindElement(vvVal); err != nil {
			return nil, nil, Stats{}, err
		}

		if l == 1 {
			proof.FinalPoint = rU
			proof.FinalValue = vuVal
			break
		}

		newAlpha, err := tr.Challenge()
		if err != nil {
			return nil, nil, Stats{}, err
		}
		newBeta, err := tr.Challenge()
		if err != nil {
			return nil, nil, Stats{}, err
		}

		r0, r1 = rU, rV
		alpha, beta = newAlpha, newBeta
		claimedSum = alpha.Mul(vuVal).Add(beta.Mul(vvVal))
	}

	stats := Stats{TotalProveTime: time.Since(start)}
	return proof, values[0], stats, nil
}

// Verify replays the transcript using only the public circuit and the
// proof's round polynomials, checking every round's consistency and the
// final per-layer predicate check, and returns the claim the polynomial
// commitment must open (point, value) at layer 0.
func Verify(c *circuit.Circuit, proof *Proof) ([]field.Element, field.Element, Stats, error) {
	start := time.Now()

	tr := transcript.New()
	if err := tr.BindElements(proof.Output); err != nil {
		return nil, field.Element{}, Stats{}, err
	}

	outBits := bitLen(len(proof.Output))
	r0, err := tr.Challenges(outBits)
	if err != nil {
		return nil, field.Element{}, Stats{}, err
	}
	betaOut := NewBetaTable(r0)
	claimedSum := field.Zero
	for i, v := range proof.Output {
		claimedSum = claimedSum.Add(betaOut.At(i).Mul(v))
	}

	r1 := make([]field.Element, outBits)
	alpha, beta := field.One, field.Zero

	if len(proof.Layers) != c.Depth()-1 {
		return nil, field.Element{}, Stats{}, zkerr.NewProofReject("layer count mismatch")
	}

	var rdlElapsed, predElapsed time.Duration

	for idx, lp := range proof.Layers {
		l := len(proof.Layers) - idx
		layer := c.Layers[l]

		betaR0 := NewBetaTable(r0)
		betaR1 := NewBetaTable(r1)

		rdlStart := time.Now()
		rU, f1, err := replayPhase(tr, lp.Phase1, claimedSum)
		rdlElapsed += time.Since(rdlStart)
		if err != nil {
			return nil, field.Element{}, Stats{}, err
		}

		predStart := time.Now()
		publicA := phase1PublicCoeff(layer, betaR0, betaR1, alpha, beta, rU)
		publicConst := phase1PublicConstant(layer, betaR0, betaR1, alpha, beta, rU)
		predElapsed += time.Since(predStart)
		claimed2 := f1.Sub(lp.Vu.Mul(publicA)).Sub(publicConst)

		rdlStart = time.Now()
		rV, f2, err := replayPhase(tr, lp.Phase2, claimed2)
		rdlElapsed += time.Since(rdlStart)
		if err != nil {
			return nil, field.Element{}, Stats{}, err
		}

		predStart = time.Now()
		want := phase2PublicCheck(layer, betaR0, betaR1, alpha, beta, rU, rV, lp.Vu).Mul(lp.Vv)
		predElapsed += time.Since(predStart)
		if !want.Equal(f2) {
			return nil, field.Element{}, Stats{}, zkerr.NewProofReject(fmt.Sprintf("layer %d final check mismatch", l))
		}

		if err := tr.BindElement(lp.Vu); err != nil {
			return nil, field.Element{}, Stats{}, err
		}
		if err := tr.BindElement(lp.Vv); err != nil {
			return nil, field.Element{}, Stats{}, err
		}

		if l == 1 {
			stats := Stats{
				VerificationTime:    time.Since(start),
				VerificationRDLTime: rdlElapsed,
				PredicatesCalcTime:  predElapsed,
			}
			return rU, lp.Vu, stats, nil
		}

		newAlpha, err := tr.Challenge()
		if err != nil {
			return nil, field.Element{}, Stats{}, err
		}
		newBeta, err := tr.Challenge()
		if err != nil {
			return nil, field.Element{}, Stats{}, err
		}

		r0, r1 = rU, rV
		alpha, beta = newAlpha, newBeta
		claimedSum = alpha.Mul(lp.Vu).Add(beta.Mul(lp.Vv))
	}

	stats := Stats{VerificationTime: time.Since(start), VerificationRDLTime: rdlElapsed, PredicatesCalcTime: predElapsed}
	return proof.FinalPoint, proof.FinalValue, stats, nil
}

// replayPhase re-derives one phase's challenges from the transcript (which
// must already have the same bindings the prover made), checking each
// round's q(0)+q(1) against the running claim, and returns the bound point
// plus the final folded value.
func replayPhase(tr *transcript.Transcript, rounds []RoundPoly, claimedSum field.Element) ([]field.Element, field.Element, error) {
	if len(rounds) == 0 {
		return nil, claimedSum, nil
	}

	randoms := make([]field.Element, len(rounds))
	cur := claimedSum
	for i, rp := range rounds {
		sum := rp.C0.Add(rp.C0).Add(rp.C1).Add(rp.C2)
		if !sum.Equal(cur) {
			return nil, field.Element{}, zkerr.NewProofReject(fmt.Sprintf("sumcheck round %d: q(0)+q(1) != claimed sum", i))
		}

		if err := tr.Bind(roundPolyBytes(rp.C0, rp.C1, rp.C2)); err != nil {
			return nil, field.Element{}, err
		}
		rho, err := tr.Challenge()
		if err != nil {
			return nil, field.Element{}, err
		}

		randoms[i] = rho
		cur = rp.Eval(rho)
	}

	return randoms, cur, nil
}

// runSumcheckPhase drives one phase (either u or v) of the sumcheck: each
// round first pairs the bookkeeping arrays into linear polynomials in the
// round's variable (evaluating them at the previous round's challenge),
// computes the quadratic polynomial from them, checks q(0)+q(1) == running
// claim, binds it to the transcript, and draws the round's random challenge. It returns the
// bound point, the fully-folded claim value (mult(r)*v(r)+add(r), the
// "F1"-style residual Verify must independently account for), and the bound
// v-array's value alone (V(r), the opening handed to the next layer down).
func runSumcheckPhase(tr *transcript.Transcript, addV, addMult, vMultAdd []linPoly, claimedSum field.Element) ([]RoundPoly, []field.Element, field.Element, field.Element, error) {
	n := len(vMultAdd)
	if n == 0 {
		return nil, nil, claimedSum, field.Zero, nil
	}
	rounds := bitLen(n)

	var polys []RoundPoly
	var randoms []field.Element

	cur := claimedSum
	rho := field.Zero
	for round := 0; round < rounds; round++ {
		addMult = reduceRound(addMult, rho)
		addV = reduceRound(addV, rho)
		vMultAdd = reduceRound(vMultAdd, rho)

		c0, c1, c2 := quadraticCoeffs(addMult, addV, vMultAdd)
		sum := c0.Add(c0).Add(c1).Add(c2)
		if !sum.Equal(cur) {
			return nil, nil, field.Element{}, field.Element{}, zkerr.NewProofReject(fmt.Sprintf("sumcheck round %d: q(0)+q(1) != claimed sum", round))
		}

		if err := tr.Bind(roundPolyBytes(c0, c1, c2)); err != nil {
			return nil, nil, field.Element{}, field.Element{}, err
		}
		var err error
		rho, err = tr.Challenge()
		if err != nil {
			return nil, nil, field.Element{}, field.Element{}, err
		}

		polys = append(polys, RoundPoly{C0: c0, C1: c1, C2: c2})
		randoms = append(randoms, rho)
		cur = c0.Add(c1.Mul(rho)).Add(c2.Mul(rho).Mul(rho))
	}

	return polys, randoms, cur, vMultAdd[0].Eval(rho), nil
}

func roundPolyBytes(c0, c1, c2 field.Element) []byte {
	b0, b1, b2 := c0.Bytes(), c1.Bytes(), c2.Bytes()
	out := make([]byte, 0, 48)
	out = append(out, b0[:]...)
	out = append(out, b1[:]...)
	out = append(out, b2[:]...)
	return out
}

func bitLen(n int) int {
	if n <= 1 {
		return 0
	}
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}
