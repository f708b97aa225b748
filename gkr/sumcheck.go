package gkr

import (
	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/field"
)

// phase1Init builds the initial bookkeeping arrays over the u-hypercube of
// layer sumcheckLayer-1, combining both claim points r0 (weight alpha) and
// r1 (weight beta) via their beta tables. Gates whose value depends on a
// second wire resolve that dependency immediately using prevValues (the
// concrete layer-below values), since at this point u still ranges over the
// full boolean hypercube and the y-sum in Sigma_y h(u,y) collapses to the
// single nonzero term at y = gate.V.
func phase1Init(layer circuit.Layer, prevValues []field.Element, betaR0, betaR1 *BetaTable, alpha, beta field.Element) (addV, addMult, vMultAdd []linPoly) {
	uSize := len(prevValues)
	addV = make([]linPoly, uSize)
	addMult = make([]linPoly, uSize)
	vMultAdd = make([]linPoly, uSize)
	for i, v := range prevValues {
		vMultAdd[i] = constLinPoly(v)
	}

	get := func(idx int) field.Element {
		if idx < 0 || idx >= len(prevValues) {
			return field.Zero
		}
		return prevValues[idx]
	}

	for gi, g := range layer.Gates {
		bg := betaR0.At(gi).Mul(alpha).Add(betaR1.At(gi).Mul(beta))
		if bg.IsZero() {
			continue
		}

		switch g.Type {
		case circuit.Add:
			addV[g.U] = addV[g.U].addConst(bg.Mul(get(g.V)))
			addMult[g.U] = addMult[g.U].addConst(bg)
		case circuit.Mul:
			addMult[g.U] = addMult[g.U].addConst(bg.Mul(get(g.V)))
		case circuit.Not:
			addMult[g.U] = addMult[g.U].addConst(bg.Neg())
			addV[g.U] = addV[g.U].addConst(bg)
		case circuit.Sub:
			addMult[g.U] = addMult[g.U].addConst(bg)
			addV[g.U] = addV[g.U].addConst(bg.Neg().Mul(get(g.V)))
		case circuit.Xor:
			vv := get(g.V)
			addMult[g.U] = addMult[g.U].addConst(bg.Mul(field.One.Sub(vv).Sub(vv)))
			addV[g.U] = addV[g.U].addConst(bg.Mul(vv))
		case circuit.NAAB:
			vv := get(g.V)
			addMult[g.U] = addMult[g.U].addConst(bg.Neg().Mul(vv))
			addV[g.U] = addV[g.U].addConst(bg.Mul(vv))
		case circuit.Relay, circuit.InternalRelay:
			addMult[g.U] = addMult[g.U].addConst(bg)
		case circuit.SumRange:
			for j := g.U; j < g.V; j++ {
				addMult[j] = addMult[j].addConst(bg)
			}
		case circuit.ExpSum:
			weight := field.One
			for j := g.U; j <= g.V; j++ {
				addMult[j] = addMult[j].addConst(bg.Mul(weight))
				weight = weight.Add(weight)
			}
		case circuit.BitTest:
			addMult[g.U] = addMult[g.U].addConst(bg.Mul(field.One.Sub(get(g.V))))
		case circuit.CustomLinearComb:
			for i, src := range g.Src {
				if i >= len(g.Weight) {
					break
				}
				addMult[src] = addMult[src].addConst(bg.Mul(g.Weight[i]))
			}
		}
	}

	return addV, addMult, vMultAdd
}

// phase2Init builds the v-hypercube bookkeeping arrays for the second half
// of the sumcheck. Only gate types with a genuine u*v cross term (Mul, Xor,
// NAAB, BitTest) carry a vu-scaled coefficient here; Add and Sub have no
// cross term but still contribute their v-only coefficient unscaled, since
// that part of their claim was never resolved concretely in phase 1 (only
// their u-only and bilinear-with-known-v parts were). Every contribution
// lands in addMult (the coefficient of V(y)) — nothing survives as a
// standalone additive (addV) term once the u-only part has been absorbed
// into phase 1's running claim; see phase1PublicCoeff. vu is the
// already-bound phase-1 result V_{layer-1}(r_u); each gate's u-side beta
// weight collapses to a scalar via eqAt(rU, gate.U) since u is now fixed at
// a non-boolean point.
func phase2Init(layer circuit.Layer, prevValues []field.Element, betaR0, betaR1 *BetaTable, alpha, beta field.Element, rU []field.Element, vu field.Element) (addV, addMult, vMultAdd []linPoly) {
	vSize := len(prevValues)
	addV = make([]linPoly, vSize)
	addMult = make([]linPoly, vSize)
	vMultAdd = make([]linPoly, vSize)
	for i, v := range prevValues {
		vMultAdd[i] = constLinPoly(v)
	}

	for gi, g := range layer.Gates {
		bg := betaR0.At(gi).Mul(alpha).Add(betaR1.At(gi).Mul(beta))
		if bg.IsZero() {
			continue
		}

		switch g.Type {
		case circuit.Add, circuit.Mul, circuit.Sub, circuit.Xor, circuit.NAAB, circuit.BitTest:
			total := bg.Mul(eqAt(rU, g.U))
			if total.IsZero() {
				continue
			}
			switch g.Type {
			case circuit.Add:
				// no u*v cross term: contributes add~(r_u,y) alone, unscaled by vu.
				addMult[g.V] = addMult[g.V].addConst(total)
			case circuit.Mul:
				addMult[g.V] = addMult[g.V].addConst(total.Mul(vu))
			case circuit.Sub:
				addMult[g.V] = addMult[g.V].addConst(total.Neg())
			case circuit.Xor:
				addMult[g.V] = addMult[g.V].addConst(total.Mul(field.One.Sub(vu).Sub(vu)))
			case circuit.NAAB:
				addMult[g.V] = addMult[g.V].addConst(total.Mul(field.One.Sub(vu)))
			case circuit.BitTest:
				addMult[g.V] = addMult[g.V].addConst(total.Neg().Mul(vu))
			}
		}
	}

	return addV, addMult, vMultAdd
}

func (p linPoly) addConst(v field.Element) linPoly {
	return linPoly{A: p.A, B: p.B.Add(v)}
}

// phase1PublicCoeff computes A(r_u), the part of phase 1's folded claim that
// depends only on V(u) and never on any V(v) value — the coefficient every
// gate type contributes to V(u) alone, stripped of whatever u*v cross term
// or known-v-weighted term it also carries. Both prover and verifier
// evaluate this directly from the public circuit and challenges; it is what
// lets the verifier peel layer l's claim down to the phase-2 residual
// v_u*M(r_u)+B(r_u) without ever seeing a prover-side value.
func phase1PublicCoeff(layer circuit.Layer, betaR0, betaR1 *BetaTable, alpha, beta field.Element, rU []field.Element) field.Element {
	total := field.Zero
	for gi, g := range layer.Gates {
		bg := betaR0.At(gi).Mul(alpha).Add(betaR1.At(gi).Mul(beta))
		if bg.IsZero() {
			continue
		}

		switch g.Type {
		case circuit.Add, circuit.Sub, circuit.Xor, circuit.BitTest, circuit.Relay, circuit.InternalRelay:
			total = total.Add(bg.Mul(eqAt(rU, g.U)))
		case circuit.Not:
			total = total.Sub(bg.Mul(eqAt(rU, g.U)))
		case circuit.SumRange:
			for j := g.U; j < g.V; j++ {
				total = total.Add(bg.Mul(eqAt(rU, j)))
			}
		case circuit.ExpSum:
			weight := field.One
			for j := g.U; j <= g.V; j++ {
				total = total.Add(bg.Mul(weight).Mul(eqAt(rU, j)))
				weight = weight.Add(weight)
			}
		case circuit.CustomLinearComb:
			for i, src := range g.Src {
				if i >= len(g.Weight) {
					break
				}
				total = total.Add(bg.Mul(g.Weight[i]).Mul(eqAt(rU, src)))
			}
		}
	}
	return total
}

// phase1PublicConstant computes the part of phase 1's folded claim that is a
// flat public constant, tied to neither V(u) nor V(v) — currently only Not's
// contribution (its operand's coefficient is absorbed by phase1PublicCoeff;
// this is the "+1" term Not adds on top, bg itself, never multiplied by any
// field value). It must be peeled off the same way phase1PublicCoeff's
// vu-scaled term is, since phase 2 never carries Not forward and would
// otherwise be handed a nonzero claim it has no bookkeeping to explain.
func phase1PublicConstant(layer circuit.Layer, betaR0, betaR1 *BetaTable, alpha, beta field.Element, rU []field.Element) field.Element {
	total := field.Zero
	for gi, g := range layer.Gates {
		if g.Type != circuit.Not {
			continue
		}
		bg := betaR0.At(gi).Mul(alpha).Add(betaR1.At(gi).Mul(beta))
		if bg.IsZero() {
			continue
		}
		total = total.Add(bg.Mul(eqAt(rU, g.U)))
	}
	return total
}

// phase2PublicCheck computes (mult~(r_u,r_v)*vu + add~(r_u,r_v)), the fully
// bound public predicate the phase-2 sumcheck's last round must match once
// combined with vv. This is the verifier-side counterpart of phase2Init's
// per-gate coefficients, evaluated at a concrete r_v instead of folded
// through prevValues.
func phase2PublicCheck(layer circuit.Layer, betaR0, betaR1 *BetaTable, alpha, beta field.Element, rU, rV []field.Element, vu field.Element) field.Element {
	total := field.Zero
	for gi, g := range layer.Gates {
		bg := betaR0.At(gi).Mul(alpha).Add(betaR1.At(gi).Mul(beta))
		if bg.IsZero() {
			continue
		}

		switch g.Type {
		case circuit.Add, circuit.Mul, circuit.Sub, circuit.Xor, circuit.NAAB, circuit.BitTest:
			w := bg.Mul(eqAt(rU, g.U)).Mul(eqAt(rV, g.V))
			if w.IsZero() {
				continue
			}
			switch g.Type {
			case circuit.Add:
				total = total.Add(w)
			case circuit.Mul:
				total = total.Add(w.Mul(vu))
			case circuit.Sub:
				total = total.Sub(w)
			case circuit.Xor:
				total = total.Add(w.Mul(field.One.Sub(vu).Sub(vu)))
			case circuit.NAAB:
				total = total.Add(w.Mul(field.One.Sub(vu)))
			case circuit.BitTest:
				total = total.Sub(w.Mul(vu))
			}
		}
	}
	return total
}
