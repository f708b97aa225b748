package gkr

import "github.com/MuriData/gkr-fri/field"

// linPoly is a degree-<=1 polynomial a*X + b in the not-yet-bound sumcheck
// variable, the unit the bookkeeping arrays (V_mult_add, add_V_array,
// add_mult_sum) are built from.
type linPoly struct {
	A, B field.Element
}

// constLinPoly wraps a known field value as a degree-0 linear polynomial.
func constLinPoly(v field.Element) linPoly {
	return linPoly{A: field.Zero, B: v}
}

// Eval returns a*x + b.
func (p linPoly) Eval(x field.Element) field.Element {
	return p.A.Mul(x).Add(p.B)
}

// reduceRound halves arr by combining consecutive pairs (2i, 2i+1) into a
// new linear polynomial in the next round's variable, given the random
// challenge rho bound in the previous round. Works uniformly whether
// or not the entries already carry a nonzero A component, since a=0 on the
// first call makes the rho-multiplication a no-op.
func reduceRound(arr []linPoly, rho field.Element) []linPoly {
	half := len(arr) / 2
	out := make([]linPoly, half)
	for i := 0; i < half; i++ {
		zero := arr[2*i]
		one := arr[2*i+1]
		b := zero.A.Mul(rho).Add(zero.B)
		a := one.A.Mul(rho).Add(one.B).Sub(b)
		out[i] = linPoly{A: a, B: b}
	}
	return out
}

// quadraticCoeffs computes the three coefficients (c0, c1, c2) of
// q(X) = sum_i [ mult_i(X) * v_i(X) + add_i(X) ], the univariate sumcheck
// polynomial for one round, from the current bookkeeping arrays.
func quadraticCoeffs(mult, add, v []linPoly) (c0, c1, c2 field.Element) {
	c0, c1, c2 = field.Zero, field.Zero, field.Zero
	for i := range mult {
		m, a, vv := mult[i], add[i], v[i]
		c2 = c2.Add(m.A.Mul(vv.A))
		c1 = c1.Add(m.A.Mul(vv.B).Add(m.B.Mul(vv.A)).Add(a.A))
		c0 = c0.Add(m.B.Mul(vv.B).Add(a.B))
	}
	return
}
