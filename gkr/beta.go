package gkr

import "github.com/MuriData/gkr-fri/field"

// BetaTable is the multilinear extension of the equality function beta(r,x)
// = prod_i (r_i x_i + (1-r_i)(1-x_i)), materialized over the full hypercube
// of len(r) bits. Built by doubling: the per-bit expansion keeps the whole
// construction at O(2^len(r)) multiplications.
type BetaTable struct {
	values []field.Element
}

// NewBetaTable builds the table for point r (len(r) bits, 2^len(r) entries).
func NewBetaTable(r []field.Element) *BetaTable {
	table := []field.Element{field.One}
	for _, ri := range r {
		half := len(table)
		next := make([]field.Element, half*2)
		oneMinus := field.One.Sub(ri)
		for i, v := range table {
			next[i] = v.Mul(oneMinus)
			next[i+half] = v.Mul(ri)
		}
		table = next
	}
	return &BetaTable{values: table}
}

// At returns beta(r, idx) for idx in [0, 2^len(r)), idx's bits read
// little-endian matching the doubling construction above (bit 0 selects the
// first coordinate of r).
func (b *BetaTable) At(idx int) field.Element {
	if idx < 0 || idx >= len(b.values) {
		return field.Zero
	}
	return b.values[idx]
}

// eqAt evaluates beta(r, idx) directly without materializing a table,
// useful when idx ranges sparsely (gate operand lookups) rather than over
// the whole hypercube.
func eqAt(r []field.Element, idx int) field.Element {
	result := field.One
	for i, ri := range r {
		bit := (idx >> uint(i)) & 1
		if bit == 1 {
			result = result.Mul(ri)
		} else {
			result = result.Mul(field.One.Sub(ri))
		}
	}
	return result
}
