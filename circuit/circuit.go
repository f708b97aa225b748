// Package circuit defines the layered arithmetic circuit data model — the
// gate catalogue, per-layer parallelism metadata, and plain evaluation — that
// both the prover and the verifier consume to run the GKR sumcheck.
package circuit

import (
	"fmt"

	"github.com/MuriData/gkr-fri/field"
)

// GateType tags the operation a Gate performs, read off the wire exactly as
// the circuit file encodes it (the numbering has a gap at 11, inherited from
// the source this catalogue is grounded on).
type GateType int

const (
	Add              GateType = 0
	Mul              GateType = 1
	Dummy            GateType = 2
	Input            GateType = 3
	InternalRelay    GateType = 4
	SumRange         GateType = 5 // sum over [u, v)
	Not              GateType = 6
	Sub              GateType = 7
	Xor              GateType = 8
	NAAB             GateType = 9 // v*(1-u)
	Relay            GateType = 10
	ExpSum           GateType = 12 // sum over [u, v] with doubling weight
	BitTest          GateType = 13 // u*(1-v)
	CustomLinearComb GateType = 14
)

// Gate is one node of a layer: an operation tag, two operand indices into the
// previous layer, and (for CustomLinearComb only) an arbitrary-width weighted
// sum over named source indices.
type Gate struct {
	Type             GateType
	U, V             int
	Src              []int
	Weight           []field.Element
	ParameterLength  int
}

// NewDummyGate returns a zero-valued padding gate (type Dummy, u=v=0).
func NewDummyGate() Gate {
	return Gate{Type: Dummy}
}

// Layer holds one level of the circuit: a power-of-two-length gate slice,
// its bit length, and block/repeat metadata describing how it is replicated
// when is_parallel is set.
type Layer struct {
	Gates         []Gate
	BitLength     int
	IsParallel    bool
	BlockSize     int
	LogBlockSize  int
	RepeatNum     int
	LogRepeatNum  int
}

// Circuit is the ordered sequence of layers, layer 0 being the input layer.
type Circuit struct {
	Layers     []Layer
	TotalDepth int
}

// Depth reports the number of layers, including the input layer.
func (c *Circuit) Depth() int {
	return len(c.Layers)
}

// Evaluate runs the circuit forward over the supplied input witness (layer
// 0's values) and returns every layer's value vector, layer 0 first. Gate
// semantics below follow §3/§4.4 exactly, including the sum-range asymmetry:
// SumRange iterates [u, v) while ExpSum iterates [u, v] with a doubling
// per-step weight.
func (c *Circuit) Evaluate(input []field.Element) ([][]field.Element, error) {
	if len(c.Layers) == 0 {
		return nil, fmt.Errorf("circuit: no layers")
	}

	layer0 := c.Layers[0]
	values := make([][]field.Element, len(c.Layers))
	v0 := make([]field.Element, len(layer0.Gates))
	for i, g := range layer0.Gates {
		switch g.Type {
		case Input:
			if g.U < len(input) {
				v0[i] = input[g.U]
			}
		case Dummy:
			v0[i] = field.Zero
		default:
			return nil, fmt.Errorf("circuit: layer 0 gate %d has unsupported type %d", i, g.Type)
		}
	}
	values[0] = v0

	for l := 1; l < len(c.Layers); l++ {
		layer := c.Layers[l]
		prev := values[l-1]
		cur := make([]field.Element, len(layer.Gates))

		for i, g := range layer.Gates {
			val, err := evalGate(g, prev)
			if err != nil {
				return nil, fmt.Errorf("circuit: layer %d gate %d: %w", l, i, err)
			}
			cur[i] = val
		}
		values[l] = cur
	}

	return values, nil
}

func evalGate(g Gate, prev []field.Element) (field.Element, error) {
	one := field.One
	get := func(idx int) field.Element {
		if idx < 0 || idx >= len(prev) {
			return field.Zero
		}
		return prev[idx]
	}

	switch g.Type {
	case Add:
		return get(g.U).Add(get(g.V)), nil
	case Mul:
		return get(g.U).Mul(get(g.V)), nil
	case Dummy:
		return field.Zero, nil
	case InternalRelay:
		return get(g.U), nil
	case SumRange:
		sum := field.Zero
		for k := g.U; k < g.V; k++ {
			sum = sum.Add(get(k))
		}
		return sum, nil
	case Not:
		return one.Sub(get(g.U)), nil
	case Sub:
		return get(g.U).Sub(get(g.V)), nil
	case Xor:
		u, v := get(g.U), get(g.V)
		return u.Add(v).Sub(u.Mul(v).Mul(field.FromReal(2))), nil
	case NAAB:
		u, v := get(g.U), get(g.V)
		return v.Mul(one.Sub(u)), nil
	case Relay:
		return get(g.U), nil
	case ExpSum:
		sum := field.Zero
		weight := field.One
		for k := g.U; k <= g.V; k++ {
			sum = sum.Add(get(k).Mul(weight))
			weight = weight.Add(weight)
		}
		return sum, nil
	case BitTest:
		u, v := get(g.U), get(g.V)
		return u.Mul(one.Sub(v)), nil
	case CustomLinearComb:
		sum := field.Zero
		for i, s := range g.Src {
			if i >= len(g.Weight) {
				break
			}
			sum = sum.Add(get(s).Mul(g.Weight[i]))
		}
		return sum, nil
	default:
		return field.Zero, fmt.Errorf("unknown gate type %d", g.Type)
	}
}
