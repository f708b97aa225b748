package gkr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/field"
)

func addMulCircuit() *circuit.Circuit {
	return &circuit.Circuit{
		Layers: []circuit.Layer{
			{Gates: []circuit.Gate{
				{Type: circuit.Input, U: 0},
				{Type: circuit.Input, U: 1},
			}},
			{Gates: []circuit.Gate{
				{Type: circuit.Add, U: 0, V: 1},
				{Type: circuit.Mul, U: 0, V: 1},
			}},
		},
	}
}

func xorCircuit() *circuit.Circuit {
	gates0 := make([]circuit.Gate, 16)
	for i := range gates0 {
		gates0[i] = circuit.Gate{Type: circuit.Input, U: i}
	}
	gates1 := make([]circuit.Gate, 8)
	for i := range gates1 {
		gates1[i] = circuit.Gate{Type: circuit.Xor, U: i, V: 8 + i}
	}
	return &circuit.Circuit{Layers: []circuit.Layer{{Gates: gates0}, {Gates: gates1}}}
}

func bitsOf(n uint8) []field.Element {
	out := make([]field.Element, 8)
	for i := 0; i < 8; i++ {
		out[i] = field.FromReal(uint64((n >> uint(i)) & 1))
	}
	return out
}

func TestProveVerifyAddMulSoundness(t *testing.T) {
	c := addMulCircuit()
	input := []field.Element{field.FromReal(3), field.FromReal(5)}

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)
	require.True(t, proof.Output[0].Equal(field.FromReal(8)))
	require.True(t, proof.Output[1].Equal(field.FromReal(15)))

	_, _, _, err = Verify(c, proof)
	require.NoError(t, err)
}

func TestProveVerifyXorCompleteness(t *testing.T) {
	c := xorCircuit()
	a, b := uint8(0b10110010), uint8(0b01010110)
	input := append(bitsOf(a), bitsOf(b)...)

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)

	want := a ^ b
	for i := 0; i < 8; i++ {
		bit := (want >> uint(i)) & 1
		require.True(t, proof.Output[i].Equal(field.FromReal(uint64(bit))), "bit %d", i)
	}

	_, _, _, err = Verify(c, proof)
	require.NoError(t, err)
}

func TestVerifyRejectsTamperedOutput(t *testing.T) {
	c := addMulCircuit()
	input := []field.Element{field.FromReal(3), field.FromReal(5)}

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)

	proof.Output[0] = proof.Output[0].Add(field.One)

	_, _, _, err = Verify(c, proof)
	require.Error(t, err)
}

func TestVerifyRejectsTamperedRoundPoly(t *testing.T) {
	c := xorCircuit()
	a, b := uint8(0xAB), uint8(0x3C)
	input := append(bitsOf(a), bitsOf(b)...)

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Layers[0].Phase1)

	proof.Layers[0].Phase1[0].C0 = proof.Layers[0].Phase1[0].C0.Add(field.One)

	_, _, _, err = Verify(c, proof)
	require.Error(t, err)
}

// threeLayerCircuit has two non-input layers, so Prove/Verify must descend
// the random-linear-combination reduction past its first iteration instead
// of exiting on the l==1 break immediately.
func threeLayerCircuit() *circuit.Circuit {
	return &circuit.Circuit{
		Layers: []circuit.Layer{
			{Gates: []circuit.Gate{
				{Type: circuit.Input, U: 0},
				{Type: circuit.Input, U: 1},
				{Type: circuit.Input, U: 2},
				{Type: circuit.Input, U: 3},
			}},
			{Gates: []circuit.Gate{
				{Type: circuit.Add, U: 0, V: 1},
				{Type: circuit.Mul, U: 2, V: 3},
			}},
			{Gates: []circuit.Gate{
				{Type: circuit.Add, U: 0, V: 1},
				{Type: circuit.Mul, U: 0, V: 1},
			}},
		},
	}
}

func TestProveVerifyThreeLayerDescent(t *testing.T) {
	c := threeLayerCircuit()
	input := []field.Element{field.FromReal(3), field.FromReal(5), field.FromReal(2), field.FromReal(7)}

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)
	require.Len(t, proof.Layers, 2)

	// layer1 = [3+5, 2*7] = [8, 14]; layer2 = [8+14, 8*14] = [22, 112]
	require.True(t, proof.Output[0].Equal(field.FromReal(22)))
	require.True(t, proof.Output[1].Equal(field.FromReal(112)))

	_, _, _, err = Verify(c, proof)
	require.NoError(t, err)
}

func TestVerifyRejectsTamperedSecondLayerRoundPoly(t *testing.T) {
	c := threeLayerCircuit()
	input := []field.Element{field.FromReal(3), field.FromReal(5), field.FromReal(2), field.FromReal(7)}

	proof, _, _, err := Prove(c, input)
	require.NoError(t, err)
	require.Len(t, proof.Layers, 2)
	require.NotEmpty(t, proof.Layers[1].Phase1)

	// proof.Layers[1] is the deeper (l==1) layer, only reached once the
	// descent has survived its first (l==2) round-trip through a new
	// alpha/beta random-linear-combination challenge.
	proof.Layers[1].Phase1[0].C0 = proof.Layers[1].Phase1[0].C0.Add(field.One)

	_, _, _, err = Verify(c, proof)
	require.Error(t, err)
}

func TestBetaTableMatchesEqAt(t *testing.T) {
	r := []field.Element{field.FromReal(2), field.FromReal(9), field.FromReal(4)}
	table := NewBetaTable(r)
	for idx := 0; idx < 8; idx++ {
		require.True(t, table.At(idx).Equal(eqAt(r, idx)), "idx %d", idx)
	}
}
