package circuitio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/field"
)

func TestParseCircuitSynthesizesLayerZero(t *testing.T) {
	text := `1
2 0 0 0 1
1 1 0 1
`
	c, err := ParseCircuit(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, c.Layers, 2)

	require.Equal(t, circuit.Add, c.Layers[0].Gates[0].Type)
	require.Equal(t, circuit.Mul, c.Layers[0].Gates[1].Type)

	require.Equal(t, circuit.InternalRelay, c.Layers[1].Gates[0].Type)
	require.Equal(t, circuit.InternalRelay, c.Layers[1].Gates[1].Type)
	require.Equal(t, 0, c.Layers[1].Gates[0].U)
	require.Equal(t, 1, c.Layers[1].Gates[1].U)
}

func TestParseCircuitDegenerateSingleGatePadding(t *testing.T) {
	text := `1
1 0 0 0 0
`
	c, err := ParseCircuit(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, c.Layers[0].Gates, 2)
	require.Len(t, c.Layers[1].Gates, 2)
	require.Equal(t, circuit.Dummy, c.Layers[0].Gates[1].Type)
}

func TestParseCircuitRejectsNonConsecutiveGateIndex(t *testing.T) {
	text := `1
2 0 0 1
2 5 0 1
`
	_, err := ParseCircuit(strings.NewReader(text))
	require.Error(t, err)
}

func TestParseMetaAppliesParallelism(t *testing.T) {
	text := `1
2 0 0 0 1
1 1 0 1
`
	c, err := ParseCircuit(strings.NewReader(text))
	require.NoError(t, err)

	metaText := "1 2 4 1 2\n"
	err = ParseMeta(strings.NewReader(metaText), c)
	require.NoError(t, err)

	require.False(t, c.Layers[0].IsParallel)
	require.True(t, c.Layers[1].IsParallel)
	require.Equal(t, 2, c.Layers[1].BlockSize)
	require.Equal(t, 4, c.Layers[1].RepeatNum)
}

func TestParseMetaRejectsRepeatNumMismatch(t *testing.T) {
	text := `1
2 0 0 0 1
1 1 0 1
`
	c, err := ParseCircuit(strings.NewReader(text))
	require.NoError(t, err)

	metaText := "1 2 3 1 2\n"
	err = ParseMeta(strings.NewReader(metaText), c)
	require.Error(t, err)
}

func TestParseInput(t *testing.T) {
	vals, err := ParseInput(strings.NewReader("3 5 7\n9"))
	require.NoError(t, err)
	require.Len(t, vals, 4)
	require.True(t, vals[0].Equal(field.FromReal(3)))
	require.True(t, vals[3].Equal(field.FromReal(9)))
}
