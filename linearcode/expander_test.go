package linearcode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/field"
)

func TestEncodeIsSystematic(t *testing.T) {
	enc, err := NewExpanderEncoder(64, 42)
	require.NoError(t, err)

	message := make([]field.Element, 64)
	for i := range message {
		message[i] = field.FromReal(uint64(i + 1))
	}

	codeword, err := enc.Encode(message)
	require.NoError(t, err)
	require.Len(t, codeword, enc.OutputLen())
	require.GreaterOrEqual(t, len(codeword), len(message))
	for i, v := range message {
		require.True(t, v.Equal(codeword[i]))
	}
}

func TestEncodeIsDeterministicAcrossInstances(t *testing.T) {
	message := make([]field.Element, 64)
	for i := range message {
		message[i] = field.FromReal(uint64(3*i + 2))
	}

	enc1, err := NewExpanderEncoder(64, 7)
	require.NoError(t, err)
	enc2, err := NewExpanderEncoder(64, 7)
	require.NoError(t, err)

	cw1, err := enc1.Encode(message)
	require.NoError(t, err)
	cw2, err := enc2.Encode(message)
	require.NoError(t, err)

	require.Equal(t, len(cw1), len(cw2))
	for i := range cw1 {
		require.True(t, cw1[i].Equal(cw2[i]))
	}
}

func TestEncodeDiffersForDifferentSeeds(t *testing.T) {
	message := make([]field.Element, 64)
	for i := range message {
		message[i] = field.FromReal(uint64(5*i + 11))
	}

	enc1, err := NewExpanderEncoder(64, 1)
	require.NoError(t, err)
	enc2, err := NewExpanderEncoder(64, 2)
	require.NoError(t, err)

	cw1, err := enc1.Encode(message)
	require.NoError(t, err)
	cw2, err := enc2.Encode(message)
	require.NoError(t, err)

	different := false
	for i := range cw1 {
		if !cw1[i].Equal(cw2[i]) {
			different = true
			break
		}
	}
	require.True(t, different)
}

func TestEncodeRejectsWrongMessageLength(t *testing.T) {
	enc, err := NewExpanderEncoder(64, 3)
	require.NoError(t, err)
	_, err = enc.Encode(make([]field.Element, 32))
	require.Error(t, err)
}
