package polycommit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/fft"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/fri"
	"github.com/MuriData/gkr-fri/hash"
	"github.com/MuriData/gkr-fri/linearcode"
	"github.com/MuriData/gkr-fri/transcript"
)

func TestCommitProducesCorrectShapeCodewords(t *testing.T) {
	domain, err := fft.NewDomain(512)
	require.NoError(t, err)
	enc := NewFFTEncoder(domain)

	witness := make([]field.Element, 256)
	for i := range witness {
		witness[i] = field.FromReal(uint64(i + 1))
	}

	commitment, wit, err := Commit(witness, enc)
	require.NoError(t, err)
	require.Len(t, wit.Codewords, SliceNumber)
	for _, cw := range wit.Codewords {
		require.Len(t, cw, wit.SliceSize)
	}
	require.False(t, commitment.Root.Equal(hash.Digest{}))
}

func TestCommitShortCircuitsAllZeroSlice(t *testing.T) {
	domain, err := fft.NewDomain(512)
	require.NoError(t, err)
	enc := NewFFTEncoder(domain)

	witness := make([]field.Element, 256)
	for i := 4; i < len(witness); i++ {
		witness[i] = field.FromReal(uint64(i + 1))
	}

	_, wit, err := Commit(witness, enc)
	require.NoError(t, err)
	for _, v := range wit.Codewords[0] {
		require.True(t, v.IsZero())
	}
}

func TestCommitRejectsNonMultipleOfSliceNumber(t *testing.T) {
	_, _, err := Commit(make([]field.Element, 10), nil)
	require.Error(t, err)
}

// TestCommittedCodewordPassesFRI checks that a single slice's codeword, as
// produced by Commit, is itself a valid low-degree test input for fri: the
// two packages must agree on what a "codeword" looks like.
func TestCommittedCodewordPassesFRI(t *testing.T) {
	domain, err := fft.NewDomain(512)
	require.NoError(t, err)
	enc := NewFFTEncoder(domain)

	witness := make([]field.Element, 256)
	for i := range witness {
		witness[i] = field.FromReal(uint64(2*i + 1))
	}

	_, wit, err := Commit(witness, enc)
	require.NoError(t, err)

	codeword := wit.Codewords[0]
	proverTr := transcript.New()
	proof, err := fri.Prove(proverTr, codeword)
	require.NoError(t, err)

	verifierTr := transcript.New()
	require.NoError(t, fri.Verify(verifierTr, proof.InitialRoot, proof))
}

// TestCommitAcceptsExpanderEncoder checks that Commit's Encoder interface is
// genuinely pluggable: swapping in linearcode's expander-graph encoder for
// the default FFT encoder produces a valid commitment with no FFT involved.
func TestCommitAcceptsExpanderEncoder(t *testing.T) {
	sliceRealEleCnt := 64
	witness := make([]field.Element, sliceRealEleCnt*SliceNumber)
	for i := range witness {
		witness[i] = field.FromReal(uint64(i + 1))
	}

	enc, err := linearcode.NewExpanderEncoder(sliceRealEleCnt, 99)
	require.NoError(t, err)

	commitment, wit, err := Commit(witness, enc)
	require.NoError(t, err)
	require.Equal(t, enc.OutputLen(), wit.SliceSize)
	require.False(t, commitment.Root.Equal(hash.Digest{}))
}
