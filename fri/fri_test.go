package fri

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuriData/gkr-fri/fft"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/transcript"
)

func lowDegreeCodeword(t *testing.T, degreeLen, codewordLen int) []field.Element {
	t.Helper()
	domain, err := fft.NewDomain(codewordLen)
	require.NoError(t, err)

	coeffs := make([]field.Element, degreeLen)
	for i := range coeffs {
		coeffs[i] = field.FromReal(uint64(3*i + 7))
	}

	codeword, err := domain.FFT(coeffs, codewordLen)
	require.NoError(t, err)
	return codeword
}

func TestFRIProveVerifyAcceptsValidCodeword(t *testing.T) {
	codeword := lowDegreeCodeword(t, 8, 256)

	proverTr := transcript.New()
	proof, err := Prove(proverTr, codeword)
	require.NoError(t, err)

	verifierTr := transcript.New()
	err = Verify(verifierTr, proof.InitialRoot, proof)
	require.NoError(t, err)

	require.Greater(t, ProofSize(proof), 0)
}

func TestFRIVerifyRejectsPerturbedCodeword(t *testing.T) {
	codeword := lowDegreeCodeword(t, 8, 256)
	codeword[17] = codeword[17].Add(field.One)

	proverTr := transcript.New()
	proof, err := Prove(proverTr, codeword)
	require.NoError(t, err)

	verifierTr := transcript.New()
	err = Verify(verifierTr, proof.InitialRoot, proof)
	require.Error(t, err)
}

func TestFRIVerifyRejectsWrongInitialRoot(t *testing.T) {
	codeword := lowDegreeCodeword(t, 8, 256)

	proverTr := transcript.New()
	proof, err := Prove(proverTr, codeword)
	require.NoError(t, err)

	verifierTr := transcript.New()
	err = Verify(verifierTr, proof.FoldRoots[0], proof)
	require.Error(t, err)
}

func TestFRIVerifyRejectsTamperedQueryValue(t *testing.T) {
	codeword := lowDegreeCodeword(t, 8, 256)

	proverTr := transcript.New()
	proof, err := Prove(proverTr, codeword)
	require.NoError(t, err)

	proof.Queries[0].LevelLow[0] = proof.Queries[0].LevelLow[0].Add(field.One)

	verifierTr := transcript.New()
	err = Verify(verifierTr, proof.InitialRoot, proof)
	require.Error(t, err)
}

func TestFRIProveRejectsNonPowerOfTwoLength(t *testing.T) {
	tr := transcript.New()
	_, err := Prove(tr, make([]field.Element, 100))
	require.Error(t, err)
}
