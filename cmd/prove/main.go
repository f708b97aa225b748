// Command prove reads a layered circuit, its parallelism metadata, and an
// input witness, produces a GKR + FRI proof of correct evaluation, verifies
// it, and reports timings and proof size on a single output line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/circuitio"
	"github.com/MuriData/gkr-fri/fft"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/fri"
	"github.com/MuriData/gkr-fri/gkr"
	"github.com/MuriData/gkr-fri/polycommit"
	"github.com/MuriData/gkr-fri/transcript"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: prove <circuit_path> <meta_path> <input_path> <output_path>")
		os.Exit(1)
	}

	circuitPath, metaPath, inputPath, outputPath := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	c, err := loadCircuit(circuitPath, metaPath)
	if err != nil {
		log.Error().Err(err).Msg("loading circuit")
		os.Exit(1)
	}

	input, err := loadInput(inputPath)
	if err != nil {
		log.Error().Err(err).Msg("loading input")
		os.Exit(1)
	}

	line, ok := run(c, input)
	if !ok {
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, []byte(line+"\n"), 0o644); err != nil {
		log.Error().Err(err).Msg("writing output")
		os.Exit(1)
	}
}

func loadCircuit(circuitPath, metaPath string) (*circuit.Circuit, error) {
	cf, err := os.Open(circuitPath)
	if err != nil {
		return nil, err
	}
	defer cf.Close()

	c, err := circuitio.ParseCircuit(cf)
	if err != nil {
		return nil, err
	}

	mf, err := os.Open(metaPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	if err := circuitio.ParseMeta(mf, c); err != nil {
		return nil, err
	}
	return c, nil
}

func loadInput(inputPath string) ([]field.Element, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return circuitio.ParseInput(f)
}

// run drives the full prove/commit/verify pipeline and returns the CLI's
// single report line plus whether verification succeeded.
func run(c *circuit.Circuit, input []field.Element) (string, bool) {
	log.Info().Int("depth", c.Depth()).Msg("evaluating circuit and running GKR sumcheck")

	proof, witness, proveStats, err := gkr.Prove(c, input)
	if err != nil {
		log.Error().Err(err).Msg("gkr prove failed")
		return "", false
	}

	witness = padWitness(witness)
	sliceRealEleCnt := len(witness) / polycommit.SliceNumber
	sliceSize := sliceRealEleCnt << polycommit.RSCodeRate

	domain, err := fft.NewDomain(sliceSize)
	if err != nil {
		log.Error().Err(err).Msg("building FFT domain for witness commitment")
		return "", false
	}
	enc := polycommit.NewFFTEncoder(domain)

	log.Info().Int("witness_len", len(witness)).Msg("committing witness polynomial")
	commitment, polyWitness, err := polycommit.Commit(witness, enc)
	if err != nil {
		log.Error().Err(err).Msg("polycommit commit failed")
		return "", false
	}

	proverFRITr := transcript.New()
	friProof, err := fri.Prove(proverFRITr, firstNonZeroCodeword(polyWitness.Codewords))
	if err != nil {
		log.Error().Err(err).Msg("fri prove failed")
		return "", false
	}

	log.Info().Msg("verifying proof")
	_, _, verifyStats, err := gkr.Verify(c, proof)
	if err != nil {
		log.Error().Err(err).Msg("gkr verify rejected the proof")
		return "", false
	}

	verifierFRITr := transcript.New()
	if err := fri.Verify(verifierFRITr, commitment.Root, friProof); err != nil {
		log.Error().Err(err).Msg("fri verify rejected the commitment")
		return "", false
	}

	proofSize := gkrProofSize(proof) + 32 + fri.ProofSize(friProof)

	line := fmt.Sprintf("%d %d %d %d %d",
		proveStats.TotalProveTime.Nanoseconds(),
		verifyStats.VerificationTime.Nanoseconds(),
		verifyStats.PredicatesCalcTime.Nanoseconds(),
		verifyStats.VerificationRDLTime.Nanoseconds(),
		proofSize,
	)
	return line, true
}

// padWitness rounds a witness up to the smallest length that is both a
// multiple of polycommit.SliceNumber and has a power-of-two slice length,
// zero-filling the extra positions.
func padWitness(w []field.Element) []field.Element {
	n := len(w)
	sliceCount := polycommit.SliceNumber
	perSlice := 1
	for perSlice*sliceCount < n {
		perSlice <<= 1
	}
	if perSlice == 0 {
		perSlice = 1
	}
	target := perSlice * sliceCount
	if target == n {
		return w
	}
	out := make([]field.Element, target)
	copy(out, w)
	return out
}

func firstNonZeroCodeword(codewords [][]field.Element) []field.Element {
	for _, cw := range codewords {
		for _, v := range cw {
			if !v.IsZero() {
				return cw
			}
		}
	}
	return codewords[0]
}

// gkrProofSize estimates the serialized size of a gkr.Proof: every field
// element is 16 bytes (two 8-byte limbs), matching field.Element.Bytes.
func gkrProofSize(proof *gkr.Proof) int {
	const elemSize = 16
	total := len(proof.Output) * elemSize
	for _, lp := range proof.Layers {
		total += len(lp.Phase1) * 3 * elemSize
		total += len(lp.Phase2) * 3 * elemSize
		total += 2 * elemSize
	}
	total += len(proof.FinalPoint) * elemSize
	total += elemSize
	return total
}
