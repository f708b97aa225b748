// Package circuitio parses the text file formats that hand a layered
// circuit, its parallelism metadata, and an input witness to the prover —
// the external interfaces spec.md places out of the core's scope.
package circuitio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MuriData/gkr-fri/circuit"
	"github.com/MuriData/gkr-fri/field"
	"github.com/MuriData/gkr-fri/zkerr"
)

// ParseCircuit reads the circuit text format: a line with the non-input
// layer count D, followed for each layer by a gate-count line and that many
// (type g u v) tuples. Layer 1's gates are rewritten to type InternalRelay
// pointing into a synthesized layer 0 that preserves their original (type,
// u, v) — the layer-1 synthesis spec.md §6 requires.
func ParseCircuit(r io.Reader) (*circuit.Circuit, error) {
	sc := newTokenScanner(r)

	d, err := sc.nextInt()
	if err != nil {
		return nil, zkerr.NewParseError("circuit: reading layer count", err)
	}
	if d < 1 {
		return nil, zkerr.NewParseError("circuit: layer count must be >= 1", nil)
	}

	rawLayers := make([][]circuit.Gate, d+1)

	for i := 1; i <= d; i++ {
		n, err := sc.nextInt()
		if err != nil {
			return nil, zkerr.NewParseError(fmt.Sprintf("circuit: reading gate count for layer %d", i), err)
		}
		if n < 0 {
			return nil, zkerr.NewParseError(fmt.Sprintf("circuit: negative gate count for layer %d", i), nil)
		}

		gates := make([]circuit.Gate, n)
		for j := 0; j < n; j++ {
			ty, err := sc.nextInt()
			if err != nil {
				return nil, zkerr.NewParseError(fmt.Sprintf("circuit: layer %d gate %d type", i, j), err)
			}
			g, err := sc.nextInt()
			if err != nil {
				return nil, zkerr.NewParseError(fmt.Sprintf("circuit: layer %d gate %d index", i, j), err)
			}
			if g != j {
				return nil, zkerr.NewInvariantViolation(fmt.Sprintf("circuit: layer %d gate index %d is not consecutive (expected %d)", i, g, j), nil)
			}
			u, err := sc.nextInt()
			if err != nil {
				return nil, zkerr.NewParseError(fmt.Sprintf("circuit: layer %d gate %d operand u", i, j), err)
			}
			v, err := sc.nextInt()
			if err != nil {
				return nil, zkerr.NewParseError(fmt.Sprintf("circuit: layer %d gate %d operand v", i, j), err)
			}

			gates[j] = circuit.Gate{Type: circuit.GateType(ty), U: u, V: v}
		}
		rawLayers[i] = gates
	}

	layers := make([]circuit.Layer, d+1)

	if len(rawLayers[1]) == 1 {
		// degenerate padding policy (§9): a single layer-1 gate gets a dummy
		// sibling so both layer 0 and layer 1 keep a power-of-two size.
		rawLayers[1] = append(rawLayers[1], circuit.NewDummyGate())
	}

	layer1 := rawLayers[1]
	synthesizedLayer0 := make([]circuit.Gate, len(layer1))
	relayedLayer1 := make([]circuit.Gate, len(layer1))
	for i, g := range layer1 {
		synthesizedLayer0[i] = g
		relayedLayer1[i] = circuit.Gate{Type: circuit.InternalRelay, U: i}
	}

	layers[0] = circuit.Layer{Gates: synthesizedLayer0, BitLength: bitLength(len(synthesizedLayer0))}
	layers[1] = circuit.Layer{Gates: relayedLayer1, BitLength: bitLength(len(relayedLayer1))}

	for i := 2; i <= d; i++ {
		gates := rawLayers[i]
		if len(gates) == 1 {
			gates = append(gates, circuit.NewDummyGate())
		}
		layers[i] = circuit.Layer{Gates: gates, BitLength: bitLength(len(gates))}
	}

	for i := 1; i <= d; i++ {
		prevLen := len(layers[i-1].Gates)
		for j, g := range layers[i].Gates {
			if g.Type == circuit.Input || g.Type == circuit.Dummy || g.Type == circuit.InternalRelay {
				continue
			}
			if g.U >= prevLen || g.V >= prevLen {
				return nil, zkerr.NewInvariantViolation(
					fmt.Sprintf("circuit: layer %d gate %d operands (%d,%d) exceed previous layer size %d", i, j, g.U, g.V, prevLen), nil)
			}
		}
	}

	return &circuit.Circuit{Layers: layers, TotalDepth: d}, nil
}

// ParseMeta reads the D-line parallelism metadata file, one line per
// non-input layer of the form `is_parallel block_size repeat_num
// log_block_size log_repeat_num`, and applies it to the layers already
// present on c (which must have been populated by ParseCircuit first).
func ParseMeta(r io.Reader, c *circuit.Circuit) error {
	sc := newTokenScanner(r)

	for i := 1; i < len(c.Layers); i++ {
		isParallel, err := sc.nextInt()
		if err != nil {
			return zkerr.NewParseError(fmt.Sprintf("meta: layer %d is_parallel", i), err)
		}
		blockSize, err := sc.nextInt()
		if err != nil {
			return zkerr.NewParseError(fmt.Sprintf("meta: layer %d block_size", i), err)
		}
		repeatNum, err := sc.nextInt()
		if err != nil {
			return zkerr.NewParseError(fmt.Sprintf("meta: layer %d repeat_num", i), err)
		}
		logBlockSize, err := sc.nextInt()
		if err != nil {
			return zkerr.NewParseError(fmt.Sprintf("meta: layer %d log_block_size", i), err)
		}
		logRepeatNum, err := sc.nextInt()
		if err != nil {
			return zkerr.NewParseError(fmt.Sprintf("meta: layer %d log_repeat_num", i), err)
		}

		if isParallel != 0 && repeatNum != 1<<uint(logRepeatNum) {
			return zkerr.NewInvariantViolation(
				fmt.Sprintf("meta: layer %d repeat_num %d != 2^log_repeat_num (%d)", i, repeatNum, 1<<uint(logRepeatNum)), nil)
		}

		layer := c.Layers[i]
		layer.IsParallel = isParallel != 0
		layer.BlockSize = blockSize
		layer.RepeatNum = repeatNum
		layer.LogBlockSize = logBlockSize
		layer.LogRepeatNum = logRepeatNum
		c.Layers[i] = layer
	}

	return nil
}

// ParseInput reads the witness vector: whitespace-separated decimal
// integers, each lifted into F_p^2 via field.FromReal.
func ParseInput(r io.Reader) ([]field.Element, error) {
	sc := newTokenScanner(r)
	var out []field.Element
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		val, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, zkerr.NewParseError(fmt.Sprintf("input: invalid integer %q", tok), err)
		}
		out = append(out, field.FromReal(val))
	}
	return out, nil
}

func bitLength(n int) int {
	if n <= 1 {
		return 0
	}
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}

// tokenScanner splits whitespace-separated tokens across lines, matching the
// "whitespace-separated" wire grammar without pulling in a generic parser
// library for what is fundamentally a bufio.Scanner split function.
type tokenScanner struct {
	sc *bufio.Scanner
}

func newTokenScanner(r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &tokenScanner{sc: sc}
}

func (t *tokenScanner) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokenScanner) nextInt() (int, error) {
	tok, ok := t.next()
	if !ok {
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, err
	}
	return v, nil
}
