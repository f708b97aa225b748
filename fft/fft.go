// Package fft implements the Reed-Solomon polynomial evaluation/interpolation
// machinery (RSPolynomial in the design): in-place forward and inverse FFTs
// over F_p^2 with precomputed twiddle factors, used to expand each witness
// slice into a Reed-Solomon codeword (FRI folds codewords without it).
package fft

import (
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/MuriData/gkr-fri/field"
)

// Domain precomputes forward and inverse twiddle-factor tables up to a
// maximum order, mirroring the ScratchPad of the original design: every FFT
// or IFFT of order <= maxOrder indexes into the same two tables at a stride
// proportional to maxOrder/order.
type Domain struct {
	maxOrder   int
	twiddle    []field.Element // twiddle[i] = rootMax^i
	invTwiddle []field.Element // invTwiddle[i] = rootMax^-i
}

// NewDomain builds a Domain whose twiddle tables support any order up to and
// including maxOrder (which must be a power of two).
func NewDomain(maxOrder int) (*Domain, error) {
	logMax, ok := log2Exact(maxOrder)
	if !ok {
		return nil, fmt.Errorf("fft: maxOrder %d is not a power of two", maxOrder)
	}

	rootMax, err := field.GetRootOfUnity(logMax)
	if err != nil {
		return nil, fmt.Errorf("fft: %w", err)
	}
	invRootMax, err := rootMax.Inverse()
	if err != nil {
		return nil, fmt.Errorf("fft: %w", err)
	}

	return &Domain{
		maxOrder:   maxOrder,
		twiddle:    powers(rootMax, maxOrder),
		invTwiddle: powers(invRootMax, maxOrder),
	}, nil
}

func powers(base field.Element, n int) []field.Element {
	out := make([]field.Element, n)
	out[0] = field.One
	for i := 1; i < n; i++ {
		out[i] = out[i-1].Mul(base)
	}
	return out
}

func log2Exact(n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	d := 0
	for v := n; v > 1; v >>= 1 {
		d++
	}
	if 1<<d != n {
		return 0, false
	}
	return d, true
}

// FFT evaluates the polynomial with the given coefficients (implicitly
// zero-padded beyond len(coefficients)) at every order-th root of unity:
// result[j] = sum_i coefficients[i] * omega^(i*j) for omega of order `order`.
func (d *Domain) FFT(coefficients []field.Element, order int) ([]field.Element, error) {
	if _, ok := log2Exact(order); !ok {
		return nil, fmt.Errorf("fft: order %d is not a power of two", order)
	}
	if order > d.maxOrder {
		return nil, fmt.Errorf("fft: order %d exceeds domain max order %d", order, d.maxOrder)
	}
	if len(coefficients) > order {
		return nil, fmt.Errorf("fft: %d coefficients exceed evaluation order %d", len(coefficients), order)
	}

	padded := make([]field.Element, order)
	copy(padded, coefficients)
	return d.transform(padded, order, d.twiddle)
}

// IFFT recovers the coefficientLen coefficients of the unique polynomial of
// degree < coefficientLen whose evaluations at the order-th roots of unity
// are `evaluations`. If coefficientLen is smaller than order, it
// sub-samples by stride order/coefficientLen rather than requiring the
// caller to pre-filter (emitting a diagnostic through the standard log
// package, since this discards information the caller may not have
// intended to drop).
func (d *Domain) IFFT(evaluations []field.Element, coefficientLen, order int) ([]field.Element, error) {
	if _, ok := log2Exact(order); !ok {
		return nil, fmt.Errorf("fft: order %d is not a power of two", order)
	}
	if _, ok := log2Exact(coefficientLen); !ok {
		return nil, fmt.Errorf("fft: coefficientLen %d is not a power of two", coefficientLen)
	}
	if coefficientLen > order {
		return nil, fmt.Errorf("fft: coefficientLen %d exceeds order %d", coefficientLen, order)
	}

	var sub []field.Element
	if coefficientLen != order {
		stride := order / coefficientLen
		log.Printf("fft: IFFT sub-sampling %d evaluations at stride %d down to %d coefficients", len(evaluations), stride, coefficientLen)
		sub = make([]field.Element, coefficientLen)
		for i := 0; i < coefficientLen; i++ {
			idx := i * stride
			if idx < len(evaluations) {
				sub[i] = evaluations[idx]
			}
		}
	} else {
		sub = make([]field.Element, coefficientLen)
		copy(sub, evaluations)
	}

	logN, _ := log2Exact(coefficientLen)
	gap := d.maxOrder / coefficientLen
	invTable := make([]field.Element, coefficientLen)
	for i := range invTable {
		invTable[i] = d.invTwiddle[(i*gap)%d.maxOrder]
	}
	_ = logN

	coeffs, err := d.transformWithTable(sub, coefficientLen, invTable)
	if err != nil {
		return nil, err
	}

	invN, err := field.FromReal(uint64(coefficientLen)).Inverse()
	if err != nil {
		return nil, fmt.Errorf("fft: %w", err)
	}
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(invN)
	}
	return coeffs, nil
}

// transform runs the in-place iterative radix-2 Cooley-Tukey butterfly over
// data (length n, a power of two), indexing the domain's full-size twiddle
// table at stride maxOrder/n.
func (d *Domain) transform(data []field.Element, n int, fullTable []field.Element) ([]field.Element, error) {
	gap := d.maxOrder / n
	table := make([]field.Element, n)
	for i := range table {
		table[i] = fullTable[(i*gap)%d.maxOrder]
	}
	return d.transformWithTable(data, n, table)
}

// transformWithTable performs the decimation-in-time FFT of data (length n)
// given a precomputed table of n-th roots of unity (table[i] = root^i).
// Bit-reversal runs sequentially. Parallel region: each stage's outer block
// loop writes to disjoint index ranges, so it is split across goroutines
// bounded by GOMAXPROCS, with a barrier between stages (errgroup.Wait)
// matching the "independent outer blocks, barrier between depths"
// concurrency contract.
func (d *Domain) transformWithTable(data []field.Element, n int, table []field.Element) ([]field.Element, error) {
	if n == 0 {
		return data, nil
	}
	bitReverse(data)

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	logN, _ := log2Exact(n)
	for s := 1; s <= logN; s++ {
		m := 1 << s
		halfM := m / 2
		stride := n / m // number of independent blocks at this stage
		tableGap := n / m

		var eg errgroup.Group
		blocksPerWorker := (stride + workers - 1) / workers
		for w := 0; w < workers; w++ {
			startBlock := w * blocksPerWorker
			endBlock := startBlock + blocksPerWorker
			if endBlock > stride {
				endBlock = stride
			}
			if startBlock >= endBlock {
				continue
			}
			eg.Go(func() error {
				for blk := startBlock; blk < endBlock; blk++ {
					k := blk * m
					for j := 0; j < halfM; j++ {
						w := table[(j*tableGap)%n]
						t := w.Mul(data[k+j+halfM])
						u := data[k+j]
						data[k+j] = u.Add(t)
						data[k+j+halfM] = u.Sub(t)
					}
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// bitReverse permutes data into bit-reversed index order in place.
func bitReverse(data []field.Element) {
	n := len(data)
	logN, _ := log2Exact(n)
	for i := 1; i < n; i++ {
		j := reverseBits(i, logN)
		if j > i {
			data[i], data[j] = data[j], data[i]
		}
	}
}

func reverseBits(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}
