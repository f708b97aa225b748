// Package field implements arithmetic over F_p^2 where p = 2^61 - 1, the
// Mersenne prime used throughout the GKR sumcheck and the Reed-Solomon/FRI
// polynomial commitment. Every operation keeps both components reduced to
// [0, p) so that equality can be checked by plain struct comparison.
package field

import (
	"fmt"
	"math/rand"
)

// Mod is the Mersenne prime p = 2^61 - 1.
const Mod uint64 = (1 << 61) - 1

// MaxOrder is the smallest log-order GetRootOfUnity rejects: the
// multiplicative group of F_p^2 has order p^2-1 = (2^61 - 2) * 2^61, whose
// 2-adic valuation is 62, and the hardcoded generator below has order 2^62;
// log orders up to (but excluding) 62 are supported.
const MaxOrder = 62

// Element is a+b*i with a, b reduced mod p.
type Element struct {
	Real uint64
	Img  uint64
}

// Zero is the additive identity.
var Zero = Element{}

// One is the multiplicative identity.
var One = Element{Real: 1}

// FromReal lifts a u64 into F_p^2 as a purely real element.
func FromReal(real uint64) Element {
	return Element{Real: real % Mod}
}

// FromImg lifts a u64 into F_p^2 as a purely imaginary element.
func FromImg(img uint64) Element {
	return Element{Img: img % Mod}
}

// NewRandom draws a uniformly random element of F_p^2 from r.
func NewRandom(r *rand.Rand) Element {
	return Element{Real: r.Uint64() % Mod, Img: r.Uint64() % Mod}
}

// reduceOnce brings a sum of two values already < 2p back into [0, p).
// Exploits the Mersenne form: x mod p == (x >> 61) + (x & p) needs at most
// one extra subtraction since the inputs are bounded by 2p.
func reduceOnce(x uint64) uint64 {
	x = (x >> 61) + (x & Mod)
	if x >= Mod {
		x -= Mod
	}
	return x
}

// mulMod computes x*y mod p for x, y < p using the Mersenne shift-and-add
// trick: the 128-bit product's high/low 61-bit halves sum to the same
// residue mod p, so no division is ever needed.
func mulMod(x, y uint64) uint64 {
	hi, lo := bitsMul64(x, y)
	// (hi << 3) | (lo >> 61)  reconstructs the bits above position 61.
	t := (hi << 3) | (lo >> 61)
	t += lo & Mod
	return reduceOnce(t)
}

// bitsMul64 returns the 128-bit product of x and y as (hi, lo).
func bitsMul64(x, y uint64) (hi, lo uint64) {
	const mask32 = (1 << 32) - 1
	x0, x1 := x&mask32, x>>32
	y0, y1 := y&mask32, y>>32

	w0 := x0 * y0
	t := x1*y0 + w0>>32
	w1 := t & mask32
	w2 := t >> 32

	w1 += x0 * y1
	lo = (w1 << 32) | (w0 & mask32)
	hi = x1*y1 + w2 + w1>>32
	return hi, lo
}

// Add returns a+b component-wise.
func (a Element) Add(b Element) Element {
	return Element{
		Real: reduceOnce(a.Real + b.Real),
		Img:  reduceOnce(a.Img + b.Img),
	}
}

// Sub returns a-b component-wise.
func (a Element) Sub(b Element) Element {
	return Element{
		Real: reduceOnce(a.Real + (Mod - b.Real)),
		Img:  reduceOnce(a.Img + (Mod - b.Img)),
	}
}

// Neg returns -a.
func (a Element) Neg() Element {
	return Element{
		Real: (Mod - a.Real) % Mod,
		Img:  (Mod - a.Img) % Mod,
	}
}

// Mul returns a*b following the Gaussian-integer rule
// (a+bi)(c+di) = (ac-bd) + (ad+bc)i.
func (a Element) Mul(b Element) Element {
	ac := mulMod(a.Real, b.Real)
	bd := mulMod(a.Img, b.Img)
	ad := mulMod(a.Real, b.Img)
	bc := mulMod(a.Img, b.Real)

	real := reduceOnce(ac + (Mod - bd))
	img := reduceOnce(ad + bc)
	return Element{Real: real, Img: img}
}

// Equal reports whether a and b represent the same field element.
func (a Element) Equal(b Element) bool {
	return a.Real == b.Real && a.Img == b.Img
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool {
	return a.Real == 0 && a.Img == 0
}

// Pow computes a^e by square-and-multiply.
func (a Element) Pow(e uint64) Element {
	result := One
	base := a
	for e != 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Inverse returns a^-1 via Fermat's little theorem generalized to F_p^2:
// a^(p^2-2) = a^-1 for a != 0. Implemented with a 122-bit square-and-multiply
// ladder since p^2-2 overflows a single uint64.
func (a Element) Inverse() (Element, error) {
	if a.IsZero() {
		return Element{}, fmt.Errorf("field: inverse of zero element")
	}

	// p^2 - 2 split into high/low 64-bit halves of the 122-bit exponent.
	// p = 2^61-1 so p^2 = 2^122 - 2^62 + 1, and p^2-2 = 2^122 - 2^62 - 1.
	hi, lo := pSquaredMinusTwo()

	result := One
	base := a
	for i := 0; i < 64; i++ {
		if lo&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		lo >>= 1
	}
	for i := 0; i < 64; i++ {
		if hi&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		hi >>= 1
	}
	return result, nil
}

// pSquaredMinusTwo returns p^2-2 as (hi, lo) 64-bit halves of a 128-bit value
// (the true exponent only needs 122 bits, the remaining high bits are zero).
func pSquaredMinusTwo() (hi, lo uint64) {
	phi, plo := bitsMul64(Mod, Mod)
	// subtract 2 from the 128-bit (phi, plo) pair.
	if plo >= 2 {
		plo -= 2
	} else {
		plo = plo + (^uint64(0) - 1)
		phi--
	}
	return phi, plo
}

// rootGenerator is a field element of multiplicative order 2^62, from which
// every lower-order root of unity is derived by repeated squaring.
var rootGenerator = Element{Real: 2147483648, Img: 1033321771269002680 % Mod}

// GetRootOfUnity returns omega such that omega^(2^logOrder) = 1 and
// omega^(2^(logOrder-1)) != 1, i.e. a primitive 2^logOrder-th root of unity.
func GetRootOfUnity(logOrder int) (Element, error) {
	if logOrder >= MaxOrder {
		return Element{}, fmt.Errorf("field: root of unity of order 2^%d exceeds max order %d", logOrder, MaxOrder)
	}
	if logOrder < 0 {
		return Element{}, fmt.Errorf("field: negative log order %d", logOrder)
	}

	rou := rootGenerator
	for i := 0; i < MaxOrder-logOrder; i++ {
		rou = rou.Mul(rou)
	}
	return rou, nil
}

// String renders a+bi for debugging.
func (a Element) String() string {
	return fmt.Sprintf("%d+%di", a.Real, a.Img)
}

// Bytes encodes the element as two big-endian 8-byte halves (Real then Img),
// used by the transcript and Merkle-leaf encodings.
func (a Element) Bytes() [16]byte {
	var out [16]byte
	putUint64(out[0:8], a.Real)
	putUint64(out[8:16], a.Img)
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
