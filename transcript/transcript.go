// Package transcript realizes the Fiat-Shamir "opaque generate_randomness(k)"
// PRNG spec.md's GKR verifier and FRI commit phase both lean on: every
// challenge is derived by hashing everything bound to the transcript so far,
// turning the otherwise-interactive protocol into one the prover can run
// alone and the verifier can replay.
package transcript

import (
	"fmt"

	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"golang.org/x/crypto/sha3"

	"github.com/MuriData/gkr-fri/field"
)

// label is the single challenge identifier every Transcript binds under;
// the protocol only ever needs one logical challenge stream; distinct
// semantic rounds are separated by binding round-specific data, not by
// distinct labels.
const label = "zk"

// Transcript wraps a gnark-crypto Fiat-Shamir transcript bound to the
// system's own SHA3-256 sponge, and exposes field-element challenges
// directly instead of raw bytes.
type Transcript struct {
	fs *fiatshamir.Transcript
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{fs: fiatshamir.NewTranscript(sha3.New256(), label)}
}

// Bind appends bytes to the running hash state under the transcript's label.
func (t *Transcript) Bind(data []byte) error {
	if err := t.fs.Bind(label, data); err != nil {
		return fmt.Errorf("transcript: bind: %w", err)
	}
	return nil
}

// BindElement binds a single field element's canonical byte encoding.
func (t *Transcript) BindElement(e field.Element) error {
	b := e.Bytes()
	return t.Bind(b[:])
}

// BindElements binds a slice of field elements in order.
func (t *Transcript) BindElements(es []field.Element) error {
	for _, e := range es {
		if err := t.BindElement(e); err != nil {
			return err
		}
	}
	return nil
}

// Challenge draws one field element challenge from everything bound so far,
// then rebinds the drawn value so the next challenge depends on it too.
// gnark-crypto's transcript computes a named challenge only once and refuses
// further bindings to it, so the rebinding starts a fresh transcript whose
// first binding is the raw challenge digest.
func (t *Transcript) Challenge() (field.Element, error) {
	raw, err := t.fs.ComputeChallenge(label)
	if err != nil {
		return field.Element{}, fmt.Errorf("transcript: compute challenge: %w", err)
	}
	t.fs = fiatshamir.NewTranscript(sha3.New256(), label)
	if err := t.fs.Bind(label, raw); err != nil {
		return field.Element{}, fmt.Errorf("transcript: rebind challenge: %w", err)
	}
	return bytesToElement(raw), nil
}

// Challenges draws k independent field element challenges, binding each
// drawn value before deriving the next so the sequence cannot be replayed
// out of order.
func (t *Transcript) Challenges(k int) ([]field.Element, error) {
	out := make([]field.Element, k)
	for i := 0; i < k; i++ {
		c, err := t.Challenge()
		if err != nil {
			return nil, err
		}
		out[i] = c
		if err := t.BindElement(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// bytesToElement reduces an arbitrary-length challenge digest into F_p^2 by
// folding it into two 64-bit halves (real, img): raw is walked in 8-byte
// chunks, alternately XORed into real and img, so every byte of a
// SHA3-256 digest (all 32 bytes, not just the first 16) influences the
// derived challenge before each half is taken mod p via
// field.FromReal/FromImg.
func bytesToElement(raw []byte) field.Element {
	var real, img uint64
	for i := 0; i+8 <= len(raw); i += 8 {
		chunk := beUint64(raw[i : i+8])
		if (i/8)%2 == 0 {
			real ^= chunk
		} else {
			img ^= chunk
		}
	}
	if rem := len(raw) % 8; rem != 0 {
		var chunk uint64
		for _, b := range raw[len(raw)-rem:] {
			chunk = (chunk << 8) | uint64(b)
		}
		if (len(raw)/8)%2 == 0 {
			real ^= chunk
		} else {
			img ^= chunk
		}
	}
	return field.FromReal(real).Add(field.FromImg(img))
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = (v << 8) | uint64(c)
	}
	return v
}
