// Package hash implements the fixed-width 256-bit sponge used across the
// Merkle tree and the FRI commit phase: it consumes exactly two digests (64
// bytes) and produces one, so that every internal node and every Fiat-Shamir
// binding step runs through the same primitive.
package hash

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Digest is a 256-bit value held as two big-endian 128-bit halves, matching
// the two-limb layout the rest of the system serializes it as.
type Digest struct {
	Hi [2]uint64
	Lo [2]uint64
}

// Zero returns the all-zero digest; Merkle trees are padded up to a power of
// two with Hash(Zero(), Zero()).
func Zero() Digest {
	return Digest{}
}

// Bytes serializes the digest to 32 big-endian bytes.
func (d Digest) Bytes() [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[0:8], d.Hi[0])
	binary.BigEndian.PutUint64(out[8:16], d.Hi[1])
	binary.BigEndian.PutUint64(out[16:24], d.Lo[0])
	binary.BigEndian.PutUint64(out[24:32], d.Lo[1])
	return out
}

// FromBytes reconstructs a digest from its 32-byte big-endian encoding.
func FromBytes(b [32]byte) Digest {
	return Digest{
		Hi: [2]uint64{binary.BigEndian.Uint64(b[0:8]), binary.BigEndian.Uint64(b[8:16])},
		Lo: [2]uint64{binary.BigEndian.Uint64(b[16:24]), binary.BigEndian.Uint64(b[24:32])},
	}
}

// Equal reports whether two digests hold the same bits.
func (d Digest) Equal(other Digest) bool {
	return d.Hi == other.Hi && d.Lo == other.Lo
}

// Hash combines two digests into one via SHA3-256 over their 64-byte
// concatenation, implementers may swap in any fixed, collision-resistant
// 256-bit hash as long as both prover and verifier agree on it.
func Hash(a, b Digest) Digest {
	h := sha3.New256()

	ab := a.Bytes()
	bb := b.Bytes()
	h.Write(ab[:])
	h.Write(bb[:])

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return FromBytes(sum)
}

// HashBytes hashes an arbitrary byte slice down to a digest, used for
// leaf encodings that are not themselves pairs of digests (e.g. a codeword
// value pair in the FRI commit phase).
func HashBytes(data []byte) Digest {
	h := sha3.New256()
	h.Write(data)
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return FromBytes(sum)
}
