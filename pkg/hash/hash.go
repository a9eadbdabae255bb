// Package hash implements the hash and identifier primitives shared by every
// other package in this module: BLAKE2b-128/256/512, BLAKE3-256, UUIDv4/v7,
// and the 128-bit key identifier ("Kid") used by certificates and keys.
package hash

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// Kind identifies which hash function produced a HashBytes value. Several
// wire structures (registration chains, block prev-hash fields) admit more
// than one hash function, so the kind travels with the bytes.
type Kind uint8

const (
	KindBlake2b128 Kind = iota
	KindBlake2b256
	KindBlake2b512
	KindBlake3_256
)

func (k Kind) String() string {
	switch k {
	case KindBlake2b128:
		return "blake2b-128"
	case KindBlake2b256:
		return "blake2b-256"
	case KindBlake2b512:
		return "blake2b-512"
	case KindBlake3_256:
		return "blake3-256"
	default:
		return fmt.Sprintf("unknown-hash-kind(%d)", uint8(k))
	}
}

// Size returns the digest length in bytes for the given kind.
func (k Kind) Size() int {
	switch k {
	case KindBlake2b128:
		return 16
	case KindBlake2b256, KindBlake3_256:
		return 32
	case KindBlake2b512:
		return 64
	default:
		return 0
	}
}

// H128, H256, H512 are fixed-width digests, named after spec §3.
type H128 [16]byte
type H256 [32]byte
type H512 [64]byte

// HashBytes is a tag-along value wrapping one of the fixed-width digest
// types above, so CBOR tag-carrying code (ledger headers) has one type to
// work with regardless of width.
type HashBytes struct {
	Kind  Kind
	Bytes []byte
}

func (h HashBytes) String() string {
	return fmt.Sprintf("%s:%x", h.Kind, h.Bytes)
}

// Equal reports whether two HashBytes carry the same kind and digest.
func (h HashBytes) Equal(o HashBytes) bool {
	if h.Kind != o.Kind || len(h.Bytes) != len(o.Bytes) {
		return false
	}
	for i := range h.Bytes {
		if h.Bytes[i] != o.Bytes[i] {
			return false
		}
	}
	return true
}

// Blake2b128 returns the BLAKE2b-128 digest of data (used for Kid and for the
// CIP-509 transaction-inputs hash).
func Blake2b128(data []byte) H128 {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(fmt.Sprintf("hash: blake2b-128 init failed: %v", err))
	}
	h.Write(data)
	var out H128
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b256 returns the BLAKE2b-256 digest of data (used for the CIP-509
// auxiliary-data hash).
func Blake2b256(data []byte) H256 {
	var out H256
	d := blake2b.Sum256(data)
	copy(out[:], d[:])
	return out
}

// Blake2b512 returns the BLAKE2b-512 digest of data.
func Blake2b512(data []byte) H512 {
	d := blake2b.Sum512(data)
	var out H512
	copy(out[:], d[:])
	return out
}

// Blake3_256 returns the BLAKE3-256 digest of data.
func Blake3_256(data []byte) H256 {
	d := blake3.Sum256(data)
	var out H256
	copy(out[:], d[:])
	return out
}

// Sum computes the digest named by kind and wraps it as HashBytes.
func Sum(kind Kind, data []byte) HashBytes {
	switch kind {
	case KindBlake2b128:
		h := Blake2b128(data)
		return HashBytes{Kind: kind, Bytes: h[:]}
	case KindBlake2b256:
		h := Blake2b256(data)
		return HashBytes{Kind: kind, Bytes: h[:]}
	case KindBlake2b512:
		h := Blake2b512(data)
		return HashBytes{Kind: kind, Bytes: h[:]}
	case KindBlake3_256:
		h := Blake3_256(data)
		return HashBytes{Kind: kind, Bytes: h[:]}
	default:
		panic(fmt.Sprintf("hash: unknown kind %d", kind))
	}
}
