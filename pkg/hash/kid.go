package hash

import (
	"encoding/hex"
	"fmt"
)

// KeyId128 is the glossary's "Kid": a 128-bit key identifier, the BLAKE2b-128
// digest of a certificate or raw key, used to identify validators in ledger
// headers.
type KeyId128 [16]byte

// NewKeyId128 computes the Kid of raw certificate or key bytes.
func NewKeyId128(certOrKeyBytes []byte) KeyId128 {
	return KeyId128(Blake2b128(certOrKeyBytes))
}

func (k KeyId128) String() string { return hex.EncodeToString(k[:]) }

// ParseKeyId128 parses a hex-encoded Kid.
func ParseKeyId128(s string) (KeyId128, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return KeyId128{}, err
	}
	var out KeyId128
	if len(b) != 16 {
		return out, fmt.Errorf("hash: Kid must be 16 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
