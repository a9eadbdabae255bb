package c509

import (
	"fmt"
	"math/big"
)

// MarshalCBOR encodes the value as a plain CBOR byte string of its minimal
// big-endian bytes (no tag 2 wrapper — see UnwrappedBigUint doc comment).
func (u UnwrappedBigUint) MarshalCBOR() ([]byte, error) {
	if u.Int == nil {
		return nil, fmt.Errorf("c509: nil UnwrappedBigUint")
	}
	if u.Sign() < 0 {
		return nil, fmt.Errorf("c509: UnwrappedBigUint must be non-negative")
	}
	b := u.Bytes() // big.Int.Bytes() already has no leading zero byte.
	return encodeByteString(b)
}

// UnmarshalCBOR decodes a plain CBOR byte string into the big integer.
func (u *UnwrappedBigUint) UnmarshalCBOR(data []byte) error {
	b, err := decodeByteString(data)
	if err != nil {
		return fmt.Errorf("c509: UnwrappedBigUint: %w", err)
	}
	u.Int = new(big.Int).SetBytes(b)
	return nil
}
