package hash

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"
)

// TagBlake3 and TagBlake2b512 are the CBOR tag numbers spec §4.5 assigns to
// the two hash kinds that travel tagged on the wire (ledger block headers).
const (
	TagBlake3     = 32781
	TagBlake2b512 = 32782
)

// MarshalCBOR implements cbor.Marshaler, encoding a ledger-carried hash as a
// CBOR tag (32781 for BLAKE3-256, 32782 for BLAKE2b-512) wrapping the raw
// digest bytes.
func (h HashBytes) MarshalCBOR() ([]byte, error) {
	var tagNum uint64
	switch h.Kind {
	case KindBlake3_256:
		tagNum = TagBlake3
	case KindBlake2b512:
		tagNum = TagBlake2b512
	default:
		return nil, fmt.Errorf("hash: kind %s has no ledger CBOR tag assignment", h.Kind)
	}
	return fxcbor.Marshal(fxcbor.Tag{Number: tagNum, Content: h.Bytes})
}

// UnmarshalCBOR implements cbor.Unmarshaler, inverting MarshalCBOR.
func (h *HashBytes) UnmarshalCBOR(data []byte) error {
	var tag fxcbor.Tag
	if err := fxcbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("hash: not a tagged value: %w", err)
	}
	var kind Kind
	switch tag.Number {
	case TagBlake3:
		kind = KindBlake3_256
	case TagBlake2b512:
		kind = KindBlake2b512
	default:
		return fmt.Errorf("hash: unrecognized hash tag %d", tag.Number)
	}
	b, ok := tag.Content.([]byte)
	if !ok {
		return fmt.Errorf("hash: tag content is not a byte string")
	}
	h.Kind = kind
	h.Bytes = b
	return nil
}

// fxcborMarshalTag and fxcborUnmarshalTag are small shared helpers for the
// other tagged types in this package (UUIDv4/v7 use tag 37).
func fxcborMarshalTag(number uint64, content []byte) ([]byte, error) {
	return fxcbor.Marshal(fxcbor.Tag{Number: number, Content: content})
}

func fxcborUnmarshalTag(data []byte) (content []byte, number uint64, err error) {
	var tag fxcbor.Tag
	if err := fxcbor.Unmarshal(data, &tag); err != nil {
		return nil, 0, fmt.Errorf("hash: not a tagged value: %w", err)
	}
	b, ok := tag.Content.([]byte)
	if !ok {
		return nil, 0, fmt.Errorf("hash: tag content is not a byte string")
	}
	return b, tag.Number, nil
}
