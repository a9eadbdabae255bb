package cbor

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"
)

// canonicalMode is the shared canonical CBOR encoding mode: deterministic map
// key order, minimal integer/length encoding, no indefinite-length items.
var canonicalMode fxcbor.EncMode

// decMode decodes using fxamacker/cbor's own (lenient) rules; inputs that
// reach it have already been certified canonical by Decoder.DecodeNext, so
// this only needs to populate a typed Go value.
var decMode fxcbor.DecMode

// permissiveDecMode allows indefinite-length items, for the legacy-block
// permissive mode named in spec §4.1.
var permissiveDecMode fxcbor.DecMode

func init() {
	var err error
	canonicalMode, err = fxcbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: failed to build canonical encode mode: %v", err))
	}
	decMode, err = fxcbor.DecOptions{
		DupMapKey:   fxcbor.DupMapKeyEnforcedAPF,
		IndefLength: fxcbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: failed to build decode mode: %v", err))
	}
	permissiveDecMode, err = fxcbor.DecOptions{
		DupMapKey:   fxcbor.DupMapKeyAllowed,
		IndefLength: fxcbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: failed to build permissive decode mode: %v", err))
	}
}

// Encode marshals v into canonical CBOR form.
func Encode(v interface{}) ([]byte, error) {
	return canonicalMode.Marshal(v)
}

// Decode unmarshals canonical CBOR bytes into v, rejecting data that is not
// canonical per the rules in Decoder.DecodeNext first.
func Decode(data []byte, v interface{}) error {
	if err := Validate(data); err != nil {
		return err
	}
	return decMode.Unmarshal(data, v)
}

// DecodePermissive unmarshals data into v without canonicity validation, for
// the legacy-block permissive mode named in spec §4.1.
func DecodePermissive(data []byte, v interface{}) error {
	return permissiveDecMode.Unmarshal(data, v)
}

// Validate certifies that data is exactly one canonical CBOR item with no
// trailing bytes.
func Validate(data []byte) error {
	d := NewDecoder(data, Strict)
	if _, err := d.DecodeNext(); err != nil {
		return err
	}
	if d.Len() != 0 {
		return newErr(KindCorruptedEncoding, d.Pos(), "trailing bytes after top-level item")
	}
	return nil
}

// RawMessage is a slice of bytes holding an undecoded, already-validated
// canonical CBOR item, mirroring encoding/json.RawMessage.
type RawMessage []byte

func (r RawMessage) MarshalCBOR() ([]byte, error) {
	if len(r) == 0 {
		return fxcbor.Marshal(nil)
	}
	return []byte(r), nil
}

func (r *RawMessage) UnmarshalCBOR(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}
