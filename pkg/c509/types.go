// Package c509 implements the draft-ietf-cose-cbor-encoded-cert (C.509)
// compact certificate profile named in spec §4.2: canonical-CBOR-sequence
// encoding of an X.509-equivalent TBS certificate, with Name compression
// (hex / EUI-64-from-MAC / plain EUI-64).
//
// A Tbs is encoded as a bare sequence of canonical CBOR items concatenated
// one after another — there is no enclosing array header, matching the
// reference vectors in spec §8. Decode therefore walks the buffer with
// pkg/cbor's low-level Decoder rather than unmarshalling a single struct.
package c509

import "math/big"

// OIDCommonName is the only attribute OID whose presence as a lone Name
// attribute triggers the hex/EUI-64 compression table (spec §4.2).
const OIDCommonName = "2.5.4.3"

// Attribute is one (type, value) pair of a general (uncompressed) Name.
type Attribute struct {
	OID   string
	Value string
}

// Name is either a single compressible CommonName attribute, or a general
// ordered list of Attributes encoded as an alternating-pair array.
type Name struct {
	Attributes []Attribute
}

// NewCommonName builds a Name carrying exactly one CommonName attribute,
// the shape eligible for hex/EUI-64 compression.
func NewCommonName(cn string) Name {
	return Name{Attributes: []Attribute{{OID: OIDCommonName, Value: cn}}}
}

// CommonName returns the value of a lone CommonName attribute and true, or
// ("", false) if this Name is not in that shape.
func (n Name) CommonName() (string, bool) {
	if len(n.Attributes) == 1 && n.Attributes[0].OID == OIDCommonName {
		return n.Attributes[0].Value, true
	}
	return "", false
}

// UnwrappedBigUint is a non-negative big integer encoded as a plain CBOR
// byte string of its minimal big-endian bytes: conceptually a CBOR bignum
// (tag 2) with the tag itself stripped, per spec §4.2.
type UnwrappedBigUint struct {
	*big.Int
}

// NewUnwrappedBigUint wraps a non-negative big.Int.
func NewUnwrappedBigUint(v *big.Int) UnwrappedBigUint {
	return UnwrappedBigUint{Int: v}
}

// Extension is one certificate extension. A lone keyUsage extension is
// compressed to a bare integer on the wire (see extensions.go); all other shapes
// use the general packed-sequence form.
type Extension struct {
	Type     string
	Critical bool
	Value    []byte
}

// ExtKeyUsage is the well-known extension type eligible for the single-integer
// compression.
const ExtKeyUsage = "keyUsage"

// AltNameURI and AltNameOther model the two SubjectAltName shapes spec §4.2
// names: a Catalyst-ID-carrying URI (context-specific primitive tag 6, raw
// tag 134) and a hardware-module OtherName identifier.
type AltNameURI struct {
	URI string
}

type AltNameOther struct {
	TypeOID string
	Value   []byte
}

// Tbs is the TBS (to-be-signed) certificate body, spec §3/§4.2.
type Tbs struct {
	Type            uint8
	Serial          UnwrappedBigUint
	IssuerSigAlgo   int64
	Issuer          Name
	NotBefore       int64  // seconds since Unix epoch
	NotAfter        *int64 // nil means "no expiry"
	Subject         Name
	SubjectPKAlgo   int64
	SubjectPK       []byte
	Extensions      []Extension
	SubjectAltNames []interface{} // AltNameURI or AltNameOther, in declared order
}
