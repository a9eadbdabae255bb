package c509

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	lowerHexEven = regexp.MustCompile(`^[0-9a-f]+$`)
	macForm      = regexp.MustCompile(`^([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-FF-FE-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})$`)
	eui64Form    = regexp.MustCompile(`^([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})$`)
)

// encodeName returns either a []byte (compressed form), a string (text
// fallback), or a []interface{} (general alternating attr_type/attr_value
// array) ready to hand to the CBOR encoder.
func encodeName(n Name) (interface{}, error) {
	if cn, ok := n.CommonName(); ok {
		return encodeCommonName(cn), nil
	}
	arr := make([]interface{}, 0, len(n.Attributes)*2)
	for _, a := range n.Attributes {
		arr = append(arr, a.OID, a.Value)
	}
	return arr, nil
}

func encodeCommonName(cn string) interface{} {
	if len(cn)%2 == 0 && len(cn) > 0 && lowerHexEven.MatchString(cn) {
		raw, err := hex.DecodeString(cn)
		if err == nil {
			return append([]byte{0x00}, raw...)
		}
	}
	if m := macForm.FindStringSubmatch(cn); m != nil {
		first3 := mustHexTriple(m[1], m[2], m[3])
		last3 := mustHexTriple(m[4], m[5], m[6])
		out := make([]byte, 0, 7)
		out = append(out, 0x01)
		out = append(out, first3...)
		out = append(out, last3...)
		return out
	}
	if m := eui64Form.FindStringSubmatch(cn); m != nil {
		out := make([]byte, 0, 9)
		out = append(out, 0x01)
		for _, g := range m[1:] {
			b, _ := hex.DecodeString(g)
			out = append(out, b...)
		}
		return out
	}
	return cn
}

func mustHexTriple(a, b, c string) []byte {
	out := make([]byte, 0, 3)
	for _, g := range []string{a, b, c} {
		b, _ := hex.DecodeString(g)
		out = append(out, b...)
	}
	return out
}

// decodeName inverts encodeName given the already-typed decoded value (a
// []byte, string, or []interface{} as produced by the CBOR typed layer).
func decodeName(v interface{}) (Name, error) {
	switch val := v.(type) {
	case []byte:
		cn, err := decodeCommonNameBytes(val)
		if err != nil {
			return Name{}, err
		}
		return NewCommonName(cn), nil
	case string:
		return NewCommonName(val), nil
	case []interface{}:
		if len(val)%2 != 0 {
			return Name{}, fmt.Errorf("c509: Name attribute array has odd length %d", len(val))
		}
		attrs := make([]Attribute, 0, len(val)/2)
		for i := 0; i < len(val); i += 2 {
			oid, ok := val[i].(string)
			if !ok {
				return Name{}, fmt.Errorf("c509: Name attr_type at index %d is not a string", i)
			}
			value, ok := val[i+1].(string)
			if !ok {
				return Name{}, fmt.Errorf("c509: Name attr_value at index %d is not a string", i+1)
			}
			attrs = append(attrs, Attribute{OID: oid, Value: value})
		}
		return Name{Attributes: attrs}, nil
	default:
		return Name{}, fmt.Errorf("c509: unrecognized Name encoding %T", v)
	}
}

func decodeCommonNameBytes(b []byte) (string, error) {
	switch {
	case len(b) >= 1 && b[0] == 0x00:
		return hex.EncodeToString(b[1:]), nil
	case len(b) == 7 && b[0] == 0x01:
		first3, last3 := b[1:4], b[4:7]
		groups := make([]string, 0, 8)
		for _, x := range first3 {
			groups = append(groups, fmt.Sprintf("%02X", x))
		}
		groups = append(groups, "FF", "FE")
		for _, x := range last3 {
			groups = append(groups, fmt.Sprintf("%02X", x))
		}
		return strings.Join(groups, "-"), nil
	case len(b) == 9 && b[0] == 0x01:
		groups := make([]string, 0, 8)
		for _, x := range b[1:] {
			groups = append(groups, fmt.Sprintf("%02X", x))
		}
		return strings.Join(groups, "-"), nil
	default:
		return "", fmt.Errorf("c509: unrecognized compressed CommonName byte form (len=%d, prefix=%#x)", len(b), b[0])
	}
}
