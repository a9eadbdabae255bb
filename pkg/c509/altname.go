package c509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
)

// subjectAltNameExtType is the synthetic extension type SubjectAltName
// entries round-trip through on the wire: the general extension packing
// (type, critical, value) has no separate top-level slot for it, so Encode
// folds SubjectAltNames in as one more (type, critical, value) triple and
// Decode splits it back out into Tbs.SubjectAltNames.
const subjectAltNameExtType = "subjectAltName"

// encodeSubjectAltNames packs alt names as a flat array of (kind, field...)
// tuples: kind 0 is a URI (one string field), kind 1 is an OtherName (an OID
// string and a raw value).
func encodeSubjectAltNames(alts []interface{}) ([]byte, error) {
	arr := make([]interface{}, 0, len(alts)*2)
	for _, alt := range alts {
		switch v := alt.(type) {
		case AltNameURI:
			arr = append(arr, int64(0), v.URI)
		case AltNameOther:
			arr = append(arr, int64(1), v.TypeOID, v.Value)
		default:
			return nil, fmt.Errorf("c509: unrecognized SubjectAltName entry %T", alt)
		}
	}
	return cbor.Encode(arr)
}

func decodeSubjectAltNames(raw []byte) ([]interface{}, error) {
	var items []interface{}
	if err := cbor.Decode(raw, &items); err != nil {
		return nil, fmt.Errorf("c509: decode subjectAltNames: %w", err)
	}
	var out []interface{}
	i := 0
	for i < len(items) {
		kind, ok := asInt64(items[i])
		if !ok {
			return nil, fmt.Errorf("c509: subjectAltName kind at index %d is not an integer", i)
		}
		switch kind {
		case 0:
			if i+1 >= len(items) {
				return nil, fmt.Errorf("c509: truncated subjectAltName URI entry")
			}
			uri, ok := items[i+1].(string)
			if !ok {
				return nil, fmt.Errorf("c509: subjectAltName URI value is not a string")
			}
			out = append(out, AltNameURI{URI: uri})
			i += 2
		case 1:
			if i+2 >= len(items) {
				return nil, fmt.Errorf("c509: truncated subjectAltName OtherName entry")
			}
			oid, ok := items[i+1].(string)
			if !ok {
				return nil, fmt.Errorf("c509: subjectAltName OtherName OID is not a string")
			}
			val, ok := items[i+2].([]byte)
			if !ok {
				return nil, fmt.Errorf("c509: subjectAltName OtherName value is not bytes")
			}
			out = append(out, AltNameOther{TypeOID: oid, Value: val})
			i += 3
		default:
			return nil, fmt.Errorf("c509: unrecognized subjectAltName kind %d", kind)
		}
	}
	return out, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
