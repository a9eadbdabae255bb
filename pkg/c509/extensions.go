package c509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
)

// encodeExtensions implements the single-keyUsage compression: when the
// extension list is exactly one keyUsage entry, its value is encoded as a
// bare integer rather than wrapped in any array/map (spec §4.2, confirmed by
// the RFC-test-CA reference vector in spec §8). Otherwise the extensions are
// packed as a flat array of (type, critical, value) triples.
func encodeExtensions(exts []Extension) (interface{}, error) {
	if len(exts) == 1 && exts[0].Type == ExtKeyUsage && !exts[0].Critical {
		return decodeKeyUsageValue(exts[0].Value)
	}
	arr := make([]interface{}, 0, len(exts)*3)
	for _, e := range exts {
		arr = append(arr, e.Type, e.Critical, e.Value)
	}
	return arr, nil
}

func decodeKeyUsageValue(v []byte) (int64, error) {
	var n int64
	for _, b := range v {
		n = n<<8 | int64(b)
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("c509: empty keyUsage value")
	}
	return n, nil
}

func encodeKeyUsageValue(n int64) []byte {
	if n == 0 {
		return []byte{0}
	}
	var out []byte
	for n > 0 {
		out = append([]byte{byte(n & 0xff)}, out...)
		n >>= 8
	}
	return out
}

// decodeExtensionsField inverts encodeExtensions given the already-typed
// decoded value.
func decodeExtensionsField(raw []byte) ([]Extension, error) {
	var v interface{}
	if err := cbor.Decode(raw, &v); err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case int64:
		return []Extension{{Type: ExtKeyUsage, Value: encodeKeyUsageValue(val)}}, nil
	case uint64:
		return []Extension{{Type: ExtKeyUsage, Value: encodeKeyUsageValue(int64(val))}}, nil
	case []interface{}:
		if len(val)%3 != 0 {
			return nil, fmt.Errorf("c509: extensions array length %d is not a multiple of 3", len(val))
		}
		out := make([]Extension, 0, len(val)/3)
		for i := 0; i < len(val); i += 3 {
			typ, ok := val[i].(string)
			if !ok {
				return nil, fmt.Errorf("c509: extension type at index %d is not a string", i)
			}
			critical, _ := val[i+1].(bool)
			value, ok := val[i+2].([]byte)
			if !ok {
				return nil, fmt.Errorf("c509: extension value at index %d is not bytes", i+2)
			}
			out = append(out, Extension{Type: typ, Critical: critical, Value: value})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("c509: unrecognized extensions encoding %T", v)
	}
}
