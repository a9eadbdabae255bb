package cbor

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

func TestDecodeNext_AcceptsCanonicalVectors(t *testing.T) {
	vectors := []string{
		"00",             // uint 0
		"17",             // uint 23
		"1818",           // uint 24 (extended form required)
		"1903e8",         // uint 1000
		"83010203",       // array [1,2,3]
		"a1616100",       // map {"a": 0}
		"a26161006162181f", // map {"a":0,"b":31} key length equal -> lexicographic
	}
	for _, v := range vectors {
		data := mustHex(t, v)
		d := NewDecoder(data, Strict)
		if _, err := d.DecodeNext(); err != nil {
			t.Errorf("vector %s: expected canonical accept, got %v", v, err)
		} else if d.Len() != 0 {
			t.Errorf("vector %s: leftover bytes", v)
		}
	}
}

func TestDecodeNext_RejectsNonCanonical(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		kind ErrorKind
	}{
		{"non_minimal_uint", "1817", KindNonMinimalInt},   // 23 encoded as 1-byte form
		{"non_minimal_uint16", "190017", KindNonMinimalInt}, // 23 encoded as 2-byte form
		{"indefinite_array", "9f01020304ff", KindIndefiniteLength},
		{"indefinite_map", "bf616101ff", KindIndefiniteLength},
		{"duplicate_key", "a2616100616101", KindDuplicateMapKey},
		{"unordered_keys", "a2616200616100", KindUnorderedMapKeys},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDecoder(mustHex(t, c.hex), Strict)
			_, err := d.DecodeNext()
			if err == nil {
				t.Fatalf("expected error, got none")
			}
			de, ok := err.(*DecodeError)
			if !ok {
				t.Fatalf("expected *DecodeError, got %T (%v)", err, err)
			}
			if de.Kind != c.kind {
				t.Errorf("expected kind %s, got %s", c.kind, de.Kind)
			}
		})
	}
}

func TestDecodeMap_PreservesCanonicalOrder(t *testing.T) {
	// {"a": 0, "bb": 1} - shorter key "a" sorts first (length-first rule).
	data := mustHex(t, "a261610062626201")
	d := NewDecoder(data, Strict)
	entries, err := d.DecodeMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if hex.EncodeToString(entries[0].KeyRaw) != "6161" {
		t.Errorf("unexpected first key raw bytes: %x", entries[0].KeyRaw)
	}
	if hex.EncodeToString(entries[1].KeyRaw) != "626262" {
		t.Errorf("unexpected second key raw bytes: %x", entries[1].KeyRaw)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	type pair struct {
		A int    `cbor:"a"`
		B string `cbor:"b"`
	}
	in := pair{A: 7, B: "hi"}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := Validate(data); err != nil {
		t.Fatalf("encoded output must be canonical: %v", err)
	}
	var out pair
	if err := Decode(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v want %+v", out, in)
	}
}
