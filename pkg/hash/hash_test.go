package hash

import (
	"bytes"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
)

func TestSumDispatchesByKind(t *testing.T) {
	data := []byte("hello world")
	cases := []struct {
		kind Kind
		size int
	}{
		{KindBlake2b128, 16},
		{KindBlake2b256, 32},
		{KindBlake2b512, 64},
		{KindBlake3_256, 32},
	}
	for _, c := range cases {
		got := Sum(c.kind, data)
		if got.Kind != c.kind {
			t.Fatalf("Sum(%s).Kind = %s", c.kind, got.Kind)
		}
		if len(got.Bytes) != c.size {
			t.Fatalf("Sum(%s) length = %d, want %d", c.kind, len(got.Bytes), c.size)
		}
	}
}

func TestHashBytesEqual(t *testing.T) {
	a := Sum(KindBlake2b256, []byte("x"))
	b := Sum(KindBlake2b256, []byte("x"))
	c := Sum(KindBlake2b256, []byte("y"))
	if !a.Equal(b) {
		t.Fatalf("expected equal digests of the same input")
	}
	if a.Equal(c) {
		t.Fatalf("expected different digests of different input to be unequal")
	}
}

func TestHashBytesCBORRoundTrip_Blake3(t *testing.T) {
	h := Sum(KindBlake3_256, []byte("payload"))
	wire, err := h.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	var tag fxcbor.Tag
	if err := fxcbor.Unmarshal(wire, &tag); err != nil {
		t.Fatalf("Unmarshal tag: %v", err)
	}
	if tag.Number != TagBlake3 {
		t.Fatalf("tag number = %d, want %d", tag.Number, TagBlake3)
	}

	var back HashBytes
	if err := back.UnmarshalCBOR(wire); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if !back.Equal(h) {
		t.Fatalf("round trip mismatch: got %s, want %s", back, h)
	}
}

func TestHashBytesCBORRoundTrip_Blake2b512(t *testing.T) {
	h := Sum(KindBlake2b512, []byte("payload"))
	wire, err := h.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	var back HashBytes
	if err := back.UnmarshalCBOR(wire); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if !back.Equal(h) {
		t.Fatalf("round trip mismatch: got %s, want %s", back, h)
	}
}

func TestHashBytesCBORRejectsUntaggedKind(t *testing.T) {
	h := Sum(KindBlake2b128, []byte("payload"))
	if _, err := h.MarshalCBOR(); err == nil {
		t.Fatalf("expected MarshalCBOR to reject a hash kind with no ledger CBOR tag assignment")
	}
}

func TestUuid4RoundTrip(t *testing.T) {
	u := NewUuid4()
	wire, err := u.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	var back Uuid4
	if err := back.UnmarshalCBOR(wire); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if !back.Equal(u) {
		t.Fatalf("round trip mismatch: got %s, want %s", back, u)
	}
}

func TestUuid7OrderingAndRoundTrip(t *testing.T) {
	a, err := NewUuid7()
	if err != nil {
		t.Fatalf("NewUuid7: %v", err)
	}
	b, err := NewUuid7()
	if err != nil {
		t.Fatalf("NewUuid7: %v", err)
	}
	if !a.LessOrEqual(b) {
		t.Fatalf("expected successively generated UUIDv7 values to be non-decreasing")
	}
	if !a.LessOrEqual(a) {
		t.Fatalf("expected LessOrEqual to be reflexive")
	}

	wire, err := a.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	var back Uuid7
	if err := back.UnmarshalCBOR(wire); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if !back.Equal(a) {
		t.Fatalf("round trip mismatch")
	}
}

func TestParseUuid4RejectsWrongVersion(t *testing.T) {
	u7, err := NewUuid7()
	if err != nil {
		t.Fatalf("NewUuid7: %v", err)
	}
	if _, err := ParseUuid4(u7.String()); err == nil {
		t.Fatalf("expected ParseUuid4 to reject a v7 UUID string")
	}
}

func TestKeyId128(t *testing.T) {
	k := NewKeyId128([]byte("certificate bytes"))
	back, err := ParseKeyId128(k.String())
	if err != nil {
		t.Fatalf("ParseKeyId128: %v", err)
	}
	if !bytes.Equal(k[:], back[:]) {
		t.Fatalf("round trip mismatch: %s != %s", k, back)
	}
}
