// Package cbor implements a decoder that accepts only deterministically
// encoded CBOR per RFC 8949 §4.2, plus an encoder that always produces that
// canonical form. It exists because higher layers (COSE-shaped signed
// documents, CIP-509 auxiliary data, C.509 certificates, ledger blocks) all
// hash or re-compare raw encoded bytes, so the codec must certify that what
// was received has exactly one valid encoding before anything trusts it.
package cbor

import (
	"bytes"
	"math"

	"github.com/x448/float16"
)

// MajorType is a CBOR major type tag (RFC 8949 §3).
type MajorType byte

const (
	MajorUint    MajorType = 0
	MajorNegInt  MajorType = 1
	MajorBytes   MajorType = 2
	MajorText    MajorType = 3
	MajorArray   MajorType = 4
	MajorMap     MajorType = 5
	MajorTag     MajorType = 6
	MajorSimple  MajorType = 7
)

// Mode selects how strictly the decoder enforces canonicity.
type Mode int

const (
	// Strict enforces every rule in spec §4.1. Default mode.
	Strict Mode = iota
	// Permissive disables canonicity validation (used only for legacy block
	// data) but still produces the same typed values a Strict decode would.
	// Indefinite-length items are rejected in this mode too (see skipValue).
	Permissive
)

// Decoder walks a byte slice validating canonical CBOR as it goes.
type Decoder struct {
	buf  []byte
	pos  int
	mode Mode
}

// NewDecoder returns a Decoder positioned at the start of buf.
func NewDecoder(buf []byte, mode Mode) *Decoder {
	return &Decoder{buf: buf, mode: mode}
}

// Pos returns the current byte offset into the input.
func (d *Decoder) Pos() int { return d.pos }

// Len returns the number of unconsumed bytes.
func (d *Decoder) Len() int { return len(d.buf) - d.pos }

func (d *Decoder) strict() bool { return d.mode == Strict }

func (d *Decoder) eof(offset int) error {
	return newErr(KindUnexpectedEOF, offset, "ran out of input")
}

// head reads one item's initial byte and its argument (length/value),
// validating minimal-length encoding in Strict mode. It does not consume the
// argument's payload (bytes/text/array/map contents).
type head struct {
	major    MajorType
	info     byte   // low 5 bits of the initial byte
	arg      uint64 // decoded length/value for info in 0..27
	indefErr bool   // true if info == 31 (indefinite length marker)
}

func (d *Decoder) readHead() (head, error) {
	start := d.pos
	if d.pos >= len(d.buf) {
		return head{}, d.eof(start)
	}
	ib := d.buf[d.pos]
	major := MajorType(ib >> 5)
	info := ib & 0x1f
	d.pos++

	if info == 31 {
		if d.strict() {
			return head{}, newErr(KindIndefiniteLength, start, "indefinite-length items are not canonical")
		}
		return head{major: major, info: info, indefErr: true}, nil
	}

	if info < 24 {
		return head{major: major, info: info, arg: uint64(info)}, nil
	}

	var nbytes int
	switch info {
	case 24:
		nbytes = 1
	case 25:
		nbytes = 2
	case 26:
		nbytes = 4
	case 27:
		nbytes = 8
	default:
		return head{}, newErr(KindCorruptedEncoding, start, "reserved additional-information value")
	}

	if d.pos+nbytes > len(d.buf) {
		return head{}, d.eof(start)
	}
	var v uint64
	for i := 0; i < nbytes; i++ {
		v = v<<8 | uint64(d.buf[d.pos+i])
	}
	d.pos += nbytes

	if d.strict() && major != MajorSimple {
		if err := checkMinimalArg(v, info, start); err != nil {
			return head{}, err
		}
	}

	return head{major: major, info: info, arg: v}, nil
}

// checkMinimalArg verifies that the argument value v required exactly the
// nbytes-form encoded by info (rule 1: minimal integer/length encoding).
func checkMinimalArg(v uint64, info byte, offset int) error {
	var minInfo byte
	switch {
	case v < 24:
		minInfo = byte(v)
	case v <= 0xff:
		minInfo = 24
	case v <= 0xffff:
		minInfo = 25
	case v <= 0xffffffff:
		minInfo = 26
	default:
		minInfo = 27
	}
	if minInfo != info {
		return newErr(KindNonMinimalInt, offset, "integer/length not encoded in its minimal form")
	}
	return nil
}

// PeekMajor reports the major type of the next item without consuming it.
func (d *Decoder) PeekMajor() (MajorType, error) {
	if d.pos >= len(d.buf) {
		return 0, d.eof(d.pos)
	}
	return MajorType(d.buf[d.pos] >> 5), nil
}

// DecodeNext validates and skips exactly one top-level item (recursively for
// arrays/maps/tags), returning its major type. This is the strict-mode
// canonicity check: any violation anywhere in the item aborts with a typed
// DecodeError.
func (d *Decoder) DecodeNext() (MajorType, error) {
	return d.skipValue()
}

func (d *Decoder) skipValue() (MajorType, error) {
	start := d.pos
	h, err := d.readHead()
	if err != nil {
		return 0, err
	}
	if h.indefErr {
		// Permissive mode: best-effort skip of an indefinite-length item by
		// scanning for its break byte (0xff) at this nesting level is not
		// attempted; indefinite items are rejected even in Permissive mode
		// because nothing downstream can give them canonical byte spans.
		return 0, newErr(KindIndefiniteLength, start, "indefinite-length items are not supported")
	}

	switch h.major {
	case MajorUint, MajorNegInt:
		// argument already consumed by readHead.
	case MajorBytes, MajorText:
		n := int(h.arg)
		if n < 0 || d.pos+n > len(d.buf) {
			return 0, d.eof(d.pos)
		}
		d.pos += n
	case MajorArray:
		for i := uint64(0); i < h.arg; i++ {
			if _, err := d.skipValue(); err != nil {
				return 0, err
			}
		}
	case MajorMap:
		if _, err := d.decodeMapBody(h.arg); err != nil {
			return 0, err
		}
	case MajorTag:
		if _, err := d.skipValue(); err != nil {
			return 0, err
		}
	case MajorSimple:
		if err := d.validateSimpleOrFloat(h, start); err != nil {
			return 0, err
		}
	default:
		return 0, newErr(KindCorruptedEncoding, start, "unknown major type")
	}
	return h.major, nil
}

func (d *Decoder) validateSimpleOrFloat(h head, start int) error {
	switch h.info {
	case 20, 21: // false, true
	case 22: // null
	case 23: // undefined
	case 24: // 1-byte simple value, arg already consumed (>=32 required)
		if d.strict() && h.arg < 32 {
			return newErr(KindNonMinimalInt, start, "simple value should use the short form")
		}
	case 25: // f16
		if d.strict() {
			if err := checkFloatCanonical(h.arg, 16, start); err != nil {
				return err
			}
		}
	case 26: // f32
		if d.strict() {
			if err := checkFloatCanonical(h.arg, 32, start); err != nil {
				return err
			}
		}
	case 27: // f64
		if d.strict() {
			if err := checkFloatCanonical(h.arg, 64, start); err != nil {
				return err
			}
		}
	default:
		if h.info > 27 {
			return newErr(KindCorruptedEncoding, start, "reserved simple-value encoding")
		}
	}
	return nil
}

// checkFloatCanonical verifies the float bit pattern (width bits wide,
// decoded from h.arg) is finite and could not have been represented exactly
// in a narrower IEEE-754 form (rule 4).
func checkFloatCanonical(bits uint64, width int, offset int) error {
	var f float64
	switch width {
	case 16:
		f = float64(float16.Float16(uint16(bits)).Float32())
	case 32:
		f = float64(math.Float32frombits(uint32(bits)))
	case 64:
		f = math.Float64frombits(bits)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// NaN/Inf are only non-finite; spec requires finite floats, but the
		// canonical NaN/Inf short forms themselves are not under test here
		// since the document model never carries float fields. Reject.
		return newErr(KindNonFiniteFloat, offset, "non-finite floating point value")
	}
	if width > 16 && canRepresentAsF16(f) {
		return newErr(KindNonMinimalFloat, offset, "float value fits in a narrower encoding")
	}
	if width > 32 && width <= 64 && canRepresentAsF32(f) {
		return newErr(KindNonMinimalFloat, offset, "float value fits in a narrower encoding")
	}
	return nil
}

func canRepresentAsF16(f float64) bool {
	h := float16.Fromfloat32(float32(f))
	return float64(h.Float32()) == f
}

func canRepresentAsF32(f float64) bool {
	return float64(float32(f)) == f
}

// MapEntry is one canonical-order (key, value) pair from a decoded map, with
// both sides captured as raw encoded byte spans so callers can re-hash or
// re-compare without re-encoding.
type MapEntry struct {
	KeyRaw []byte
	ValRaw []byte
}

// DecodeMap validates that the decoder is positioned at a definite-length map
// head, then decodes and returns its entries in the (already validated)
// canonical order found on the wire.
func (d *Decoder) DecodeMap() ([]MapEntry, error) {
	start := d.pos
	h, err := d.readHead()
	if err != nil {
		return nil, err
	}
	if h.major != MajorMap {
		return nil, newErr(KindCorruptedEncoding, start, "expected a map")
	}
	if h.indefErr {
		return nil, newErr(KindIndefiniteLength, start, "indefinite-length maps are not supported")
	}
	return d.decodeMapBody(h.arg)
}

func (d *Decoder) decodeMapBody(n uint64) ([]MapEntry, error) {
	entries := make([]MapEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		keyStart := d.pos
		if _, err := d.skipValue(); err != nil {
			return nil, err
		}
		keyRaw := d.buf[keyStart:d.pos]

		valStart := d.pos
		if _, err := d.skipValue(); err != nil {
			return nil, err
		}
		valRaw := d.buf[valStart:d.pos]

		if d.strict() && i > 0 {
			prev := entries[i-1].KeyRaw
			cmp := compareCanonicalKeys(prev, keyRaw)
			if cmp == 0 {
				return nil, newErr(KindDuplicateMapKey, keyStart, "duplicate map key")
			}
			if cmp > 0 {
				return nil, newErr(KindUnorderedMapKeys, keyStart, "map keys are not in canonical order")
			}
		}

		entries = append(entries, MapEntry{KeyRaw: keyRaw, ValRaw: valRaw})
	}
	return entries, nil
}

// compareCanonicalKeys orders two encoded CBOR keys length-first, then
// byte-wise lexicographically on the encoded bytes (rule 3).
func compareCanonicalKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// Remaining returns the unconsumed tail of the input.
func (d *Decoder) Remaining() []byte { return d.buf[d.pos:] }

// SliceFrom returns the raw bytes consumed between start and the decoder's
// current position. Used by sequence-based codecs (e.g. pkg/c509) that walk
// a flat concatenation of canonical items rather than a single top-level
// value.
func (d *Decoder) SliceFrom(start int) []byte { return d.buf[start:d.pos] }
