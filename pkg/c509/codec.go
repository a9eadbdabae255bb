package c509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
)

func encodeByteString(b []byte) ([]byte, error) { return cbor.Encode(b) }

func decodeByteString(data []byte) ([]byte, error) {
	var b []byte
	if err := cbor.Decode(data, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// encodeField canonically encodes one sequence element.
func encodeField(v interface{}) ([]byte, error) {
	return cbor.Encode(v)
}

// Encode serializes a Tbs certificate as a bare sequence of canonical CBOR
// items (no enclosing array), matching the reference vectors in spec §8.
func (t Tbs) Encode() ([]byte, error) {
	var out []byte
	issuerEnc, err := encodeName(t.Issuer)
	if err != nil {
		return nil, fmt.Errorf("c509: encode issuer name: %w", err)
	}
	subjectEnc, err := encodeName(t.Subject)
	if err != nil {
		return nil, fmt.Errorf("c509: encode subject name: %w", err)
	}
	exts := t.Extensions
	if len(t.SubjectAltNames) > 0 {
		sanBytes, err := encodeSubjectAltNames(t.SubjectAltNames)
		if err != nil {
			return nil, fmt.Errorf("c509: encode subjectAltNames: %w", err)
		}
		exts = append(append([]Extension{}, exts...), Extension{Type: subjectAltNameExtType, Value: sanBytes})
	}
	extEnc, err := encodeExtensions(exts)
	if err != nil {
		return nil, fmt.Errorf("c509: encode extensions: %w", err)
	}

	fields := []interface{}{
		t.Type,
		t.Serial,
		t.IssuerSigAlgo,
		issuerEnc,
		t.NotBefore,
		notAfterValue(t.NotAfter),
		subjectEnc,
		t.SubjectPKAlgo,
		t.SubjectPK,
		extEnc,
	}
	for i, f := range fields {
		b, err := encodeField(f)
		if err != nil {
			return nil, fmt.Errorf("c509: encode field %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func notAfterValue(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Decode parses a Tbs certificate from a canonical CBOR sequence (the
// inverse of Encode). It rejects any field that is not itself canonically
// encoded.
func Decode(data []byte) (Tbs, error) {
	d := cbor.NewDecoder(data, cbor.Strict)

	typeRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: type: %w", err)
	}
	var typ uint8
	if err := cbor.Decode(typeRaw, &typ); err != nil {
		return Tbs{}, fmt.Errorf("c509: type: %w", err)
	}

	serialRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: serial: %w", err)
	}
	var serial UnwrappedBigUint
	if err := serial.UnmarshalCBOR(serialRaw); err != nil {
		return Tbs{}, err
	}

	issuerSigAlgoRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: issuerSigAlgo: %w", err)
	}
	var issuerSigAlgo int64
	if err := cbor.Decode(issuerSigAlgoRaw, &issuerSigAlgo); err != nil {
		return Tbs{}, fmt.Errorf("c509: issuerSigAlgo: %w", err)
	}

	issuerRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: issuer: %w", err)
	}
	issuer, err := decodeNameField(issuerRaw)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: issuer: %w", err)
	}

	notBeforeRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: notBefore: %w", err)
	}
	var notBefore int64
	if err := cbor.Decode(notBeforeRaw, &notBefore); err != nil {
		return Tbs{}, fmt.Errorf("c509: notBefore: %w", err)
	}

	notAfterRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: notAfter: %w", err)
	}
	notAfter, err := decodeNotAfter(notAfterRaw)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: notAfter: %w", err)
	}

	subjectRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: subject: %w", err)
	}
	subject, err := decodeNameField(subjectRaw)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: subject: %w", err)
	}

	subjectPKAlgoRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: subjectPKAlgo: %w", err)
	}
	var subjectPKAlgo int64
	if err := cbor.Decode(subjectPKAlgoRaw, &subjectPKAlgo); err != nil {
		return Tbs{}, fmt.Errorf("c509: subjectPKAlgo: %w", err)
	}

	subjectPKRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: subjectPK: %w", err)
	}
	var subjectPK []byte
	if err := cbor.Decode(subjectPKRaw, &subjectPK); err != nil {
		return Tbs{}, fmt.Errorf("c509: subjectPK: %w", err)
	}

	extRaw, err := nextField(d)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: extensions: %w", err)
	}
	decodedExts, err := decodeExtensionsField(extRaw)
	if err != nil {
		return Tbs{}, fmt.Errorf("c509: extensions: %w", err)
	}

	var extensions []Extension
	var altNames []interface{}
	for _, e := range decodedExts {
		if e.Type == subjectAltNameExtType {
			altNames, err = decodeSubjectAltNames(e.Value)
			if err != nil {
				return Tbs{}, fmt.Errorf("c509: subjectAltNames: %w", err)
			}
			continue
		}
		extensions = append(extensions, e)
	}

	if d.Len() != 0 {
		return Tbs{}, fmt.Errorf("c509: %d trailing bytes after certificate sequence", d.Len())
	}

	return Tbs{
		Type:            typ,
		Serial:          serial,
		IssuerSigAlgo:   issuerSigAlgo,
		Issuer:          issuer,
		NotBefore:       notBefore,
		NotAfter:        notAfter,
		Subject:         subject,
		SubjectPKAlgo:   subjectPKAlgo,
		SubjectPK:       subjectPK,
		Extensions:      extensions,
		SubjectAltNames: altNames,
	}, nil
}

// nextField validates and returns the raw canonical bytes of the next item
// in the sequence.
func nextField(d *cbor.Decoder) ([]byte, error) {
	start := d.Pos()
	if _, err := d.DecodeNext(); err != nil {
		return nil, err
	}
	raw := d.SliceFrom(start)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func decodeNameField(raw []byte) (Name, error) {
	var v interface{}
	if err := cbor.Decode(raw, &v); err != nil {
		return Name{}, err
	}
	return decodeName(v)
}

func decodeNotAfter(raw []byte) (*int64, error) {
	var v interface{}
	if err := cbor.Decode(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	var n int64
	if err := cbor.Decode(raw, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
