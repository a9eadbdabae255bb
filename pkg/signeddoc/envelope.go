package signeddoc

import (
	"crypto/ed25519"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

// wireSignature is the positional CBOR shape of one Signature.
type wireSignature struct {
	_         struct{} `cbor:",toarray"`
	Protected []byte
	Bytes     []byte
}

// wireEnvelope is the positional CBOR shape of the whole document: canonical
// CBOR throughout, with the protected header carried as an opaque byte
// string per COSE convention (spec §6).
type wireEnvelope struct {
	_          struct{} `cbor:",toarray"`
	Protected  []byte
	Payload    []byte
	Signatures []wireSignature
}

// Encode serializes a SignedDocument to canonical CBOR.
func (d SignedDocument) Encode() ([]byte, error) {
	w := wireEnvelope{Protected: d.ProtectedHeader, Payload: d.Payload}
	for _, s := range d.Signatures {
		w.Signatures = append(w.Signatures, wireSignature{Protected: s.Protected, Bytes: s.Bytes})
	}
	return cbor.Encode(w)
}

// DecodeSignedDocument decodes canonical CBOR into a SignedDocument and its
// typed Metadata, reporting semantic problems (spec §7) rather than
// aborting. Hard CBOR-framing errors still abort with a Go error.
func DecodeSignedDocument(data []byte) (SignedDocument, *report.Report, error) {
	var w wireEnvelope
	if err := cbor.Decode(data, &w); err != nil {
		return SignedDocument{}, nil, fmt.Errorf("signeddoc: decode envelope: %w", err)
	}

	rep := report.New("signeddoc")
	meta, err := DecodeMetadata(w.Protected, rep)
	if err != nil {
		return SignedDocument{}, nil, fmt.Errorf("signeddoc: decode protected header: %w", err)
	}

	doc := SignedDocument{
		ProtectedHeader: w.Protected,
		Metadata:        meta,
		Payload:         w.Payload,
	}
	for _, s := range w.Signatures {
		doc.Signatures = append(doc.Signatures, Signature{Protected: s.Protected, Bytes: s.Bytes})
	}
	if len(doc.Signatures) == 0 {
		rep.MissingField("signeddoc", "signatures")
	}
	return doc, rep, nil
}

// sigStructure builds the COSE Sig_structure this module signs: a canonical
// CBOR array of (context, body-protected, sign-protected, external_aad,
// payload), mirroring the teacher's "canonical(fields-excluding-signature)"
// signing-input construction (pkg/wire/frame.go's BaseFrame.Sign via
// cborcanon.EncodeForSigning), generalized to COSE's multi-signer shape.
func sigStructure(bodyProtected, signProtected, payload []byte) ([]byte, error) {
	arr := []interface{}{"Signature", bodyProtected, signProtected, []byte{}, payload}
	return cbor.Encode(arr)
}

// Sign produces a Signature over doc's current protected header and payload
// using priv, with signProtected as that signature's own (typically
// key-identifying) protected header.
func Sign(doc SignedDocument, signProtected []byte, priv ed25519.PrivateKey) (Signature, error) {
	tbs, err := sigStructure(doc.ProtectedHeader, signProtected, doc.Payload)
	if err != nil {
		return Signature{}, fmt.Errorf("signeddoc: build signing input: %w", err)
	}
	return Signature{Protected: signProtected, Bytes: ed25519.Sign(priv, tbs)}, nil
}

// Verify checks one of doc's signatures against pub.
func Verify(doc SignedDocument, sig Signature, pub ed25519.PublicKey) error {
	tbs, err := sigStructure(doc.ProtectedHeader, sig.Protected, doc.Payload)
	if err != nil {
		return fmt.Errorf("signeddoc: build signing input: %w", err)
	}
	if !ed25519.Verify(pub, tbs, sig.Bytes) {
		return fmt.Errorf("signeddoc: signature verification failed")
	}
	return nil
}
