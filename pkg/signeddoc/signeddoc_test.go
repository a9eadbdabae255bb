package signeddoc

import (
	"crypto/ed25519"
	"testing"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

func mustUuid7(t *testing.T) hash.Uuid7 {
	t.Helper()
	u, err := hash.NewUuid7()
	if err != nil {
		t.Fatalf("NewUuid7: %v", err)
	}
	return u
}

func TestMetadataRoundTrip(t *testing.T) {
	id := mustUuid7(t)
	ver := id
	m := Metadata{
		Type:        []hash.Uuid4{hash.NewUuid4()},
		Id:          id,
		Ver:         ver,
		ContentType: ContentJSON,
		Section:     "/body",
		Collabs:     []string{"alice", "bob"},
	}
	wire, err := EncodeMetadata(m)
	if err != nil {
		t.Fatalf("EncodeMetadata: %v", err)
	}
	rep := report.New("test")
	back, err := DecodeMetadata(wire, rep)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if !rep.IsProblemFree() {
		t.Fatalf("unexpected findings: %+v", rep.Entries())
	}
	if back.ContentType != ContentJSON || back.Section != "/body" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if len(back.Collabs) != 2 || back.Collabs[0] != "alice" {
		t.Fatalf("Collabs = %+v", back.Collabs)
	}
}

func TestMetadata_MissingRequiredFieldsReported(t *testing.T) {
	wire, err := cbor.Encode(map[string]interface{}{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rep := report.New("test")
	if _, err := DecodeMetadata(wire, rep); err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if rep.IsProblemFree() {
		t.Fatalf("expected missing-field findings for an empty metadata map")
	}
}

func TestMetadata_SingleParameterAliasTracked(t *testing.T) {
	id := mustUuid7(t)
	ref := DocumentRef{Id: id, Ver: id}
	m := Metadata{
		Type: []hash.Uuid4{hash.NewUuid4()}, Id: id, Ver: id, ContentType: ContentJSON,
		Parameters: []DocumentRef{ref}, ParametersAlias: fieldParameters,
	}
	wire, err := EncodeMetadata(m)
	if err != nil {
		t.Fatalf("EncodeMetadata: %v", err)
	}
	// A header carrying one parameters alias round-trips, records which
	// alias was used, and produces no finding.
	rep := report.New("test")
	back, err := DecodeMetadata(wire, rep)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if back.ParametersAlias != fieldParameters {
		t.Fatalf("ParametersAlias = %q, want %q", back.ParametersAlias, fieldParameters)
	}
	if !rep.IsProblemFree() {
		t.Fatalf("single alias should not be flagged: %+v", rep.Entries())
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	id := mustUuid7(t)
	meta := Metadata{Type: []hash.Uuid4{hash.NewUuid4()}, Id: id, Ver: id, ContentType: ContentJSON}
	header, err := EncodeMetadata(meta)
	if err != nil {
		t.Fatalf("EncodeMetadata: %v", err)
	}
	doc := SignedDocument{ProtectedHeader: header, Payload: []byte(`{"hello":"world"}`)}

	sig, err := Sign(doc, []byte{}, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	doc.Signatures = append(doc.Signatures, sig)

	if err := Verify(doc, doc.Signatures[0], pub); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	wire, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, rep, err := DecodeSignedDocument(wire)
	if err != nil {
		t.Fatalf("DecodeSignedDocument: %v", err)
	}
	if !rep.IsProblemFree() {
		t.Fatalf("unexpected findings: %+v", rep.Entries())
	}
	if len(decoded.Signatures) != 1 {
		t.Fatalf("Signatures = %+v", decoded.Signatures)
	}
	if err := Verify(decoded, decoded.Signatures[0], pub); err != nil {
		t.Fatalf("Verify after round trip: %v", err)
	}
}

func TestSignVerify_WrongKeyFails(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	otherPub, _, _ := ed25519.GenerateKey(nil)
	id := mustUuid7(t)
	meta := Metadata{Type: []hash.Uuid4{hash.NewUuid4()}, Id: id, Ver: id, ContentType: ContentJSON}
	header, _ := EncodeMetadata(meta)
	doc := SignedDocument{ProtectedHeader: header}
	sig, err := Sign(doc, []byte{}, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(doc, sig, otherPub); err == nil {
		t.Fatalf("expected verification to fail against the wrong key")
	}
}
