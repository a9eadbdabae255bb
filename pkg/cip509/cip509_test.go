package cip509

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-libs-go/pkg/c509"
	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

func TestRbacRoundTrip(t *testing.T) {
	m := RbacMetadata{
		X509Certs: []CertSlot{{Kind: SlotDeleted}},
		C509Certs: []CertSlot{{Kind: SlotPresent, Value: []byte{0xde, 0xad}}},
		PublicKeys: []CertSlot{{Kind: SlotUndefined}},
		RevocationHashes: [][]byte{{1, 2, 3}},
		RoleSet: map[uint8]RoleData{
			0: {SigningKeyRefs: []int16{0}, EncryptionKeyRefs: []int16{}, PaymentKeyRef: -1},
		},
	}
	wire, err := EncodeRbac(m)
	if err != nil {
		t.Fatalf("EncodeRbac: %v", err)
	}
	back, err := decodeRbac(wire)
	if err != nil {
		t.Fatalf("decodeRbac: %v", err)
	}
	if len(back.C509Certs) != 1 || back.C509Certs[0].Kind != SlotPresent {
		t.Fatalf("C509Certs = %+v", back.C509Certs)
	}
	if back.RoleSet[0].PaymentKeyRef != -1 {
		t.Fatalf("PaymentKeyRef = %d, want -1", back.RoleSet[0].PaymentKeyRef)
	}
}

func TestDecodeEnvelope_MissingFieldsReported(t *testing.T) {
	purpose := hash.NewUuid4()
	entries := map[int]interface{}{
		KeyPurpose: rawUuid(t, purpose),
	}
	wire := encodeTestMap(t, entries)

	c, err := DecodeEnvelope(wire)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if c.Report.IsProblemFree() {
		t.Fatalf("expected missing-field findings, got none")
	}
	if _, ok := c.Consume(); ok {
		t.Fatalf("Consume should fail when required fields are missing")
	}
}

func TestDecodeEnvelope_UndecodableChunkStillReportsMissingFields(t *testing.T) {
	// A well-formed minimal envelope with chunk key 10 only, whose bytes do
	// not decompress as valid Brotli, should still report missing purpose/sig
	// but not crash on chunk reassembly.
	entries := map[int]interface{}{
		KeyChunk1: emptyBrotliStream(t),
	}
	wire := encodeTestMap(t, entries)
	c, err := DecodeEnvelope(wire)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	foundMissingPurpose := false
	for _, e := range c.Report.Entries() {
		if e.Kind == report.MissingField && containsSubstr(e.Detail, "purpose") {
			foundMissingPurpose = true
		}
	}
	if !foundMissingPurpose {
		t.Fatalf("expected a missing purpose finding, entries=%+v", c.Report.Entries())
	}
}

func TestValidatePaymentKey_ZeroMeansNotSet(t *testing.T) {
	rep := report.New("test")
	ok := ValidatePaymentKey(RoleData{PaymentKeyRef: 0}, fakeTx{}, rep)
	if !ok || !rep.IsProblemFree() {
		t.Fatalf("payment_key_ref=0 should always pass, report=%+v", rep.Entries())
	}
}

func TestValidatePaymentKey_PositiveRefChecksInputExists(t *testing.T) {
	rep := report.New("test")
	tx := fakeTx{body: fakeBody{inputs: []TxInput{{}, {}}}}
	if !ValidatePaymentKey(RoleData{PaymentKeyRef: 2}, tx, rep) {
		t.Fatalf("expected ref=2 to resolve against 2 inputs")
	}
	rep2 := report.New("test")
	if ValidatePaymentKey(RoleData{PaymentKeyRef: 5}, tx, rep2) {
		t.Fatalf("expected out-of-range ref to fail")
	}
}

// --- test fixtures ---

type fakeBody struct {
	era     Era
	inputs  []TxInput
	outputs []TxOutput
	auxHash []byte
}

func (b fakeBody) Era() Era                  { return b.era }
func (b fakeBody) Inputs() []TxInput         { return b.inputs }
func (b fakeBody) Outputs() []TxOutput       { return b.outputs }
func (b fakeBody) AuxiliaryDataHash() []byte { return b.auxHash }

type fakeWitnesses struct {
	known map[string][]byte
}

func (w fakeWitnesses) VerifyingKeyFor(keyHash []byte) ([]byte, bool) {
	vk, ok := w.known[string(keyHash)]
	return vk, ok
}

type fakeTx struct {
	body fakeBody
	wit  fakeWitnesses
}

func (t fakeTx) Body() TransactionBody { return t.body }
func (t fakeTx) Witnesses() WitnessSet { return t.wit }

func rawUuid(t *testing.T, u hash.Uuid4) []byte {
	t.Helper()
	b, err := u.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	return b
}

func encodeTestMap(t *testing.T, entries map[int]interface{}) []byte {
	t.Helper()
	wrapped := make(map[int]cbor.RawMessage, len(entries))
	for k, v := range entries {
		if raw, ok := v.([]byte); ok {
			wrapped[k] = cbor.RawMessage(raw)
			continue
		}
		b, err := cbor.Encode(v)
		if err != nil {
			t.Fatalf("encode entry %d: %v", k, err)
		}
		wrapped[k] = cbor.RawMessage(b)
	}
	b, err := cbor.Encode(wrapped)
	if err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	return b
}

// emptyBrotliStream returns a chunk value that is present but does not
// decompress as valid Brotli. This test only exercises missing-field
// reporting around a non-empty chunk slot, so the decompression failure it
// triggers downstream is expected and ignored.
func emptyBrotliStream(t *testing.T) []byte {
	t.Helper()
	b, err := cbor.Encode([]byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("encode chunk bytes: %v", err)
	}
	return b
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

type fakeOutput struct {
	hash []byte
	ok   bool
}

func (o fakeOutput) PaymentKeyHash() ([]byte, bool) { return o.hash, o.ok }

// computeTxnInputsHash rebuilds the same canonical-CBOR preimage
// ValidateTxnInputsHash hashes, so tests can construct a declared
// txn_inputs_hash that is known to match a given input set.
func computeTxnInputsHash(t *testing.T, inputs []TxInput) hash.H128 {
	t.Helper()
	arr := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		arr = append(arr, []interface{}{in.TxHash[:], in.Index})
	}
	encoded, err := cbor.Encode(arr)
	if err != nil {
		t.Fatalf("cbor.Encode: %v", err)
	}
	return hash.Blake2b128(encoded)
}

// --- bech32 (BIP-0173) encoding, test-only: internal/bech32 exposes only
// Decode (the one operation the cross-validator needs), so fixtures that
// need a valid CIP-19 stake address to feed through that decoder build one
// here with the matching reference algorithm. ---

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

func bech32Polymod(values []int) int {
	gen := []int{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := 1
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ v
		for i := 0; i < 5; i++ {
			if (top>>i)&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func bech32HrpExpand(hrp string) []int {
	out := make([]int, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, int(hrp[i])>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, int(hrp[i])&31)
	}
	return out
}

func bech32CreateChecksum(hrp string, data []int) []int {
	values := append(bech32HrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := bech32Polymod(values) ^ 1
	out := make([]int, 6)
	for i := 0; i < 6; i++ {
		out[i] = (mod >> uint(5*(5-i))) & 31
	}
	return out
}

func bech32ConvertBits(data []byte, fromBits, toBits uint) []int {
	acc, bits := 0, uint(0)
	var out []int
	maxv := (1 << toBits) - 1
	for _, b := range data {
		acc = (acc << fromBits) | int(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, (acc>>bits)&maxv)
		}
	}
	if bits > 0 {
		out = append(out, (acc<<(toBits-bits))&maxv)
	}
	return out
}

// encodeStakeAddress builds a CIP-19 mainnet stake address (header byte
// 0xe1: stake-key-hash address type, network id 1) from a 28-byte
// credential hash.
func encodeStakeAddress(t *testing.T, credentialHash []byte) string {
	t.Helper()
	if len(credentialHash) != 28 {
		t.Fatalf("credential hash must be 28 bytes, got %d", len(credentialHash))
	}
	payload := append([]byte{0xe1}, credentialHash...)
	data := bech32ConvertBits(payload, 8, 5)
	checksum := bech32CreateChecksum("stake", data)
	combined := append(data, checksum...)
	var sb strings.Builder
	sb.WriteString("stake1")
	for _, d := range combined {
		sb.WriteByte(bech32Charset[d])
	}
	return sb.String()
}

// mustSelfSignedCertWithURI builds a minimal self-signed X.509 certificate
// DER carrying uri as its sole Subject Alternative Name URI.
func mustSelfSignedCertWithURI(t *testing.T, uri string) []byte {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey: %v", err)
	}
	u, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", uri, err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		URIs:         []*url.URL{u},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	if err != nil {
		t.Fatalf("x509.CreateCertificate: %v", err)
	}
	return der
}

func TestValidateTxnInputsHash_Success(t *testing.T) {
	inputs := []TxInput{{TxHash: [32]byte{1, 2, 3}, Index: 0}}
	expected := computeTxnInputsHash(t, inputs)
	tx := fakeTx{body: fakeBody{era: EraAlonzo, inputs: inputs}}
	rep := report.New("test")
	if !ValidateTxnInputsHash(tx, expected, rep) || !rep.IsProblemFree() {
		t.Fatalf("expected matching txn_inputs_hash to pass, report=%+v", rep.Entries())
	}
}

func TestValidateTxnInputsHash_Mismatch(t *testing.T) {
	inputs := []TxInput{{TxHash: [32]byte{1, 2, 3}, Index: 0}}
	tx := fakeTx{body: fakeBody{era: EraAlonzo, inputs: inputs}}
	rep := report.New("test")
	if ValidateTxnInputsHash(tx, hash.H128{}, rep) || rep.IsProblemFree() {
		t.Fatalf("expected mismatched txn_inputs_hash to fail")
	}
}

func TestValidateTxnInputsHash_UnsupportedEra(t *testing.T) {
	tx := fakeTx{body: fakeBody{era: EraUnsupported}}
	rep := report.New("test")
	if ValidateTxnInputsHash(tx, hash.H128{}, rep) || rep.IsProblemFree() {
		t.Fatalf("expected an unsupported era to fail with a finding")
	}
}

func TestValidateAuxHash_Success(t *testing.T) {
	rawAux := []byte("auxiliary data payload")
	declared := hash.Blake2b256(rawAux)
	body := fakeBody{auxHash: declared[:]}
	rep := report.New("test")
	ok, precomputed := ValidateAuxHash(rawAux, body, rep)
	if !ok || !rep.IsProblemFree() {
		t.Fatalf("expected matching auxiliary-data hash to pass, report=%+v", rep.Entries())
	}
	if len(precomputed) != len(rawAux) {
		t.Fatalf("precomputedAux length = %d, want %d", len(precomputed), len(rawAux))
	}
}

func TestValidateAuxHash_Mismatch(t *testing.T) {
	rawAux := []byte("auxiliary data payload")
	body := fakeBody{auxHash: make([]byte, 32)}
	rep := report.New("test")
	ok, _ := ValidateAuxHash(rawAux, body, rep)
	if ok || rep.IsProblemFree() {
		t.Fatalf("expected a mismatched auxiliary-data hash to fail")
	}
}

func TestValidateAuxHash_MissingDeclaredHash(t *testing.T) {
	rep := report.New("test")
	ok, _ := ValidateAuxHash([]byte("x"), fakeBody{}, rep)
	if ok || rep.IsProblemFree() {
		t.Fatalf("expected a missing auxiliary_data_hash to fail with a finding")
	}
}

func TestValidateStakeKey_X509Found(t *testing.T) {
	credHash := bytes.Repeat([]byte{0xab}, 28)
	der := mustSelfSignedCertWithURI(t, encodeStakeAddress(t, credHash))
	rbac := RbacMetadata{X509Certs: []CertSlot{{Kind: SlotPresent, Value: der}}}
	tx := fakeTx{wit: fakeWitnesses{known: map[string][]byte{string(credHash): []byte("vk")}}}
	rep := report.New("test")
	if !ValidateStakeKey(rbac, tx, rep) || !rep.IsProblemFree() {
		t.Fatalf("expected an X.509 SAN stake key found in witnesses to pass, report=%+v", rep.Entries())
	}
}

func TestValidateStakeKey_X509MissingWitness(t *testing.T) {
	credHash := bytes.Repeat([]byte{0xcd}, 28)
	der := mustSelfSignedCertWithURI(t, encodeStakeAddress(t, credHash))
	rbac := RbacMetadata{X509Certs: []CertSlot{{Kind: SlotPresent, Value: der}}}
	tx := fakeTx{wit: fakeWitnesses{known: map[string][]byte{}}}
	rep := report.New("test")
	if ValidateStakeKey(rbac, tx, rep) || rep.IsProblemFree() {
		t.Fatalf("expected an unmatched X.509 SAN stake key to fail")
	}
	found := false
	for _, e := range rep.Entries() {
		if e.Detail == "Failed to compare public keys with witnesses" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the exact 'Failed to compare public keys with witnesses' finding, got %+v", rep.Entries())
	}
}

func TestValidateStakeKey_C509Found(t *testing.T) {
	credHash := bytes.Repeat([]byte{0xef}, 28)
	tbs := c509.Tbs{
		Type:            3,
		Serial:          c509.NewUnwrappedBigUint(big.NewInt(1)),
		Issuer:          c509.NewCommonName("issuer"),
		Subject:         c509.NewCommonName("subject"),
		SubjectPKAlgo:   1,
		SubjectPK:       []byte{1, 2, 3, 4},
		SubjectAltNames: []interface{}{c509.AltNameURI{URI: encodeStakeAddress(t, credHash)}},
	}
	raw, err := tbs.Encode()
	if err != nil {
		t.Fatalf("Tbs.Encode: %v", err)
	}
	rbac := RbacMetadata{C509Certs: []CertSlot{{Kind: SlotPresent, Value: raw}}}
	tx := fakeTx{wit: fakeWitnesses{known: map[string][]byte{string(credHash): []byte("vk")}}}
	rep := report.New("test")
	if !ValidateStakeKey(rbac, tx, rep) || !rep.IsProblemFree() {
		t.Fatalf("expected a C.509 SAN stake key found in witnesses to pass, report=%+v", rep.Entries())
	}
}

func TestCip509_CrossValidate_ConformingFixturePassesAllFourChecks(t *testing.T) {
	inputs := []TxInput{{TxHash: [32]byte{9, 9, 9}, Index: 0}}
	txnInputsHash := computeTxnInputsHash(t, inputs)
	rawAux := []byte("aux payload")
	auxHash := hash.Blake2b256(rawAux)

	credHash := bytes.Repeat([]byte{0x11}, 28)
	der := mustSelfSignedCertWithURI(t, encodeStakeAddress(t, credHash))
	paymentKeyHash := bytes.Repeat([]byte{0x22}, 28)

	tx := fakeTx{
		body: fakeBody{
			era:     EraAlonzo,
			inputs:  inputs,
			outputs: []TxOutput{fakeOutput{hash: paymentKeyHash, ok: true}},
			auxHash: auxHash[:],
		},
		wit: fakeWitnesses{known: map[string][]byte{
			string(credHash):       []byte("stake-vk"),
			string(paymentKeyHash): []byte("payment-vk"),
		}},
	}

	c := &Cip509{
		TxnInputsHash: txnInputsHash,
		Rbac: RbacMetadata{
			X509Certs: []CertSlot{{Kind: SlotPresent, Value: der}},
			RoleSet:   map[uint8]RoleData{0: {PaymentKeyRef: -1}},
		},
		Report: report.New("test"),
	}

	if !c.CrossValidate(tx, rawAux) || !c.Report.IsProblemFree() {
		t.Fatalf("expected a conforming fixture to pass all four cross-validation checks, report=%+v", c.Report.Entries())
	}
}

func TestCip509_CrossValidate_StakeHashMissingFromWitnessSet(t *testing.T) {
	inputs := []TxInput{{TxHash: [32]byte{9, 9, 9}, Index: 0}}
	txnInputsHash := computeTxnInputsHash(t, inputs)
	rawAux := []byte("aux payload")
	auxHash := hash.Blake2b256(rawAux)

	credHash := bytes.Repeat([]byte{0x33}, 28)
	der := mustSelfSignedCertWithURI(t, encodeStakeAddress(t, credHash))

	tx := fakeTx{
		body: fakeBody{era: EraAlonzo, inputs: inputs, auxHash: auxHash[:]},
		wit:  fakeWitnesses{known: map[string][]byte{}},
	}

	c := &Cip509{
		TxnInputsHash: txnInputsHash,
		Rbac: RbacMetadata{
			X509Certs: []CertSlot{{Kind: SlotPresent, Value: der}},
		},
		Report: report.New("test"),
	}

	if c.CrossValidate(tx, rawAux) {
		t.Fatalf("expected CrossValidate to fail when the stake hash has no matching witness")
	}
	found := false
	for _, e := range c.Report.Entries() {
		if e.Detail == "Failed to compare public keys with witnesses" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the exact 'Failed to compare public keys with witnesses' finding, entries=%+v", c.Report.Entries())
	}
}
