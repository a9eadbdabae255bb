package cip509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
)

// RBAC payload map keys, chosen for this codec since the surrounding spec
// fixes the semantics (cert/key sets, revocation hashes, role_set) but not a
// wire grammar for them; recorded as an implementation choice in DESIGN.md.
const (
	rbacKeyX509Certs        = 0
	rbacKeyC509Certs        = 1
	rbacKeyPublicKeys       = 2
	rbacKeyRevocationHashes = 3
	rbacKeyRoleSet          = 4
)

// decodeRbac decodes the Brotli-decompressed RBAC payload (post chunk
// reassembly) into typed metadata.
func decodeRbac(raw []byte) (RbacMetadata, error) {
	d := cbor.NewDecoder(raw, cbor.Strict)
	entries, err := d.DecodeMap()
	if err != nil {
		return RbacMetadata{}, fmt.Errorf("rbac map: %w", err)
	}
	if d.Len() != 0 {
		return RbacMetadata{}, fmt.Errorf("%d trailing bytes after rbac map", d.Len())
	}

	var out RbacMetadata
	for _, e := range entries {
		var key int64
		if err := cbor.Decode(e.KeyRaw, &key); err != nil {
			return RbacMetadata{}, fmt.Errorf("rbac key: %w", err)
		}
		switch key {
		case rbacKeyX509Certs:
			slots, err := decodeSlotArray(e.ValRaw)
			if err != nil {
				return RbacMetadata{}, fmt.Errorf("x509_certs: %w", err)
			}
			out.X509Certs = slots
		case rbacKeyC509Certs:
			slots, err := decodeSlotArray(e.ValRaw)
			if err != nil {
				return RbacMetadata{}, fmt.Errorf("c509_certs: %w", err)
			}
			out.C509Certs = slots
		case rbacKeyPublicKeys:
			slots, err := decodeSlotArray(e.ValRaw)
			if err != nil {
				return RbacMetadata{}, fmt.Errorf("public_keys: %w", err)
			}
			out.PublicKeys = slots
		case rbacKeyRevocationHashes:
			var hashes [][]byte
			if err := cbor.Decode(e.ValRaw, &hashes); err != nil {
				return RbacMetadata{}, fmt.Errorf("revocation_hashes: %w", err)
			}
			out.RevocationHashes = hashes
		case rbacKeyRoleSet:
			roles, err := decodeRoleSet(e.ValRaw)
			if err != nil {
				return RbacMetadata{}, fmt.Errorf("role_set: %w", err)
			}
			out.RoleSet = roles
		}
	}
	if out.RoleSet == nil {
		out.RoleSet = map[uint8]RoleData{}
	}
	return out, nil
}

// slotWire is the CBOR-visible shape of one CertSlot: [kind, value], value
// empty for Deleted/Undefined. The `toarray` tag makes fxamacker/cbor encode
// this struct positionally instead of as a field-name map.
type slotWire struct {
	_     struct{} `cbor:",toarray"`
	Kind  uint8
	Value []byte
}

func decodeSlotArray(raw []byte) ([]CertSlot, error) {
	var wire []slotWire
	if err := cbor.Decode(raw, &wire); err != nil {
		return nil, err
	}
	out := make([]CertSlot, 0, len(wire))
	for _, w := range wire {
		slot := CertSlot{Kind: CertSlotKind(w.Kind)}
		if slot.Kind == SlotPresent {
			slot.Value = w.Value
		}
		out = append(out, slot)
	}
	return out, nil
}

func encodeSlotArray(slots []CertSlot) ([]slotWire, error) {
	wire := make([]slotWire, 0, len(slots))
	for _, s := range slots {
		w := slotWire{Kind: uint8(s.Kind)}
		if s.Kind == SlotPresent {
			b, ok := s.Value.([]byte)
			if !ok {
				return nil, fmt.Errorf("present slot value must be []byte, got %T", s.Value)
			}
			w.Value = b
		}
		wire = append(wire, w)
	}
	return wire, nil
}

// roleWire is the CBOR-visible shape of one RoleData: a 4-element array.
type roleWire struct {
	_                 struct{} `cbor:",toarray"`
	SigningKeyRefs    []int16
	EncryptionKeyRefs []int16
	PaymentKeyRef     int16
	ExtendedData      []byte
}

func decodeRoleSet(raw []byte) (map[uint8]RoleData, error) {
	var wire map[uint8]roleWire
	if err := cbor.Decode(raw, &wire); err != nil {
		return nil, err
	}
	out := make(map[uint8]RoleData, len(wire))
	for k, v := range wire {
		out[k] = RoleData{
			SigningKeyRefs:    v.SigningKeyRefs,
			EncryptionKeyRefs: v.EncryptionKeyRefs,
			PaymentKeyRef:     v.PaymentKeyRef,
			ExtendedData:      v.ExtendedData,
		}
	}
	return out, nil
}

// EncodeRbac produces the canonical-CBOR wire form consumed by decodeRbac,
// used by registration-chain tests and by anything constructing a fixture
// envelope.
func EncodeRbac(m RbacMetadata) ([]byte, error) {
	x509Wire, err := encodeSlotArray(m.X509Certs)
	if err != nil {
		return nil, fmt.Errorf("x509_certs: %w", err)
	}
	c509Wire, err := encodeSlotArray(m.C509Certs)
	if err != nil {
		return nil, fmt.Errorf("c509_certs: %w", err)
	}
	pkWire, err := encodeSlotArray(m.PublicKeys)
	if err != nil {
		return nil, fmt.Errorf("public_keys: %w", err)
	}
	roleWireMap := make(map[uint8]roleWire, len(m.RoleSet))
	for k, v := range m.RoleSet {
		roleWireMap[k] = roleWire{
			SigningKeyRefs:    v.SigningKeyRefs,
			EncryptionKeyRefs: v.EncryptionKeyRefs,
			PaymentKeyRef:     v.PaymentKeyRef,
			ExtendedData:      v.ExtendedData,
		}
	}

	payload := map[int]interface{}{
		rbacKeyX509Certs:        x509Wire,
		rbacKeyC509Certs:        c509Wire,
		rbacKeyPublicKeys:       pkWire,
		rbacKeyRevocationHashes: m.RevocationHashes,
		rbacKeyRoleSet:          roleWireMap,
	}
	return cbor.Encode(payload)
}
