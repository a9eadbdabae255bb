// Package cip509 decodes and cross-validates the CIP-509 registration
// envelope carried in Cardano auxiliary data under metadata label 509: a
// chunked, Brotli-compressed RBAC payload plus the fields needed to tie it
// back to the transaction that carries it (spec §4.3).
package cip509

import (
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

// Envelope map keys, spec §3/§4.3.
const (
	KeyPurpose             = 0
	KeyTxnInputsHash        = 1
	KeyPrevTxId             = 2
	KeyChunk1               = 10
	KeyChunk2               = 11
	KeyChunk3               = 12
	KeyValidationSignature  = 99
)

// CertSlotKind is the RBAC sum type `{ Present(cert) | Deleted | Undefined }`
// that lets an update selectively overwrite or remove a cert/key slot by
// index without disturbing the others.
type CertSlotKind uint8

const (
	SlotUndefined CertSlotKind = iota
	SlotPresent
	SlotDeleted
)

// CertSlot is one entry of the X.509/C.509/public-key sets. Value is nil
// unless Kind == SlotPresent.
type CertSlot struct {
	Kind  CertSlotKind
	Value interface{} // []byte: X.509 DER, encoded C.509 TBS, or raw Ed25519 key
}

// RoleData is one entry of the RBAC role_set: role_number -> capabilities.
// Reference fields are offsets into the surrounding cert/key sets; a negative
// PaymentKeyRef means "transaction output index", positive "transaction
// input index", and 0 means "not set" (spec §3).
type RoleData struct {
	SigningKeyRefs    []int16
	EncryptionKeyRefs []int16
	PaymentKeyRef     int16
	ExtendedData      []byte
}

// RbacMetadata is the payload recovered after chunk reassembly and Brotli
// decompression.
type RbacMetadata struct {
	X509Certs        []CertSlot
	C509Certs        []CertSlot
	PublicKeys       []CertSlot
	RevocationHashes [][]byte
	RoleSet          map[uint8]RoleData
}

// Cip509 is the fully-decoded registration: the envelope fields plus the
// reassembled RBAC metadata and the problem report accumulated while getting
// there. Per spec §4.3, Consume only succeeds if every required field was
// seen and the report is problem-free.
type Cip509 struct {
	Purpose             hash.Uuid4
	TxnInputsHash        hash.H128
	PrevTxId             *hash.H256
	Rbac                 RbacMetadata
	ValidationSignature  []byte
	Report               *report.Report

	sawPurpose   bool
	sawInputHash bool
	sawChunks    bool
	sawSig       bool
}

// Consume reports whether every required field was present and the report is
// problem-free (spec §4.3 "Output contract").
func (c *Cip509) Consume() (Cip509, bool) {
	ok := c.sawPurpose && c.sawInputHash && c.sawChunks && c.sawSig && c.Report.IsProblemFree()
	return *c, ok
}
