// Package ledger implements the standalone immutable-block ledger (spec
// §4.5): a canonical-CBOR 3-tuple block format with genesis and standard
// chaining rules, sharing the same hashing discipline (BLAKE3, BLAKE2b-512,
// tagged UUIDs/timestamps) as the rest of this module.
package ledger

import (
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
)

// Header is the 8-element block header (spec §3).
type Header struct {
	ChainID    hash.Uuid4
	Height     int64
	Timestamp  int64 // ms since Unix epoch, CBOR tag 1
	PrevHash   hash.HashBytes
	LedgerType hash.Uuid4
	Purpose    hash.Uuid4
	Validators []hash.KeyId128
	Metadata   []byte
}

// IsGenesis reports whether h is a genesis header (height 0).
func (h Header) IsGenesis() bool { return h.Height == 0 }

// Block is the canonical CBOR 3-tuple `[header, payload, signatures]`
// (spec §4.5). Validator signatures sign `H_kind(header_bytes) ‖
// payload_bytes`; verifying those signatures is delegated to the caller's
// crypto primitive and is not part of this package's contract.
type Block struct {
	Header     Header
	Payload    []byte
	Signatures [][]byte
}
