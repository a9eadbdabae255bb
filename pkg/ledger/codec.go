package ledger

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
)

// TagTimestamp is the CBOR tag (1) spec §4.5 assigns to the header's
// timestamp field.
const TagTimestamp = 1

// timestamp wraps Header.Timestamp for tag-1 CBOR encoding.
type timestamp int64

func (t timestamp) MarshalCBOR() ([]byte, error) {
	return fxcbor.Marshal(fxcbor.Tag{Number: TagTimestamp, Content: int64(t)})
}

func (t *timestamp) UnmarshalCBOR(data []byte) error {
	var tag fxcbor.Tag
	if err := fxcbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("ledger: timestamp not tagged: %w", err)
	}
	if tag.Number != TagTimestamp {
		return fmt.Errorf("ledger: expected tag %d, got %d", TagTimestamp, tag.Number)
	}
	var n int64
	switch v := tag.Content.(type) {
	case int64:
		n = v
	case uint64:
		if v > 1<<63-1 {
			return fmt.Errorf("ledger: timestamp %d overflows int64", v)
		}
		n = int64(v)
	default:
		return fmt.Errorf("ledger: timestamp tag content is not an integer")
	}
	*t = timestamp(n)
	return nil
}

// headerWire is the positional 8-element CBOR shape of Header (spec §4.5/§3).
type headerWire struct {
	_          struct{} `cbor:",toarray"`
	ChainID    hash.Uuid4
	Height     int64
	Timestamp  timestamp
	PrevHash   hash.HashBytes
	LedgerType hash.Uuid4
	Purpose    hash.Uuid4
	Validators []hash.KeyId128
	Metadata   []byte
}

func (h Header) toWire() headerWire {
	return headerWire{
		ChainID: h.ChainID, Height: h.Height, Timestamp: timestamp(h.Timestamp),
		PrevHash: h.PrevHash, LedgerType: h.LedgerType, Purpose: h.Purpose,
		Validators: h.Validators, Metadata: h.Metadata,
	}
}

func (w headerWire) fromWire() Header {
	return Header{
		ChainID: w.ChainID, Height: w.Height, Timestamp: int64(w.Timestamp),
		PrevHash: w.PrevHash, LedgerType: w.LedgerType, Purpose: w.Purpose,
		Validators: w.Validators, Metadata: w.Metadata,
	}
}

// EncodeHeader produces the canonical-CBOR encoding of h alone, used both as
// part of Block.Encode and directly for hashing (prev_hash computation).
func EncodeHeader(h Header) ([]byte, error) {
	return cbor.Encode(h.toWire())
}

// genesisPreimage is the canonical-CBOR map hashed to validate a genesis
// block's prev_hash (spec §4.5: "{chain_id, timestamp, ledger_type, purpose,
// validators}", notably excluding height, prev_hash, and metadata).
type genesisPreimage struct {
	ChainID    hash.Uuid4      `cbor:"0,keyasint"`
	Timestamp  timestamp       `cbor:"1,keyasint"`
	LedgerType hash.Uuid4      `cbor:"2,keyasint"`
	Purpose    hash.Uuid4      `cbor:"3,keyasint"`
	Validators []hash.KeyId128 `cbor:"4,keyasint"`
}

// EncodeGenesisPreimage produces the canonical-CBOR bytes hashed for a
// genesis block's prev_hash field.
func EncodeGenesisPreimage(h Header) ([]byte, error) {
	return cbor.Encode(genesisPreimage{
		ChainID: h.ChainID, Timestamp: timestamp(h.Timestamp),
		LedgerType: h.LedgerType, Purpose: h.Purpose, Validators: h.Validators,
	})
}

// blockWire is the positional 3-element CBOR shape of Block (spec §4.5).
type blockWire struct {
	_          struct{} `cbor:",toarray"`
	Header     headerWire
	Payload    []byte
	Signatures [][]byte
}

// Encode produces the canonical-CBOR `[header, payload, signatures]` tuple.
func (b Block) Encode() ([]byte, error) {
	return cbor.Encode(blockWire{Header: b.Header.toWire(), Payload: b.Payload, Signatures: b.Signatures})
}

// Decode parses canonical CBOR into a Block.
func Decode(data []byte) (Block, error) {
	var w blockWire
	if err := cbor.Decode(data, &w); err != nil {
		return Block{}, fmt.Errorf("ledger: decode block: %w", err)
	}
	return Block{Header: w.Header.fromWire(), Payload: w.Payload, Signatures: w.Signatures}, nil
}
