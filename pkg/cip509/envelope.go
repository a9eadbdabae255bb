package cip509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/internal/brotli"
	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

const ctx = "cip509"

// DecodeEnvelope decodes the outer CIP-509 canonical-CBOR map (the value of
// auxiliary-data label 509), reassembles and decodes its chunked RBAC
// payload, and returns the result together with the problem report
// accumulated while doing so. Hard CBOR-framing errors abort with a Go
// error; everything else (missing/duplicate/unknown fields, bad chunk data)
// is recorded on the report instead (spec §4.3, §7).
func DecodeEnvelope(data []byte) (*Cip509, error) {
	d := cbor.NewDecoder(data, cbor.Strict)
	entries, err := d.DecodeMap()
	if err != nil {
		return nil, fmt.Errorf("cip509: decode envelope map: %w", err)
	}
	if d.Len() != 0 {
		return nil, fmt.Errorf("cip509: %d trailing bytes after envelope map", d.Len())
	}

	rep := report.New(ctx)
	c := &Cip509{Report: rep}
	seen := map[int64]bool{}
	var chunk10, chunk11, chunk12 []byte

	for _, e := range entries {
		var key int64
		if err := cbor.Decode(e.KeyRaw, &key); err != nil {
			rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("non-integer envelope key: %v", err))
			continue
		}
		if seen[key] {
			rep.DuplicateFieldFound(ctx, fmt.Sprintf("key %d", key))
			continue
		}
		seen[key] = true

		switch key {
		case KeyPurpose:
			var u hash.Uuid4
			if err := cbor.Decode(e.ValRaw, &u); err != nil {
				rep.Push(report.InvalidValue, ctx, fmt.Sprintf("purpose: %v", err))
				continue
			}
			c.Purpose = u
			c.sawPurpose = true
		case KeyTxnInputsHash:
			var b []byte
			if err := cbor.Decode(e.ValRaw, &b); err != nil || len(b) != 16 {
				rep.Push(report.InvalidValue, ctx, "txn_inputs_hash must be 16 bytes")
				continue
			}
			copy(c.TxnInputsHash[:], b)
			c.sawInputHash = true
		case KeyPrevTxId:
			var b []byte
			if err := cbor.Decode(e.ValRaw, &b); err != nil || len(b) != 32 {
				rep.Push(report.InvalidValue, ctx, "prev_tx_id must be 32 bytes")
				continue
			}
			var h hash.H256
			copy(h[:], b)
			c.PrevTxId = &h
		case KeyChunk1:
			chunk10, err = decodeChunkBytes(e.ValRaw)
			if err != nil {
				rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("chunk 10: %v", err))
			}
		case KeyChunk2:
			chunk11, err = decodeChunkBytes(e.ValRaw)
			if err != nil {
				rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("chunk 11: %v", err))
			}
		case KeyChunk3:
			chunk12, err = decodeChunkBytes(e.ValRaw)
			if err != nil {
				rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("chunk 12: %v", err))
			}
		case KeyValidationSignature:
			var b []byte
			if err := cbor.Decode(e.ValRaw, &b); err != nil || len(b) == 0 || len(b) > 64 {
				rep.Push(report.InvalidValue, ctx, "validation_signature must be 1..64 bytes")
				continue
			}
			c.ValidationSignature = b
			c.sawSig = true
		default:
			rep.Push(report.UnknownField, ctx, fmt.Sprintf("unknown envelope key %d", key))
		}
	}

	if !c.sawPurpose {
		rep.MissingField(ctx, "purpose")
	}
	if !c.sawInputHash {
		rep.MissingField(ctx, "txn_inputs_hash")
	}
	if !c.sawSig {
		rep.MissingField(ctx, "validation_signature")
	}

	if chunk10 != nil || chunk11 != nil || chunk12 != nil {
		rbac, err := reassembleAndDecode(chunk10, chunk11, chunk12)
		if err != nil {
			rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("rbac payload: %v", err))
		} else {
			c.Rbac = rbac
			c.sawChunks = true
		}
	} else {
		rep.MissingField(ctx, "chunk-metadata")
	}

	return c, nil
}

func decodeChunkBytes(raw []byte) ([]byte, error) {
	var b []byte
	if err := cbor.Decode(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

func reassembleAndDecode(chunk10, chunk11, chunk12 []byte) (RbacMetadata, error) {
	joined := reassembleChunks(chunk10, chunk11, chunk12)
	raw, err := brotli.Decompress(joined)
	if err != nil {
		return RbacMetadata{}, fmt.Errorf("decompress: %w", err)
	}
	return decodeRbac(raw)
}
