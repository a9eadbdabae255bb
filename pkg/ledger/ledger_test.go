package ledger

import (
	"errors"
	"testing"

	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
)

func testGenesisHeader(t *testing.T) Header {
	t.Helper()
	h := Header{
		ChainID:    hash.NewUuid4(),
		Height:     0,
		Timestamp:  1000,
		LedgerType: hash.NewUuid4(),
		Purpose:    hash.NewUuid4(),
		Validators: []hash.KeyId128{hash.NewKeyId128([]byte("validator-one"))},
		Metadata:   []byte("genesis"),
	}
	preimage, err := EncodeGenesisPreimage(h)
	if err != nil {
		t.Fatalf("EncodeGenesisPreimage: %v", err)
	}
	h.PrevHash = hash.Sum(hash.KindBlake3_256, preimage)
	return h
}

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	b := Block{Header: testGenesisHeader(t), Payload: []byte("payload"), Signatures: [][]byte{[]byte("sig1")}}
	wire, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.Header.ChainID != b.Header.ChainID || back.Header.Height != b.Header.Height {
		t.Fatalf("round trip mismatch: %+v", back.Header)
	}
	if string(back.Payload) != "payload" {
		t.Fatalf("Payload = %q", back.Payload)
	}
}

func TestValidateGenesis_Succeeds(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	if err := genesis.Validate(nil); err != nil {
		t.Fatalf("expected a correctly-built genesis block to validate, got: %v", err)
	}
}

func TestValidateGenesis_WrongPrevHashFails(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	genesis.Header.PrevHash = hash.Sum(hash.KindBlake3_256, []byte("not the preimage"))
	if err := genesis.Validate(nil); !errors.Is(err, ErrGenesisPrevHashWrong) {
		t.Fatalf("Validate = %v, want ErrGenesisPrevHashWrong", err)
	}
}

func TestValidateStandard_Succeeds(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	genesisBytes, err := genesis.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	next := genesis
	next.Header.Height = 1
	next.Header.Timestamp = genesis.Header.Timestamp + 1
	next.Header.PrevHash = hash.Sum(hash.KindBlake3_256, genesisBytes)
	next.Payload = []byte("block one")

	if err := next.Validate(&genesis); err != nil {
		t.Fatalf("expected a correctly-chained block to validate, got: %v", err)
	}
}

func TestValidateStandard_HeightSkipFails(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	next := genesis
	next.Header.Height = 2
	next.Header.Timestamp = genesis.Header.Timestamp + 1
	if err := next.Validate(&genesis); !errors.Is(err, ErrHeightSkip) {
		t.Fatalf("Validate = %v, want ErrHeightSkip", err)
	}
}

func TestValidateStandard_NonMonotonicTimestampFails(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	next := genesis
	next.Header.Height = 1
	next.Header.Timestamp = genesis.Header.Timestamp
	if err := next.Validate(&genesis); !errors.Is(err, ErrNonMonotonicTimestamp) {
		t.Fatalf("Validate = %v, want ErrNonMonotonicTimestamp", err)
	}
}

func TestValidateStandard_ChainIDMismatchFails(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	next := genesis
	next.Header.Height = 1
	next.Header.Timestamp = genesis.Header.Timestamp + 1
	next.Header.ChainID = hash.NewUuid4()
	if err := next.Validate(&genesis); !errors.Is(err, ErrChainIDMismatch) {
		t.Fatalf("Validate = %v, want ErrChainIDMismatch", err)
	}
}

func TestValidateStandard_PrevHashMismatchFails(t *testing.T) {
	genesis := Block{Header: testGenesisHeader(t)}
	next := genesis
	next.Header.Height = 1
	next.Header.Timestamp = genesis.Header.Timestamp + 1
	next.Header.PrevHash = hash.Sum(hash.KindBlake3_256, []byte("wrong preimage"))
	if err := next.Validate(&genesis); !errors.Is(err, ErrPrevHashMismatch) {
		t.Fatalf("Validate = %v, want ErrPrevHashMismatch", err)
	}
}
