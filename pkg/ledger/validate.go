package ledger

import (
	"errors"

	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
)

// Distinct validation-failure sentinels (spec §8: "validate must fail with a
// distinct reason string"), in the style of pkg/wire's per-condition error
// constructors, generalized from that package's code+reason struct to plain
// errors.Is-friendly sentinels since ledger validation has no caller-facing
// retry/error-code contract to carry.
var (
	ErrChainIDMismatch       = errors.New("ledger: chain_id does not match previous block")
	ErrLedgerTypeMismatch    = errors.New("ledger: ledger_type does not match previous block")
	ErrPurposeMismatch       = errors.New("ledger: purpose does not match previous block")
	ErrValidatorsMismatch    = errors.New("ledger: validators do not match previous block")
	ErrHeightSkip            = errors.New("ledger: height is not previous height + 1")
	ErrNonMonotonicTimestamp = errors.New("ledger: timestamp does not exceed previous block's timestamp")
	ErrPrevHashMismatch      = errors.New("ledger: prev_hash does not match the hash of the previous block")
	ErrGenesisHeightNonzero  = errors.New("ledger: genesis block must have height 0")
	ErrGenesisPrevHashWrong  = errors.New("ledger: genesis prev_hash does not match the genesis preimage hash")
)

func validatorsEqual(a, b []hash.KeyId128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate checks b against the chaining rules of spec §4.5. previous == nil
// validates b as a genesis block; otherwise b is checked as the successor of
// *previous.
func (b Block) Validate(previous *Block) error {
	if previous == nil {
		return b.validateGenesis()
	}
	return b.validateStandard(*previous)
}

func (b Block) validateGenesis() error {
	if b.Header.Height != 0 {
		return ErrGenesisHeightNonzero
	}
	preimage, err := EncodeGenesisPreimage(b.Header)
	if err != nil {
		return err
	}
	want := hash.Sum(b.Header.PrevHash.Kind, preimage)
	if !b.Header.PrevHash.Equal(want) {
		return ErrGenesisPrevHashWrong
	}
	return nil
}

func (b Block) validateStandard(previous Block) error {
	if !b.Header.ChainID.Equal(previous.Header.ChainID) {
		return ErrChainIDMismatch
	}
	if !b.Header.LedgerType.Equal(previous.Header.LedgerType) {
		return ErrLedgerTypeMismatch
	}
	if !b.Header.Purpose.Equal(previous.Header.Purpose) {
		return ErrPurposeMismatch
	}
	if !validatorsEqual(b.Header.Validators, previous.Header.Validators) {
		return ErrValidatorsMismatch
	}
	if b.Header.Height != previous.Header.Height+1 {
		return ErrHeightSkip
	}
	if b.Header.Timestamp <= previous.Header.Timestamp {
		return ErrNonMonotonicTimestamp
	}

	prevBlockEncoded, err := previous.Encode()
	if err != nil {
		return err
	}

	// The whole previous block is hashed, not just its header: payload and
	// signatures are part of what a successor commits to.
	want := hash.Sum(b.Header.PrevHash.Kind, prevBlockEncoded)
	if !b.Header.PrevHash.Equal(want) {
		return ErrPrevHashMismatch
	}
	return nil
}
