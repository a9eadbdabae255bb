package cip509

import (
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/pkg/c509"
	"github.com/input-output-hk/catalyst-libs-go/pkg/cbor"
	"github.com/input-output-hk/catalyst-libs-go/pkg/hash"
	"github.com/input-output-hk/catalyst-libs-go/pkg/report"
)

// ValidateTxnInputsHash re-encodes the transaction's input set as a
// canonical CBOR array, BLAKE2b-128-hashes it, and compares against the
// envelope's declared txn_inputs_hash. Eras outside Alonzo/Babbage/Conway
// record "unsupported era" and skip the check (spec §4.3).
func ValidateTxnInputsHash(tx Tx, expected hash.H128, rep *report.Report) bool {
	body := tx.Body()
	switch body.Era() {
	case EraAlonzo, EraBabbage, EraConway:
	default:
		rep.Push(report.FunctionalValidation, ctx, "unsupported era for txn_inputs_hash check")
		return false
	}

	inputs := body.Inputs()
	arr := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		arr = append(arr, []interface{}{in.TxHash[:], in.Index})
	}
	encoded, err := cbor.Encode(arr)
	if err != nil {
		rep.Push(report.ConversionError, ctx, fmt.Sprintf("encode inputs: %v", err))
		return false
	}
	got := hash.Blake2b128(encoded)
	if got != expected {
		rep.Push(report.FunctionalValidation, ctx, "txn_inputs_hash mismatch")
		return false
	}
	return true
}

// ValidateAuxHash BLAKE2b-256-hashes the raw auxiliary-data CBOR and
// compares it against the transaction body's declared auxiliary_data_hash.
// It also returns the "precomputed auxiliary" value: a copy of rawAux with
// its last 64 bytes zeroed, the preimage the signer would have signed before
// embedding the validation signature itself into the bytes being hashed.
func ValidateAuxHash(rawAux []byte, body TransactionBody, rep *report.Report) (ok bool, precomputedAux []byte) {
	declared := body.AuxiliaryDataHash()
	if declared == nil {
		rep.Push(report.MissingField, ctx, "transaction body has no auxiliary_data_hash")
		return false, nil
	}
	got := hash.Blake2b256(rawAux)
	if len(declared) != len(got) || !bytesEqual(declared, got[:]) {
		rep.Push(report.FunctionalValidation, ctx, "auxiliary-data hash mismatch")
		ok = false
	} else {
		ok = true
	}

	precomputedAux = make([]byte, len(rawAux))
	copy(precomputedAux, rawAux)
	zeroFrom := len(precomputedAux) - 64
	if zeroFrom < 0 {
		zeroFrom = 0
	}
	for i := zeroFrom; i < len(precomputedAux); i++ {
		precomputedAux[i] = 0
	}
	return ok, precomputedAux
}

func bytesEqual(a, b []byte) bool {
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

// ValidateStakeKey extracts stake-address hashes from every present X.509
// and C.509 certificate's Subject Alternative Names and confirms each has a
// matching witness, resolving to its verifying key. It returns false and
// records one "Failed to compare public keys with witnesses" finding per
// unmatched hash.
func ValidateStakeKey(rbac RbacMetadata, tx Tx, rep *report.Report) bool {
	witnesses := tx.Witnesses()
	allOK := true

	checkHashes := func(hashes [][]byte) {
		for _, h := range hashes {
			if _, found := witnesses.VerifyingKeyFor(h); !found {
				rep.Push(report.FunctionalValidation, ctx, "Failed to compare public keys with witnesses")
				allOK = false
			}
		}
	}

	for _, slot := range rbac.X509Certs {
		if slot.Kind != SlotPresent {
			continue
		}
		der, ok := slot.Value.([]byte)
		if !ok {
			continue
		}
		hashes, err := extractStakeHashesFromX509(der)
		if err != nil {
			rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("x509 cert: %v", err))
			allOK = false
			continue
		}
		checkHashes(hashes)
	}

	for _, slot := range rbac.C509Certs {
		if slot.Kind != SlotPresent {
			continue
		}
		raw, ok := slot.Value.([]byte)
		if !ok {
			continue
		}
		tbs, err := c509.Decode(raw)
		if err != nil {
			rep.Push(report.InvalidEncoding, ctx, fmt.Sprintf("c509 cert: %v", err))
			allOK = false
			continue
		}
		checkHashes(extractStakeHashesFromC509(tbs))
	}

	return allOK
}

// ValidatePaymentKey resolves role.PaymentKeyRef against the transaction's
// inputs/outputs per spec §4.3: negative refs point at an output (the
// output's payment-key hash must be witnessed), positive refs merely assert
// an input exists at that index, and zero means "not set" (always passes).
func ValidatePaymentKey(role RoleData, tx Tx, rep *report.Report) bool {
	ref := role.PaymentKeyRef
	if ref == 0 {
		return true
	}
	body := tx.Body()
	if ref > 0 {
		idx := int(ref) - 1
		inputs := body.Inputs()
		if idx < 0 || idx >= len(inputs) {
			rep.Push(report.FunctionalValidation, ctx, "payment_key_ref input index out of range")
			return false
		}
		return true
	}

	idx := int(-ref) - 1
	outputs := body.Outputs()
	if idx < 0 || idx >= len(outputs) {
		rep.Push(report.FunctionalValidation, ctx, "payment_key_ref output index out of range")
		return false
	}
	keyHash, ok := outputs[idx].PaymentKeyHash()
	if !ok {
		rep.Push(report.FunctionalValidation, ctx, "payment_key_ref output has no payment-key credential")
		return false
	}
	if _, found := tx.Witnesses().VerifyingKeyFor(keyHash); !found {
		rep.Push(report.FunctionalValidation, ctx, "payment key hash not found in witness set")
		return false
	}
	return true
}

// CrossValidate runs all four cross-transaction checks against tx in the
// fixed order spec §4.3/§5 requires: txn-inputs hash, auxiliary-data hash,
// role-0 stake key, role-0 payment key. rawAux is the raw auxiliary-data CBOR
// the envelope was carried under; findings from every check accumulate on
// c.Report alongside whatever envelope/chunk decoding already recorded.
// There being no role 0 in the RBAC role set skips the payment-key check
// (there is nothing to validate) without recording a finding.
func (c *Cip509) CrossValidate(tx Tx, rawAux []byte) bool {
	okInputs := ValidateTxnInputsHash(tx, c.TxnInputsHash, c.Report)
	okAux, _ := ValidateAuxHash(rawAux, tx.Body(), c.Report)
	okStake := ValidateStakeKey(c.Rbac, tx, c.Report)

	okPayment := true
	if role0, ok := c.Rbac.RoleSet[0]; ok {
		okPayment = ValidatePaymentKey(role0, tx, c.Report)
	}

	return okInputs && okAux && okStake && okPayment
}
