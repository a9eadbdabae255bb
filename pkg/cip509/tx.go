package cip509

// Era names the Cardano ledger era a transaction body was decoded from.
// Cross-validation dispatches on era because the input-set and output
// encodings differ across them (spec §4.3).
type Era uint8

const (
	EraAlonzo Era = iota
	EraBabbage
	EraConway
	EraUnsupported
)

// TxInput is a transaction input reference, the minimal shape the
// inputs-hash check and the payment-key-ref ">0" case need.
type TxInput struct {
	TxHash [32]byte
	Index  uint32
}

// TxOutput is the minimal surface cross-validation reads from a transaction
// output: its payment-key credential hash, when the output's address carries
// one (it may instead carry a script hash, in which case ok is false).
type TxOutput interface {
	PaymentKeyHash() (hash []byte, ok bool)
}

// WitnessSet resolves a key hash to the verifying key that produced it, if
// any witness in the transaction covers that hash.
type WitnessSet interface {
	VerifyingKeyFor(keyHash []byte) (verifyingKey []byte, ok bool)
}

// TransactionBody is the minimal read-only surface of a Cardano transaction
// body that CIP-509 cross-validation needs: its era, its inputs and outputs,
// and the auxiliary-data hash it committed to. It is sized exactly to what
// §4.3 reads, not a general ledger transaction type (spec §1 Non-goals
// excludes block fetching and general ledger modelling).
type TransactionBody interface {
	Era() Era
	Inputs() []TxInput
	Outputs() []TxOutput
	AuxiliaryDataHash() []byte // nil if the transaction carries no auxiliary data
}

// Tx is a transaction together with its witness set.
type Tx interface {
	Body() TransactionBody
	Witnesses() WitnessSet
}
