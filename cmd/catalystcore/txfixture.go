package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-libs-go/pkg/cip509"
)

// txFixture is the on-disk shape of a diagnostic transaction fixture: a
// minimal, hand-editable stand-in for the Cardano transaction a real CIP-509
// cross-validation run would read out of a decoded block (block/era
// decoding is out of scope here; see pkg/cip509/tx.go). Every byte field is
// hex-encoded.
type txFixture struct {
	Era               string            `json:"era"`
	Inputs            []txFixtureInput  `json:"inputs"`
	Outputs           []txFixtureOutput `json:"outputs"`
	AuxiliaryDataHash string            `json:"auxiliary_data_hash,omitempty"`
	Witnesses         []txFixtureWitness `json:"witnesses"`
}

type txFixtureInput struct {
	TxHash string `json:"tx_hash"`
	Index  uint32 `json:"index"`
}

type txFixtureOutput struct {
	PaymentKeyHash string `json:"payment_key_hash,omitempty"`
}

type txFixtureWitness struct {
	KeyHash      string `json:"key_hash"`
	VerifyingKey string `json:"verifying_key"`
}

func parseEra(s string) cip509.Era {
	switch s {
	case "alonzo":
		return cip509.EraAlonzo
	case "babbage":
		return cip509.EraBabbage
	case "conway":
		return cip509.EraConway
	default:
		return cip509.EraUnsupported
	}
}

type fixtureOutput struct {
	keyHash []byte
	ok      bool
}

func (o fixtureOutput) PaymentKeyHash() ([]byte, bool) { return o.keyHash, o.ok }

type fixtureBody struct {
	era     cip509.Era
	inputs  []cip509.TxInput
	outputs []cip509.TxOutput
	auxHash []byte
}

func (b fixtureBody) Era() cip509.Era                  { return b.era }
func (b fixtureBody) Inputs() []cip509.TxInput         { return b.inputs }
func (b fixtureBody) Outputs() []cip509.TxOutput       { return b.outputs }
func (b fixtureBody) AuxiliaryDataHash() []byte        { return b.auxHash }

type fixtureWitnesses struct {
	byHash map[string][]byte
}

func (w fixtureWitnesses) VerifyingKeyFor(keyHash []byte) ([]byte, bool) {
	vk, ok := w.byHash[string(keyHash)]
	return vk, ok
}

type fixtureTx struct {
	body fixtureBody
	wit  fixtureWitnesses
}

func (t fixtureTx) Body() cip509.TransactionBody { return t.body }
func (t fixtureTx) Witnesses() cip509.WitnessSet { return t.wit }

// loadTxFixture reads and decodes a txFixture JSON file into a cip509.Tx,
// for driving CrossValidate from the command line against a hand-built or
// recorded transaction shape rather than a live block reader.
func loadTxFixture(path string) (cip509.Tx, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tx fixture: %w", err)
	}
	var f txFixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tx fixture: %w", err)
	}

	inputs := make([]cip509.TxInput, 0, len(f.Inputs))
	for _, in := range f.Inputs {
		h, err := hex.DecodeString(in.TxHash)
		if err != nil || len(h) != 32 {
			return nil, fmt.Errorf("tx fixture: input tx_hash must be 32 bytes hex")
		}
		var input cip509.TxInput
		copy(input.TxHash[:], h)
		input.Index = in.Index
		inputs = append(inputs, input)
	}

	outputs := make([]cip509.TxOutput, 0, len(f.Outputs))
	for _, out := range f.Outputs {
		if out.PaymentKeyHash == "" {
			outputs = append(outputs, fixtureOutput{})
			continue
		}
		h, err := hex.DecodeString(out.PaymentKeyHash)
		if err != nil {
			return nil, fmt.Errorf("tx fixture: output payment_key_hash must be hex")
		}
		outputs = append(outputs, fixtureOutput{keyHash: h, ok: true})
	}

	var auxHash []byte
	if f.AuxiliaryDataHash != "" {
		h, err := hex.DecodeString(f.AuxiliaryDataHash)
		if err != nil {
			return nil, fmt.Errorf("tx fixture: auxiliary_data_hash must be hex")
		}
		auxHash = h
	}

	byHash := make(map[string][]byte, len(f.Witnesses))
	for _, w := range f.Witnesses {
		kh, err := hex.DecodeString(w.KeyHash)
		if err != nil {
			return nil, fmt.Errorf("tx fixture: witness key_hash must be hex")
		}
		vk, err := hex.DecodeString(w.VerifyingKey)
		if err != nil {
			return nil, fmt.Errorf("tx fixture: witness verifying_key must be hex")
		}
		byHash[string(kh)] = vk
	}

	return fixtureTx{
		body: fixtureBody{
			era:     parseEra(f.Era),
			inputs:  inputs,
			outputs: outputs,
			auxHash: auxHash,
		},
		wit: fixtureWitnesses{byHash: byHash},
	}, nil
}
