package main

import (
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-libs-go/pkg/ledger"
)

type blockView struct {
	ChainID    string `json:"chain_id"`
	Height     int64  `json:"height"`
	IsGenesis  bool   `json:"is_genesis"`
	Validators int    `json:"validator_count"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

func validateBlockCommand(args []string) error {
	data, err := readFileArg(args, "catalystcore validate-block <file> [previous-file]")
	if err != nil {
		return err
	}

	block, err := ledger.Decode(data)
	if err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	var previous *ledger.Block
	if len(args) >= 2 {
		prevData, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read previous block file: %w", err)
		}
		prevBlock, err := ledger.Decode(prevData)
		if err != nil {
			return fmt.Errorf("decode previous block: %w", err)
		}
		previous = &prevBlock
	}

	view := blockView{
		ChainID:    block.Header.ChainID.String(),
		Height:     block.Header.Height,
		IsGenesis:  block.Header.IsGenesis(),
		Validators: len(block.Header.Validators),
		Valid:      true,
	}
	if err := block.Validate(previous); err != nil {
		view.Valid = false
		view.Error = err.Error()
	}
	return printJSON(view)
}
