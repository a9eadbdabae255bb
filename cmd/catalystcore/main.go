// Package main implements catalystcore, a minimal diagnostic CLI that
// exercises the signed-document, registration, and ledger decoders end to
// end over a file argument. It is diagnostic tooling only: no networking, no
// persistence, no daemon mode.
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "version", "--version", "-v":
		printVersion()
	case "help", "--help", "-h":
		printUsage()
	case "decode-doc":
		if err := decodeDocCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "decode-cip509":
		if err := decodeCip509Command(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate-block":
		if err := validateBlockCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("catalystcore %s\n", version)
	fmt.Printf("Built: %s\n", buildTime)
}

func printUsage() {
	fmt.Printf(`catalystcore v%s - Catalyst Signed-Document & Registration diagnostic CLI

Usage:
  catalystcore <command> [options]

Commands:
  decode-doc <file>            Decode a signed-document envelope and print its metadata
  decode-cip509 <file>         Decode a CIP-509 registration envelope and print its RBAC contents
  validate-block <file> [prev] Decode a ledger block and validate it, optionally against a previous block file
  version                      Show version information
  help                         Show this message
`, version)
}

func readFileArg(args []string, usage string) ([]byte, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return os.ReadFile(args[0])
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
