// Package brotli wraps andybalholm/brotli for the one place the registration
// decoder needs decompression: CIP-509 RBAC payloads are Brotli-compressed
// before being split across auxiliary-data chunk keys.
package brotli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Decompress inflates a Brotli-compressed buffer in full. RBAC payloads are
// small (well under a megabyte in practice), so reading to completion rather
// than streaming is the simpler and correct choice here.
func Decompress(data []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("brotli: decompress: %w", err)
	}
	return out, nil
}
