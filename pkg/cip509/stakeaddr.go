package cip509

import (
	"crypto/x509"
	"fmt"

	"github.com/input-output-hk/catalyst-libs-go/internal/bech32"
	"github.com/input-output-hk/catalyst-libs-go/pkg/c509"
)

// decodeStakeAddressHash extracts the 28-byte credential hash from a CIP-19
// stake address (bech32, HRP "stake" or "stake_test"): a 1-byte header
// (address type in the top nibble, network id in the bottom nibble)
// followed by the hash.
func decodeStakeAddressHash(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("stake address: %w", err)
	}
	if hrp != "stake" && hrp != "stake_test" {
		return nil, fmt.Errorf("stake address: unexpected HRP %q", hrp)
	}
	if len(data) != 29 {
		return nil, fmt.Errorf("stake address: expected 29-byte payload, got %d", len(data))
	}
	return data[1:], nil
}

// extractStakeHashesFromC509 walks a C.509 TBS certificate's
// SubjectAltNames for URI entries that decode as CIP-19 stake addresses.
func extractStakeHashesFromC509(tbs c509.Tbs) [][]byte {
	var out [][]byte
	for _, alt := range tbs.SubjectAltNames {
		uri, ok := alt.(c509.AltNameURI)
		if !ok {
			continue
		}
		if h, err := decodeStakeAddressHash(uri.URI); err == nil {
			out = append(out, h)
		}
	}
	return out
}

// extractStakeHashesFromX509 DER-parses an X.509 certificate and walks its
// Subject Alternative Name URIs for CIP-19 stake addresses, the same way
// extractStakeHashesFromC509 walks a decoded C.509 TBS body. Only the URI
// SAN entries are read; no other field of the certificate is validated or
// otherwise interpreted, since parsing arbitrary X.509 is out of scope
// beyond this one narrow extraction.
func extractStakeHashesFromX509(der []byte) ([][]byte, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("x509 cert: %w", err)
	}
	var out [][]byte
	for _, u := range cert.URIs {
		if h, err := decodeStakeAddressHash(u.String()); err == nil {
			out = append(out, h)
		}
	}
	return out, nil
}
