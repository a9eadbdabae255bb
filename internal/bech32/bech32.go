// Package bech32 implements plain Bech32 decoding (BIP-0173) for CIP-19
// Cardano stake addresses. No library in the retrieved example pack offers a
// Cardano-flavoured bech32 codec, so this is a direct, narrowly-scoped
// implementation of the one operation the registration cross-validator
// needs: recovering an address's human-readable part and raw payload.
package bech32

import (
	"fmt"
	"strings"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetIndex = func() map[byte]int {
	m := make(map[byte]int, len(charset))
	for i := 0; i < len(charset); i++ {
		m[charset[i]] = i
	}
	return m
}()

// Decode splits a bech32 string into its human-readable part and the
// 8-bit-regrouped payload (the checksum and padding bits are discarded, the
// version/witness byte if any is left in the payload as-is).
func Decode(s string) (hrp string, data []byte, err error) {
	if len(s) < 8 || len(s) > 90 {
		return "", nil, fmt.Errorf("bech32: invalid length %d", len(s))
	}
	lower := strings.ToLower(s)
	upper := strings.ToUpper(s)
	if s != lower && s != upper {
		return "", nil, fmt.Errorf("bech32: mixed case")
	}
	s = lower

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 || sep+7 > len(s) {
		return "", nil, fmt.Errorf("bech32: separator not found")
	}
	hrp = s[:sep]
	dataPart := s[sep+1:]

	values := make([]int, len(dataPart))
	for i := 0; i < len(dataPart); i++ {
		v, ok := charsetIndex[dataPart[i]]
		if !ok {
			return "", nil, fmt.Errorf("bech32: invalid character %q", dataPart[i])
		}
		values[i] = v
	}

	if !verifyChecksum(hrp, values) {
		return "", nil, fmt.Errorf("bech32: invalid checksum")
	}

	payload := values[:len(values)-6]
	out, err := regroupBits(payload, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("bech32: %w", err)
	}
	return hrp, out, nil
}

func regroupBits(data []int, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc, bits uint
	maxVal := uint(1)<<toBits - 1
	var out []byte
	for _, v := range data {
		if v < 0 || uint(v) >= (1<<fromBits) {
			return nil, fmt.Errorf("invalid data value %d", v)
		}
		acc = acc<<fromBits | uint(v)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxVal))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxVal))
		}
	} else if bits >= fromBits || ((acc<<(toBits-bits))&maxVal) != 0 {
		return nil, fmt.Errorf("non-zero padding")
	}
	return out, nil
}

func polymod(values []int) int {
	gen := []int{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := 1
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ v
		for i := 0; i < 5; i++ {
			if (top>>i)&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []int {
	out := make([]int, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, int(hrp[i])>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, int(hrp[i])&31)
	}
	return out
}

func verifyChecksum(hrp string, data []int) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == 1
}
