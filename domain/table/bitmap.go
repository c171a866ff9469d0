// Package table holds the pure transforms applied to walked SNMP tables:
// bitmap decoding, index aggregation and VLAN membership inversion.
package table

import (
	"fmt"
	"strings"
)

// DecodeBitmap returns the positions of the set bits of a hex encoded bitmap.
// Each hex digit contributes four bits, most significant first; the first bit
// is reported as offset.
func DecodeBitmap(hex string, offset int) ([]int, error) {
	positions := make([]int, 0)
	for i, r := range hex {
		nibble, ok := hexValue(r)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", r, i)
		}
		for bit := 0; bit < 4; bit++ {
			if nibble&(8>>bit) != 0 {
				positions = append(positions, i*4+bit+offset)
			}
		}
	}
	return positions, nil
}

// EncodeBitmap is the inverse of DecodeBitmap for a bitmap of hexLen digits.
// Positions outside the bitmap are ignored.
func EncodeBitmap(positions []int, offset, hexLen int) string {
	nibbles := make([]byte, hexLen)
	for _, p := range positions {
		bit := p - offset
		if bit < 0 || bit >= hexLen*4 {
			continue
		}
		nibbles[bit/4] |= 8 >> (bit % 4)
	}
	var b strings.Builder
	b.Grow(hexLen)
	for _, n := range nibbles {
		b.WriteByte("0123456789ABCDEF"[n])
	}
	return b.String()
}

func hexValue(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}
