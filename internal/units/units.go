// Package units converts raw wei-denominated integers into the display units
// used in rendered error messages (gwei, ether). This is an internal package and
// should not be imported directly by external code.
package units

import (
	"math/big"
	"strings"
)

const (
	// EtherDecimals is the number of decimals of the native currency unit.
	EtherDecimals = 18
	// GweiDecimals is the number of decimals of the gwei unit.
	GweiDecimals = 9
)

// FormatUnits renders a wei-denominated value as a decimal string with the
// given number of decimals, trimming trailing zeros. The output is exact (no
// floating point) so the same input always renders the same string.
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}

	s := v.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	split := len(s) - decimals
	whole, frac := s[:split], s[split:]
	frac = strings.TrimRight(frac, "0")

	out := whole
	if frac != "" {
		out = whole + "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatEther renders a wei value in ether, e.g. 1000000000000000000 -> "1".
func FormatEther(v *big.Int) string {
	return FormatUnits(v, EtherDecimals)
}

// FormatGwei renders a wei value in gwei, e.g. 1500000000 -> "1.5".
func FormatGwei(v *big.Int) string {
	return FormatUnits(v, GweiDecimals)
}

// Gwei returns n gwei as a wei-denominated integer.
func Gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// Ether returns n ether as a wei-denominated integer.
func Ether(n int64) *big.Int {
	wei := new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)
	return wei.Mul(wei, big.NewInt(n))
}
