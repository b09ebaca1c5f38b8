// AngelaMos | 2026
// money.go

package core

import (
	"fmt"
	"strings"
)

// Monetary amounts are stored and summed as int64 micros (1e6 micros = 1 unit
// of currency), matching the Google Ads cost_micros convention. Ratios are
// stored as basis points (1e4 bp = 1.0). Conversion to decimal strings happens
// only at the response boundary.

const (
	MicrosPerUnit = 1_000_000
	BasisPoints   = 10_000
	MilliUnit     = 1_000
)

// MicrosToDecimal renders micros as a currency string with 2 decimal
// places, rounding half-up.
func MicrosToDecimal(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}

	rounded := micros + 5_000
	units := rounded / MicrosPerUnit
	cents := (rounded % MicrosPerUnit) / 10_000

	return fmt.Sprintf("%s%d.%02d", sign, units, cents)
}

// DecimalToMicros parses a decimal currency string (up to 6 fractional
// digits) into micros without passing through a float.
func DecimalToMicros(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("parse decimal: empty input")
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}

	if len(frac) > 6 {
		return 0, fmt.Errorf("parse decimal %q: too many fractional digits", s)
	}
	for len(frac) < 6 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	var micros int64
	for _, digits := range []string{whole, frac} {
		for _, c := range digits {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("parse decimal %q: invalid character", s)
			}
			micros = micros*10 + int64(c-'0')
		}
	}

	if negative {
		micros = -micros
	}

	return micros, nil
}

// BasisPointsToDecimal renders basis points as a ratio string with 4 decimal
// places.
func BasisPointsToDecimal(bp int64) string {
	sign := ""
	if bp < 0 {
		sign = "-"
		bp = -bp
	}

	return fmt.Sprintf("%s%d.%04d", sign, bp/BasisPoints, bp%BasisPoints)
}

// MilliToDecimal renders a milli-unit count (e.g. conversions tracked in
// thousandths) with 2 decimal places, rounding half-up.
func MilliToDecimal(milli int64) string {
	sign := ""
	if milli < 0 {
		sign = "-"
		milli = -milli
	}

	rounded := milli + 5
	return fmt.Sprintf("%s%d.%02d", sign, rounded/MilliUnit, (rounded%MilliUnit)/10)
}
