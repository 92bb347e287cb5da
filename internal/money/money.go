// Package money provides exact decimal helpers for monetary values.
// All arithmetic stays in decimal form; rounding happens only when a
// value is formatted or exported for display.
package money

import (
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fractional digits exposed to consumers.
const DisplayPlaces = 2

// Zero is the zero monetary value.
var Zero = decimal.Zero

// FromFloat converts an external float into an exact decimal. Callers are
// expected to have validated the input; NaN or infinite values are the
// caller's bug, not handled here.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// FromInt converts an integer amount into a decimal.
func FromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// Parse converts a numeric string into a decimal.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Percentage returns base × pct / 100 as an exact, unrounded decimal.
func Percentage(base decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}

// Round rounds to DisplayPlaces using round-half-away-from-zero, the
// convention for currency display.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// Format renders a decimal as a fixed-point string with DisplayPlaces
// fractional digits, e.g. "1234.50". Never exponential notation.
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
