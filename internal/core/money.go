// Package core holds the ledger data model and its pure rules.
//
// This file contains amount parsing. Amounts are kept as decimals so sums
// never drift the way binary floats do.
package core

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amounts must fit the finite float64 range. Decimals with huge exponents
// parse instantly but take unbounded time to print.
const (
	maxAmountMagnitude = 309  // integer digits of math.MaxFloat64
	minAmountExponent  = -324 // smallest float64 denormal
)

var maxAmount = decimal.NewFromFloat(math.MaxFloat64)

// ParseAmount converts a user-entered amount into a decimal.
//
// Surrounding whitespace is ignored. Anything decimal.NewFromString accepts is
// a number here (including exponent notation) as long as its magnitude stays
// within the finite float64 range; NaN and infinities are never produced. The
// sign is not checked, see IsPositiveAmount.
//
// Examples:
//   ParseAmount("100")    -> 100, nil
//   ParseAmount(" 12.5 ") -> 12.5, nil
//   ParseAmount("1e3")    -> 1000, nil
//   ParseAmount("abc")    -> 0, ErrInvalidAmount
//   ParseAmount("1e400")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !inAmountRange(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// inAmountRange works on the coefficient and exponent only. Comparing or
// rescaling d would materialize 10^exp.
func inAmountRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < minAmountExponent || exp > maxAmountMagnitude {
		return false
	}
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return true
	}
	digits := int64(len(strings.TrimPrefix(coef.String(), "-")))
	if digits+exp > maxAmountMagnitude {
		return false
	}
	return d.Abs().Cmp(maxAmount) <= 0
}

// IsPositiveAmount reports whether s parses as a number strictly greater than zero.
func IsPositiveAmount(s string) bool {
	d, err := ParseAmount(s)
	if err != nil {
		return false
	}
	return d.IsPositive()
}
