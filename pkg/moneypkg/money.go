// Package moneypkg converts between decimal amount strings and integer minor
// units (cents). The ledger does all arithmetic in minor units so that no
// floating point value ever touches a balance.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Exponent is the scale of the wallet currency (two-decimal USD).
const Exponent = 2

// ErrMalformedAmount indicates that the amount string is not a valid
// two-decimal number.
var ErrMalformedAmount = errors.New("malformed amount")

// ToMinorUnits parses a decimal amount string ("25.00") into minor units
// (2500). Amounts with more than two decimal places are rejected rather than
// rounded.
func ToMinorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, ErrMalformedAmount
	}

	if d.Exponent() < -Exponent {
		return 0, ErrMalformedAmount
	}

	minor := d.Shift(Exponent).BigInt()
	if !minor.IsInt64() {
		return 0, ErrMalformedAmount
	}

	return minor.Int64(), nil
}

// FromMinorUnits formats minor units as a two-decimal amount string.
// FromMinorUnits(2500) == "25.00".
func FromMinorUnits(minor int64) string {
	return decimal.New(minor, -Exponent).StringFixed(Exponent)
}
