package provider

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a decimal currency amount to integer minor units
// (cents), flooring any excess precision. The arithmetic is exact decimal,
// never binary floating point.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Floor().IntPart()
}

// FromMinorUnits converts integer minor units back to an exact decimal
// currency amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -2)
}
