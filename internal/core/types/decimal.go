// Package types provides money and ratio helpers shared by the report engines.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

var hundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MoneyFromInt converts an integer quantity into Money for multiplication.
func MoneyFromInt(n int) Money {
	return decimal.NewFromInt(int64(n))
}

// SafeDiv returns a/b, or zero when b is zero.
func SafeDiv(a, b Money) Money {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// PercentOf returns part/total*100 as float64, or 0 when total is zero.
func PercentOf(part, total Money) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(total).InexactFloat64()
}

// Percent returns part/total*100 for integer quantities, or 0 when total is zero.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
