package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact monetary amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value from an amount and ISO currency code.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// GBP creates a GBP Money value from a float amount.
func GBP(amount float64) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: "GBP"}
}

// ZeroGBP is a zero GBP amount.
func ZeroGBP() Money {
	return Money{Amount: decimal.Zero, Currency: "GBP"}
}

// Add returns the sum of two amounts. Mixing currencies is a programming
// error and panics rather than silently producing a wrong figure.
func (m Money) Add(other Money) Money {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("cannot add %s to %s", other.Currency, m.Currency))
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("cannot subtract %s from %s", other.Currency, m.Currency))
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Float64 returns the amount as a float, for score arithmetic only.
func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

// String formats the amount with its currency, e.g. "GBP 1250.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}
