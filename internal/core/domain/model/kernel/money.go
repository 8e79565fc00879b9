package kernel

import (
	"errors"
	"fmt"

	"restaurant/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits a currency amount may carry.
const moneyScale = 2

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney, MoneyFromString or MoneyFromCents")

// Money is a non-negative currency amount with at most two fractional digits.
// Arithmetic is exact (shopspring/decimal), so order totals can be compared
// with the sum of their line items without float drift.
type Money struct {
	amount        decimal.Decimal
	isConstructed bool
}

// ZeroMoney returns a valid zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, isConstructed: true}
}

// NewMoney validates amount: it must be non-negative and representable in cents.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s is negative", amount.String()),
		)
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s has more than %d decimal places", amount.String(), moneyScale),
		)
	}
	return Money{amount: amount, isConstructed: true}, nil
}

// MoneyFromString parses a decimal string such as "12.99".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) (Money, error) {
	return NewMoney(decimal.New(cents, -moneyScale))
}

// MustMoney is MoneyFromString for literals in tests and fixtures.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}

// Decimal exposes the amount for persistence and JSON encoding.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), isConstructed: true}
}

// Times multiplies the amount by a line item quantity.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), isConstructed: true}
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two decimals, e.g. "57.95".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
