package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount scoped to a single currency.
// Arithmetic between different currencies is refused, never converted.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// ParseMoney parses a decimal string such as "100.25" into Money.
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, amount)
	}
	return Money{Amount: d, Currency: currency}, nil
}

func (m Money) sameCurrency(o Money) error {
	if m.Currency != o.Currency {
		return fmt.Errorf("%w: currency mismatch %s vs %s", apperrors.ErrValidation, m.Currency, o.Currency)
	}
	return nil
}

// Add returns m + o. Both values must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Sub returns m - o. Both values must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.Currency}, nil
}

func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// Equal compares currency and numeric value; 1.0 and 1.00 are equal.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// FitsPrecision reports whether the amount has no more than precision
// fractional digits once trailing zeros are ignored.
func (m Money) FitsPrecision(precision int) bool {
	return m.Amount.Round(int32(precision)).Equal(m.Amount)
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}
