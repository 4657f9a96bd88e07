package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(s string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(s), "USD")
}

func TestMoney_AddSub(t *testing.T) {
	sum, err := usd("10.10").Add(usd("0.20"))
	require.NoError(t, err)
	assert.True(t, sum.Equal(usd("10.30")))

	diff, err := usd("1").Sub(usd("1.01"))
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.Equal(t, "-0.01 USD", diff.String())
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	_, err := usd("1").Add(domain.NewMoney(decimal.NewFromInt(1), "EUR"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = usd("1").Sub(domain.ZeroMoney("EUR"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoney_Exactness(t *testing.T) {
	total := domain.ZeroMoney("USD")
	for i := 0; i < 10; i++ {
		var err error
		total, err = total.Add(usd("0.1"))
		require.NoError(t, err)
	}
	assert.True(t, total.Equal(usd("1")))
}

func TestMoney_FitsPrecision(t *testing.T) {
	tests := []struct {
		amount    string
		precision int
		want      bool
	}{
		{"100", 2, true},
		{"100.10", 2, true},
		{"100.100", 2, true},
		{"100.001", 2, false},
		{"5", 0, true},
		{"5.5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, usd(tt.amount).FitsPrecision(tt.precision))
		})
	}
}

func TestParseMoney(t *testing.T) {
	m, err := domain.ParseMoney("42.50", "USD")
	require.NoError(t, err)
	assert.True(t, m.Equal(usd("42.5")))

	_, err = domain.ParseMoney("forty", "USD")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
