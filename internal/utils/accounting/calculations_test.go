package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func leg(account string, side domain.Side, amount, currency string) domain.Leg {
	return domain.Leg{AccountID: account, Side: side, Amount: domain.NewMoney(d(amount), currency)}
}

func TestSignedBalance(t *testing.T) {
	assert.True(t, accounting.SignedBalance(domain.Debit, d("100"), d("30")).Equal(d("70")))
	assert.True(t, accounting.SignedBalance(domain.Credit, d("100"), d("30")).Equal(d("-70")))
	assert.True(t, accounting.SignedBalance(domain.Credit, d("0"), d("100")).Equal(d("100")))
}

func TestValidateBuckets(t *testing.T) {
	tests := []struct {
		name    string
		legs    []domain.Leg
		wantErr bool
	}{
		{
			name: "balanced single currency",
			legs: []domain.Leg{leg("cash", domain.Debit, "100", "USD"), leg("loan", domain.Credit, "100", "USD")},
		},
		{
			name: "unbalanced by one",
			legs: []domain.Leg{leg("cash", domain.Debit, "100", "USD"), leg("revenue", domain.Credit, "99", "USD")},
			wantErr: true,
		},
		{
			name: "each currency balances independently",
			legs: []domain.Leg{
				leg("cash-usd", domain.Debit, "100", "USD"), leg("clearing-usd", domain.Credit, "100", "USD"),
				leg("clearing-eur", domain.Debit, "92", "EUR"), leg("cash-eur", domain.Credit, "92", "EUR"),
			},
		},
		{
			name: "totals match across currencies but buckets do not",
			legs: []domain.Leg{leg("cash-usd", domain.Debit, "100", "USD"), leg("cash-eur", domain.Credit, "100", "EUR")},
			wantErr: true,
		},
		{
			name: "split legs",
			legs: []domain.Leg{
				leg("cash", domain.Debit, "60.10", "USD"), leg("cash", domain.Debit, "39.90", "USD"),
				leg("revenue", domain.Credit, "100", "USD"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateBuckets(tt.legs)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrImbalance)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuckets_SortedByCurrency(t *testing.T) {
	buckets := accounting.Buckets([]domain.Leg{
		leg("a", domain.Debit, "1", "USD"),
		leg("b", domain.Credit, "2", "EUR"),
	})
	require.Len(t, buckets, 2)
	assert.Equal(t, "EUR", buckets[0].Currency)
	assert.True(t, buckets[0].Residual().Equal(d("-2")))
	assert.Equal(t, "USD", buckets[1].Currency)
}

func TestFoldAccount(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	legs := []domain.CommittedLeg{
		{Leg: leg("cash", domain.Debit, "100", "USD"), CommittedAt: t1},
		{Leg: leg("loan", domain.Credit, "100", "USD"), CommittedAt: t1},
		{Leg: leg("cash", domain.Credit, "25", "USD"), CommittedAt: t2},
	}

	totals := accounting.FoldAccount("cash", legs)
	assert.True(t, totals.Debits.Equal(d("100")))
	assert.True(t, totals.Credits.Equal(d("25")))
	require.NotNil(t, totals.LastPostedAt)
	assert.Equal(t, t2, *totals.LastPostedAt)

	empty := accounting.FoldAccount("unknown", legs)
	assert.True(t, empty.Debits.IsZero())
	assert.Nil(t, empty.LastPostedAt)

	all := accounting.FoldAll(legs)
	assert.True(t, all["cash"].Credits.Equal(totals.Credits))
	assert.True(t, all["loan"].Credits.Equal(d("100")))
}

func TestSplitColumns(t *testing.T) {
	dr, cr := accounting.SplitColumns(d("100"), d("30"))
	assert.True(t, dr.Equal(d("70")))
	assert.True(t, cr.IsZero())

	dr, cr = accounting.SplitColumns(d("10"), d("30"))
	assert.True(t, dr.IsZero())
	assert.True(t, cr.Equal(d("20")))
}
