package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(id string, t domain.AccountType, currency string) domain.Account {
	return domain.Account{AccountID: id, AccountType: t, CurrencyCode: currency, Role: domain.RolePosting, IsActive: true}
}

func TestNewPosting(t *testing.T) {
	cash := account("cash", domain.Asset, "USD")
	loan := account("loan-receivable", domain.Asset, "USD")
	euros := account("cash-eur", domain.Asset, "EUR")

	tests := []struct {
		name    string
		debit   domain.Account
		credit  domain.Account
		amount  domain.Money
		wantErr error
	}{
		{name: "valid", debit: cash, credit: loan, amount: usd("100")},
		{name: "zero amount", debit: cash, credit: loan, amount: usd("0"), wantErr: apperrors.ErrValidation},
		{name: "negative amount", debit: cash, credit: loan, amount: usd("-1"), wantErr: apperrors.ErrValidation},
		{name: "same account", debit: cash, credit: cash, amount: usd("1"), wantErr: apperrors.ErrValidation},
		{name: "currency differs from credit account", debit: cash, credit: euros, amount: usd("1"), wantErr: apperrors.ErrValidation},
		{name: "currency differs from both accounts", debit: cash, credit: loan, amount: domain.ZeroMoney("EUR"), wantErr: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := domain.NewPosting(tt.debit, tt.credit, tt.amount, "memo")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debit.AccountID, p.DebitAccountID)
			assert.Equal(t, tt.credit.AccountID, p.CreditAccountID)
		})
	}
}

func TestPosting_LegsAndEquality(t *testing.T) {
	p, err := domain.NewPosting(account("cash", domain.Asset, "USD"), account("revenue", domain.Income, "USD"), usd("12.5"), "fee")
	require.NoError(t, err)

	legs := p.Legs()
	require.Len(t, legs, 2)
	assert.Equal(t, domain.Debit, legs[0].Side)
	assert.Equal(t, "cash", legs[0].AccountID)
	assert.Equal(t, domain.Credit, legs[1].Side)
	assert.Equal(t, "revenue", legs[1].AccountID)
	assert.Equal(t, domain.Debit, legs[1].Reversed().Side)

	same := domain.Posting{DebitAccountID: "cash", CreditAccountID: "revenue", Amount: usd("12.50"), Memo: "fee"}
	assert.True(t, p.Equal(same))
	same.Memo = "other"
	assert.False(t, p.Equal(same))
}

func TestAccountType_NormalSide(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.Asset.NormalSide())
	assert.Equal(t, domain.Debit, domain.Expense.NormalSide())
	assert.Equal(t, domain.Credit, domain.Liability.NormalSide())
	assert.Equal(t, domain.Credit, domain.Equity.NormalSide())
	assert.Equal(t, domain.Credit, domain.Income.NormalSide())
	assert.False(t, domain.AccountType("BOGUS").IsValid())
}

func TestJournalEntry_CommittedLegsAndClone(t *testing.T) {
	entry := domain.JournalEntry{
		EntryID:  "e-1",
		Sequence: 7,
		Legs: []domain.Leg{
			{AccountID: "cash", Side: domain.Debit, Amount: usd("5")},
			{AccountID: "revenue", Side: domain.Credit, Amount: usd("5")},
			{AccountID: "cash", Side: domain.Credit, Amount: usd("0.5")},
		},
	}
	committed := entry.CommittedLegs()
	require.Len(t, committed, 3)
	assert.Equal(t, 3, committed[2].LineNo)
	assert.Equal(t, int64(7), committed[2].Sequence)
	assert.Equal(t, []string{"cash", "revenue"}, entry.AccountIDs())

	clone := entry.Clone()
	clone.Legs[0].AccountID = "mutated"
	assert.Equal(t, "cash", entry.Legs[0].AccountID)
}
