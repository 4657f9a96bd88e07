package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

// Side is the side of a journal leg.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

func (s Side) IsValid() bool {
	return s == Debit || s == Credit
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// Leg is one side of a journal entry: an amount debited or credited to a
// single account. Legs are immutable once committed.
type Leg struct {
	AccountID string `json:"accountID"`
	Side      Side   `json:"side"`
	Amount    Money  `json:"amount"`
	Memo      string `json:"memo,omitempty"`
}

// Reversed returns the leg with its side swapped.
func (l Leg) Reversed() Leg {
	l.Side = l.Side.Opposite()
	return l
}

// CommittedLeg is a leg as stored in the journal, ordered by
// (Sequence, LineNo).
type CommittedLeg struct {
	Leg
	EntryID     string    `json:"entryID"`
	LineNo      int       `json:"lineNo"`
	Sequence    int64     `json:"sequence"`
	CommittedAt time.Time `json:"committedAt"`
}

// Posting is a debit/credit pair of equal amount in one currency. It is a
// value object; equality is structural.
type Posting struct {
	DebitAccountID  string `json:"debitAccountID"`
	CreditAccountID string `json:"creditAccountID"`
	Amount          Money  `json:"amount"`
	Memo            string `json:"memo,omitempty"`
}

// NewPosting validates the structural rules of a posting against the two
// resolved accounts.
func NewPosting(debit, credit Account, amount Money, memo string) (Posting, error) {
	if !amount.IsPositive() {
		return Posting{}, fmt.Errorf("%w: posting amount must be greater than zero, got %s", apperrors.ErrValidation, amount.Amount)
	}
	if debit.AccountID == credit.AccountID {
		return Posting{}, fmt.Errorf("%w: debit and credit account must differ (%s)", apperrors.ErrValidation, debit.AccountID)
	}
	for _, acc := range []Account{debit, credit} {
		if acc.CurrencyCode != amount.Currency {
			return Posting{}, fmt.Errorf("%w: posting currency %s does not match account %s currency %s",
				apperrors.ErrValidation, amount.Currency, acc.AccountID, acc.CurrencyCode)
		}
	}
	return Posting{
		DebitAccountID:  debit.AccountID,
		CreditAccountID: credit.AccountID,
		Amount:          amount,
		Memo:            memo,
	}, nil
}

// Legs expands the posting into its debit leg followed by its credit leg.
func (p Posting) Legs() []Leg {
	return []Leg{
		{AccountID: p.DebitAccountID, Side: Debit, Amount: p.Amount, Memo: p.Memo},
		{AccountID: p.CreditAccountID, Side: Credit, Amount: p.Amount, Memo: p.Memo},
	}
}

func (p Posting) Equal(o Posting) bool {
	return p.DebitAccountID == o.DebitAccountID &&
		p.CreditAccountID == o.CreditAccountID &&
		p.Amount.Equal(o.Amount) &&
		p.Memo == o.Memo
}
