package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegFilter selects committed legs by account and commit time window
// (After, AsOf]. A zero After means from the beginning of the journal.
type LegFilter struct {
	AccountID string
	After     time.Time
	AsOf      time.Time
}

// LedgerSnapshot is a consistent read of the chart and the committed legs up
// to AsOf.
type LedgerSnapshot struct {
	AsOf     time.Time
	Accounts []Account
	Legs     []CommittedLeg
}

// AccountBalance is the point-in-time balance of one account.
type AccountBalance struct {
	AccountID    string      `json:"accountID"`
	AccountType  AccountType `json:"accountType"`
	NormalSide   Side        `json:"normalSide"`
	Balance      Money       `json:"balance"`
	Debits       Money       `json:"debits"`
	Credits      Money       `json:"credits"`
	AsOf         time.Time   `json:"asOf"`
	LastPostedAt *time.Time  `json:"lastPostedAt,omitempty"`
}

// PeriodBalance covers the window (From, To].
type PeriodBalance struct {
	AccountID   string      `json:"accountID"`
	AccountType AccountType `json:"accountType"`
	NormalSide  Side        `json:"normalSide"`
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	Opening     Money       `json:"opening"`
	Debits      Money       `json:"debits"`
	Credits     Money       `json:"credits"`
	Net         Money       `json:"net"`
	Closing     Money       `json:"closing"`
}

// TrialBalanceRow places an account's net raw balance in either the debit or
// the credit column.
type TrialBalanceRow struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      Money           `json:"balance"`
}

// CurrencyTotal holds the column totals of one currency.
type CurrencyTotal struct {
	CurrencyCode string          `json:"currencyCode"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
}

type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Rows        []TrialBalanceRow `json:"rows"`
	Totals      []CurrencyTotal   `json:"totals"`
}
