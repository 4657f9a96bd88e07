package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountFormatter renders an amount for display, typically at the precision
// of its currency.
type AmountFormatter func(domain.Money) string

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID        string             `json:"accountID"`
	AccountType      domain.AccountType `json:"accountType"`
	NormalSide       domain.Side        `json:"normalSide"`
	CurrencyCode     string             `json:"currencyCode"`
	Balance          decimal.Decimal    `json:"balance"`
	FormattedBalance string             `json:"formattedBalance"`
	Debits           decimal.Decimal    `json:"debits"`
	Credits          decimal.Decimal    `json:"credits"`
	AsOf             time.Time          `json:"asOf"`
	LastPostedAt     *time.Time         `json:"lastPostedAt,omitempty"`
}

func ToAccountBalanceResponse(b *domain.AccountBalance, format AmountFormatter) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:        b.AccountID,
		AccountType:      b.AccountType,
		NormalSide:       b.NormalSide,
		CurrencyCode:     b.Balance.Currency,
		Balance:          b.Balance.Amount,
		FormattedBalance: format(b.Balance),
		Debits:           b.Debits.Amount,
		Credits:          b.Credits.Amount,
		AsOf:             b.AsOf,
		LastPostedAt:     b.LastPostedAt,
	}
}

// PeriodBalanceResponse defines the data returned for a period balance query.
type PeriodBalanceResponse struct {
	AccountID    string             `json:"accountID"`
	AccountType  domain.AccountType `json:"accountType"`
	NormalSide   domain.Side        `json:"normalSide"`
	CurrencyCode string             `json:"currencyCode"`
	From         time.Time          `json:"from"`
	To           time.Time          `json:"to"`
	Opening      decimal.Decimal    `json:"opening"`
	Debits       decimal.Decimal    `json:"debits"`
	Credits      decimal.Decimal    `json:"credits"`
	Net          decimal.Decimal    `json:"net"`
	Closing      decimal.Decimal    `json:"closing"`
}

func ToPeriodBalanceResponse(p *domain.PeriodBalance) PeriodBalanceResponse {
	return PeriodBalanceResponse{
		AccountID:    p.AccountID,
		AccountType:  p.AccountType,
		NormalSide:   p.NormalSide,
		CurrencyCode: p.Closing.Currency,
		From:         p.From,
		To:           p.To,
		Opening:      p.Opening.Amount,
		Debits:       p.Debits.Amount,
		Credits:      p.Credits.Amount,
		Net:          p.Net.Amount,
		Closing:      p.Closing.Amount,
	}
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	AccountType  string          `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
}

// TrialBalanceTotalResponse holds the column totals of one currency.
type TrialBalanceTotalResponse struct {
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf        time.Time                   `json:"asOf"`
	GeneratedAt time.Time                   `json:"generatedAt"`
	Rows        []TrialBalanceRowResponse   `json:"rows"`
	Totals      []TrialBalanceTotalResponse `json:"totals"`
}

func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf:        tb.AsOf,
		GeneratedAt: tb.GeneratedAt,
		Rows:        make([]TrialBalanceRowResponse, len(tb.Rows)),
		Totals:      make([]TrialBalanceTotalResponse, len(tb.Totals)),
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:    r.AccountID,
			AccountName:  r.AccountName,
			AccountType:  string(r.AccountType),
			CurrencyCode: r.CurrencyCode,
			Debit:        r.Debit,
			Credit:       r.Credit,
			Balance:      r.Balance.Amount,
		}
	}
	for i, t := range tb.Totals {
		resp.Totals[i] = TrialBalanceTotalResponse{CurrencyCode: t.CurrencyCode, Debit: t.TotalDebits, Credit: t.TotalCredits}
	}
	return resp
}
