package accounting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance applies the normal-side convention to raw leg totals.
// DEBIT-normal accounts (ASSET, EXPENSE) grow with debits, CREDIT-normal
// accounts (LIABILITY, EQUITY, INCOME) grow with credits.
func SignedBalance(side domain.Side, debits, credits decimal.Decimal) decimal.Decimal {
	if side == domain.Debit {
		return debits.Sub(credits)
	}
	return credits.Sub(debits)
}

// AccountTotals is the raw fold of the legs of one account.
type AccountTotals struct {
	Debits       decimal.Decimal
	Credits      decimal.Decimal
	LastPostedAt *time.Time
}

// FoldAccount sums the debit and credit legs of accountID.
func FoldAccount(accountID string, legs []domain.CommittedLeg) AccountTotals {
	totals := AccountTotals{Debits: decimal.Zero, Credits: decimal.Zero}
	for _, l := range legs {
		if l.AccountID != accountID {
			continue
		}
		if l.Side == domain.Debit {
			totals.Debits = totals.Debits.Add(l.Amount.Amount)
		} else {
			totals.Credits = totals.Credits.Add(l.Amount.Amount)
		}
		if totals.LastPostedAt == nil || l.CommittedAt.After(*totals.LastPostedAt) {
			at := l.CommittedAt
			totals.LastPostedAt = &at
		}
	}
	return totals
}

// FoldAll folds every leg into per-account totals in a single pass.
func FoldAll(legs []domain.CommittedLeg) map[string]AccountTotals {
	out := make(map[string]AccountTotals)
	for _, l := range legs {
		t, ok := out[l.AccountID]
		if !ok {
			t = AccountTotals{Debits: decimal.Zero, Credits: decimal.Zero}
		}
		if l.Side == domain.Debit {
			t.Debits = t.Debits.Add(l.Amount.Amount)
		} else {
			t.Credits = t.Credits.Add(l.Amount.Amount)
		}
		if t.LastPostedAt == nil || l.CommittedAt.After(*t.LastPostedAt) {
			at := l.CommittedAt
			t.LastPostedAt = &at
		}
		out[l.AccountID] = t
	}
	return out
}

// Bucket holds the debit and credit sums of a single currency.
type Bucket struct {
	Currency string
	Debits   decimal.Decimal
	Credits  decimal.Decimal
}

func (b Bucket) Residual() decimal.Decimal {
	return b.Debits.Sub(b.Credits)
}

// Buckets groups leg amounts by currency, sorted by currency code.
func Buckets(legs []domain.Leg) []Bucket {
	byCurrency := make(map[string]*Bucket)
	for _, l := range legs {
		b, ok := byCurrency[l.Amount.Currency]
		if !ok {
			b = &Bucket{Currency: l.Amount.Currency, Debits: decimal.Zero, Credits: decimal.Zero}
			byCurrency[l.Amount.Currency] = b
		}
		if l.Side == domain.Debit {
			b.Debits = b.Debits.Add(l.Amount.Amount)
		} else {
			b.Credits = b.Credits.Add(l.Amount.Amount)
		}
	}
	out := make([]Bucket, 0, len(byCurrency))
	for _, b := range byCurrency {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// ValidateBuckets checks that every currency bucket nets to exactly zero.
// There is no tolerance and no conversion between buckets.
func ValidateBuckets(legs []domain.Leg) error {
	var broken []string
	for _, b := range Buckets(legs) {
		if !b.Residual().IsZero() {
			broken = append(broken, fmt.Sprintf("%s debits %s credits %s", b.Currency, b.Debits, b.Credits))
		}
	}
	if len(broken) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrImbalance, strings.Join(broken, "; "))
	}
	return nil
}

// SplitColumns places a raw net balance in the debit or the credit column of
// a trial balance row. Exactly one of the returned values is nonzero, unless
// both are zero.
func SplitColumns(debits, credits decimal.Decimal) (debitCol, creditCol decimal.Decimal) {
	net := debits.Sub(credits)
	if net.IsNegative() {
		return decimal.Zero, net.Neg()
	}
	return net, decimal.Zero
}
