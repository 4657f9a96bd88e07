package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TrialBalanceParams narrows the rows of a trial balance. The reconciliation
// check always covers the whole ledger.
type TrialBalanceParams struct {
	AsOf         time.Time
	AccountIDs   []string
	CurrencyCode string
}

// BalanceSvc is the read model of the ledger. All operations are pure folds
// over committed legs.
type BalanceSvc interface {
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error)
	PeriodBalance(ctx context.Context, accountID string, from, to time.Time) (*domain.PeriodBalance, error)
	TrialBalance(ctx context.Context, params TrialBalanceParams) (*domain.TrialBalance, error)
}
