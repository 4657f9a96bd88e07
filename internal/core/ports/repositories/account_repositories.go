package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID retrieves an account, or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts at once. IDs that do not
	// exist are simply absent from the returned map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns every account ordered by account ID.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListChildAccounts returns the direct children of parentID ordered by account ID.
	ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts. Every
// write stores its chart event in the same atomic step.
type AccountWriter interface {
	// SaveAccount inserts a new account. It returns apperrors.ErrDuplicate
	// if the ID is taken.
	SaveAccount(ctx context.Context, account domain.Account, event domain.ChartEvent) error

	// UpdateAccount replaces an account whose stored version equals
	// expectedVersion, or returns apperrors.ErrConflict.
	UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64, event domain.ChartEvent) error
}

// ChartEventReader exposes the audit trail of structural edits.
type ChartEventReader interface {
	// ListChartEvents returns the events of one account, oldest first.
	ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	ChartEventReader
}
