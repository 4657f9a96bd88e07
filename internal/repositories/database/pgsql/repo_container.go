package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres-backed repositories on one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, retry RetryPolicy) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		CurrencyRepo: newPgxCurrencyRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool, retry),
		Close:        dbPool.Close,
	}
}
