package sqlite

import (
	"context"
	"database/sql"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider applies the schema and builds the repositories on db.
// db must be limited to one open connection.
func NewRepositoryProvider(ctx context.Context, db *sql.DB) (portsrepo.RepositoryProvider, error) {
	if err := ApplySchema(ctx, db); err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	base := BaseRepository{DB: db}
	return portsrepo.RepositoryProvider{
		AccountRepo:  &AccountRepository{BaseRepository: base},
		CurrencyRepo: &CurrencyRepository{BaseRepository: base},
		JournalRepo:  &JournalRepository{BaseRepository: base},
		Close:        func() { _ = db.Close() },
	}, nil
}
