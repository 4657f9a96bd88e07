package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/storetest"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &storetest.StoreSuite{
		NewProvider: func() (portsrepo.RepositoryProvider, error) {
			db, err := database.OpenSQLite(":memory:")
			if err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
			return sqlite.NewRepositoryProvider(context.Background(), db)
		},
		Concurrency: 20,
	})
}

func TestSchemaIsIdempotentAndJournalIsImmutable(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlite.ApplySchema(ctx, db))
	require.NoError(t, sqlite.ApplySchema(ctx, db))

	_, err = db.ExecContext(ctx, `INSERT INTO currencies (currency_code, symbol, name, precision) VALUES ('USD', '$', 'US Dollar', 2)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO journal_entries (entry_id, sequence, source, external_reference, occurred_at, committed_at, status)
		VALUES ('e1', 1, 'payments', 'r1', 1, 1, 'COMMITTED')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE journal_entries SET description = 'edited' WHERE entry_id = 'e1'`)
	require.ErrorContains(t, err, "immutable")
	_, err = db.ExecContext(ctx, `DELETE FROM journal_entries WHERE entry_id = 'e1'`)
	require.ErrorContains(t, err, "immutable")
}
