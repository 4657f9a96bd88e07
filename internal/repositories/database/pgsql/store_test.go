package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/storetest"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/stretchr/testify/suite"
)

const migrationsPath = "file://../../../../migrations/postgres"

// TestPostgresStore needs a disposable database; every test drops and
// recreates the schema in it.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("LEDGER_TEST_PGSQL_URL")
	if url == "" {
		t.Skip("LEDGER_TEST_PGSQL_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	suite.Run(t, &storetest.StoreSuite{
		NewProvider: func() (portsrepo.RepositoryProvider, error) {
			for _, dir := range []database.Direction{database.Down, database.Up} {
				if err := database.RunMigrations(logger, url, migrationsPath, dir); err != nil {
					return portsrepo.RepositoryProvider{}, err
				}
			}
			pool, err := database.NewPgxPool(context.Background(), url, true)
			if err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
			return pgsql.NewRepositoryProvider(pool, pgsql.RetryPolicy{Attempts: 10, BaseDelay: 5 * time.Millisecond}), nil
		},
		Concurrency: 8,
	})
}
