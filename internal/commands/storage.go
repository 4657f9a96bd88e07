package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/memory"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

// openStore builds the repositories for the configured storage driver.
// Postgres schemas are migrated up before the pool is opened.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage; the ledger is lost on exit.")
		return memory.NewRepositoryProvider(), nil

	case config.DriverPostgres:
		if err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath, database.Up); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool, pgsql.RetryPolicy{
			Attempts:  cfg.CommitRetryAttempts,
			BaseDelay: cfg.CommitRetryBaseDelay,
		}), nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		repos, err := sqlite.NewRepositoryProvider(ctx, db)
		if err != nil {
			_ = db.Close()
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("SQLite database opened.", slog.String("path", cfg.SQLitePath))
		return repos, nil
	}
	return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func closeStore(repos portsrepo.RepositoryProvider) {
	if repos.Close != nil {
		repos.Close()
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
}
