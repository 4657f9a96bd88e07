package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the Postgres schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.StorageDriver != config.DriverPostgres {
				return fmt.Errorf("migrations only apply to the %s driver (configured: %s)", config.DriverPostgres, cfg.StorageDriver)
			}
			return database.RunMigrations(newLogger(cfg, cmd.OutOrStdout()), cfg.DatabaseURL, cfg.MigrationsPath, database.Direction(args[0]))
		},
	}

	return cmd
}
