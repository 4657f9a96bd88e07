package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

func newTrialBalanceCommand() *cobra.Command {
	var asOf string
	var accountIDs []string
	var currency string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print a trial balance of the configured ledger as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			params := portssvc.TrialBalanceParams{
				AccountIDs:   accountIDs,
				CurrencyCode: strings.ToUpper(currency),
			}
			if asOf != "" {
				if params.AsOf, err = parseAsOf(asOf); err != nil {
					return err
				}
			}
			return runTrialBalance(cmd, cfg, params, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "cutoff as RFC3339 or YYYY-MM-DD (end of day UTC); defaults to now")
	cmd.Flags().StringSliceVar(&accountIDs, "account", nil, "restrict to these account IDs")
	cmd.Flags().StringVar(&currency, "currency", "", "restrict to one currency")

	return cmd
}

func runTrialBalance(cmd *cobra.Command, cfg *config.Config, params portssvc.TrialBalanceParams, out io.Writer) error {
	ctx := cmd.Context()
	logger := newLogger(cfg, cmd.ErrOrStderr())

	repos, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(repos)

	container := services.NewServiceContainer(repos)

	tb, err := container.Balance.TrialBalance(ctx, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.ToTrialBalanceResponse(tb))
}

func parseAsOf(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: use RFC3339 or YYYY-MM-DD", raw)
	}
	return day.Add(24*time.Hour - time.Nanosecond), nil
}
