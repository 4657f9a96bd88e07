package main

import (
	"os"

	"github.com/SscSPs/ledger_engine/internal/commands"
)

// @title Ledger Engine API
// @version 1.0
// @description Double-entry ledger: chart of accounts, journal entries and balances.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
