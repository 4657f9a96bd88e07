package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is the row shape of the journal_entries table.
type Journal struct {
	EntryID           string    `db:"entry_id"`
	Sequence          int64     `db:"sequence"`
	Source            string    `db:"source"`
	ExternalReference string    `db:"external_reference"`
	Description       string    `db:"description"`
	OccurredAt        time.Time `db:"occurred_at"`
	CommittedAt       time.Time `db:"committed_at"`
	Status            string    `db:"status"`
	ReversalOf        *string   `db:"reversal_of"` // unique, so one reversal per entry
	ReversalReason    string    `db:"reversal_reason"`
	CreatedBy         string    `db:"created_by"`
}

// JournalLine is the row shape of the journal_lines table. Sequence and
// CommittedAt are denormalized from the owning entry for balance folds.
type JournalLine struct {
	EntryID      string          `db:"entry_id"`
	LineNo       int             `db:"line_no"`
	AccountID    string          `db:"account_id"`
	Side         string          `db:"side"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Memo         string          `db:"memo"`
	Sequence     int64           `db:"sequence"`
	CommittedAt  time.Time       `db:"committed_at"`
}
