package models

import "time"

// Account is the row shape of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	CurrencyCode    string  `db:"currency_code"`
	ParentAccountID *string `db:"parent_account_id"` // NULL for top-level accounts
	Description     string  `db:"description"`
	Role            string  `db:"role"`
	IsActive        bool    `db:"is_active"`
	Version         int64   `db:"version"`
	AuditFields
}

// ChartEvent is the row shape of the chart_events table.
type ChartEvent struct {
	EventID    string    `db:"event_id"`
	AccountID  string    `db:"account_id"`
	Kind       string    `db:"kind"`
	Field      string    `db:"field"`
	OldValue   string    `db:"old_value"`
	NewValue   string    `db:"new_value"`
	Reason     string    `db:"reason"`
	Actor      string    `db:"actor"`
	OccurredAt time.Time `db:"occurred_at"`
}
