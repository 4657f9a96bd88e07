package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestLegQuery(t *testing.T) {
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := after.Add(time.Hour)

	query, args := legQuery(domain.LegFilter{AccountID: "cash", After: after, AsOf: asOf})
	assert.Contains(t, query, "WHERE account_id = $1 AND committed_at > $2 AND committed_at <= $3")
	assert.Contains(t, query, "ORDER BY sequence, line_no")
	assert.Equal(t, []any{"cash", after, asOf}, args)

	query, args = legQuery(domain.LegFilter{AsOf: asOf})
	assert.Contains(t, query, "WHERE committed_at <= $1")
	assert.Len(t, args, 1)

	query, args = legQuery(domain.LegFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}
