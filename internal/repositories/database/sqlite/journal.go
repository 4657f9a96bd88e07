package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const journalColumns = `entry_id, sequence, source, external_reference, description, occurred_at,
	committed_at, status, reversal_of, reversal_reason, created_by`

const lineColumns = `entry_id, line_no, account_id, side, amount, currency_code, memo, sequence, committed_at`

type JournalRepository struct {
	BaseRepository
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

// AppendEntry stores the entry in one transaction. Advancing the single
// ledger_sequence row and inserting the rows commit or roll back together,
// so a rejected append hands its sequence number back.
func (r *JournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := entry.Clone()
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var committedAt int64
		err := tx.QueryRowContext(ctx, `
			UPDATE ledger_sequence
			SET last_value = last_value + 1,
				last_committed_at = MAX(last_committed_at, ?)
			WHERE id = 1
			RETURNING last_value, last_committed_at`, toNanos(entry.CommittedAt)).Scan(&stored.Sequence, &committedAt)
		if err != nil {
			return storageError("failed to advance ledger sequence", err)
		}
		stored.CommittedAt = time.Unix(0, committedAt).UTC()
		stored.Metadata.OccurredAt = stored.Metadata.OccurredAt.UTC()

		h, lines := mapping.ToModelJournal(stored)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO journal_entries (`+journalColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.EntryID, h.Sequence, h.Source, h.ExternalReference, h.Description, toNanos(h.OccurredAt),
			toNanos(h.CommittedAt), h.Status, h.ReversalOf, h.ReversalReason, h.CreatedBy)
		if err != nil {
			return mapAppendError(entry, err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO journal_lines (`+lineColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return storageError("failed to prepare line insert", err)
		}
		defer stmt.Close()
		for _, l := range lines {
			_, err := stmt.ExecContext(ctx, l.EntryID, l.LineNo, l.AccountID, l.Side, l.Amount, l.CurrencyCode, l.Memo,
				l.Sequence, toNanos(l.CommittedAt))
			if err != nil {
				if code, _ := constraintError(err); isForeignKey(code) {
					return fmt.Errorf("leg of entry %s references an unknown account: %w", entry.EntryID, apperrors.ErrNotFound)
				}
				return storageError("failed to insert journal line", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func mapAppendError(entry domain.JournalEntry, err error) error {
	code, msg := constraintError(err)
	switch {
	case isUnique(code) && mentions(msg, "journal_entries.reversal_of"):
		return fmt.Errorf("entry %s: %w", entry.ReversalOf, apperrors.ErrAlreadyReversed)
	case isUnique(code):
		return fmt.Errorf("reference %s/%s: %w", entry.Metadata.Source, entry.Metadata.ExternalReference, apperrors.ErrDuplicate)
	case isForeignKey(code):
		return fmt.Errorf("reversed entry %s: %w", entry.ReversalOf, apperrors.ErrNotFound)
	}
	return storageError("failed to insert journal entry "+entry.EntryID, err)
}

func scanJournal(row rowScanner) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(&m.EntryID, &m.Sequence, &m.Source, &m.ExternalReference, &m.Description, nanoTime{&m.OccurredAt},
		nanoTime{&m.CommittedAt}, &m.Status, &m.ReversalOf, &m.ReversalReason, &m.CreatedBy)
	return m, err
}

func queryLines(ctx context.Context, q querier, query string, args ...any) ([]models.JournalLine, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query journal lines", err)
	}
	defer rows.Close()

	var out []models.JournalLine
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.EntryID, &m.LineNo, &m.AccountID, &m.Side, &m.Amount, &m.CurrencyCode, &m.Memo,
			&m.Sequence, nanoTime{&m.CommittedAt}); err != nil {
			return nil, storageError("failed to scan journal line", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate journal lines", err)
	}
	return out, nil
}

func attachLines(ctx context.Context, q querier, headers []models.Journal) ([]domain.JournalEntry, error) {
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}
	args := make([]any, len(headers))
	for i, h := range headers {
		args[i] = h.EntryID
	}
	lines, err := queryLines(ctx, q,
		`SELECT `+lineColumns+` FROM journal_lines WHERE entry_id IN (`+placeholders(len(args))+`) ORDER BY sequence, line_no`, args...)
	if err != nil {
		return nil, err
	}
	byEntry := make(map[string][]models.JournalLine, len(headers))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], l)
	}
	out := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainJournal(h, byEntry[h.EntryID])
	}
	return out, nil
}

// findOne reads a header and its lines in one transaction.
func (r *JournalRepository) findOne(ctx context.Context, where string, args ...any) (*domain.JournalEntry, error) {
	var found *domain.JournalEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		h, err := scanJournal(tx.QueryRowContext(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE `+where, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return storageError("failed to find journal entry", err)
		}
		entries, err := attachLines(ctx, tx, []models.Journal{h})
		if err != nil {
			return err
		}
		found = &entries[0]
		return nil
	})
	return found, err
}

func (r *JournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `entry_id = ?`, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("entry %s", entryID)
	}
	return e, err
}

func (r *JournalRepository) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `source = ? AND external_reference = ?`, source, reference)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("reference %s/%s", source, reference)
	}
	return e, err
}

func (r *JournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `reversal_of = ?`, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("reversal of %s", entryID)
	}
	return e, err
}

func (r *JournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		// LIMIT -1 is unbounded in SQLite.
		limit := int64(-1)
		if filter.Limit > 0 {
			limit = int64(filter.Limit)
		}
		rows, err := tx.QueryContext(ctx, `
			SELECT `+journalColumns+` FROM journal_entries
			WHERE sequence > ? AND (? = '' OR source = ?)
			ORDER BY sequence
			LIMIT ?`, filter.AfterSequence, filter.Source, filter.Source, limit)
		if err != nil {
			return storageError("failed to list journal entries", err)
		}
		var headers []models.Journal
		for rows.Next() {
			h, err := scanJournal(rows)
			if err != nil {
				rows.Close()
				return storageError("failed to scan journal entry", err)
			}
			headers = append(headers, h)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return storageError("failed to iterate journal entries", err)
		}
		rows.Close()
		out, err = attachLines(ctx, tx, headers)
		return err
	})
	return out, err
}

func legQuery(filter domain.LegFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.AccountID != "" {
		conds = append(conds, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if !filter.After.IsZero() {
		conds = append(conds, "committed_at > ?")
		args = append(args, toNanos(filter.After))
	}
	if !filter.AsOf.IsZero() {
		conds = append(conds, "committed_at <= ?")
		args = append(args, toNanos(filter.AsOf))
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY sequence, line_no`, args
}

func (r *JournalRepository) ListLegs(ctx context.Context, filter domain.LegFilter) ([]domain.CommittedLeg, error) {
	query, args := legQuery(filter)
	lines, err := queryLines(ctx, r.DB, query, args...)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCommittedLegSlice(lines), nil
}

func (r *JournalRepository) LoadSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	snap := &domain.LedgerSnapshot{AsOf: asOf}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		accounts, err := queryAccounts(ctx, tx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
		if err != nil {
			return err
		}
		query, args := legQuery(domain.LegFilter{AsOf: asOf})
		lines, err := queryLines(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		snap.Accounts = accounts
		snap.Legs = mapping.ToDomainCommittedLegSlice(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
