package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names from migrations/postgres/000001_init.up.sql.
const (
	constraintSourceReference = "journal_entries_source_reference_key"
	constraintReversalOf      = "journal_entries_reversal_of_key"
)

const journalColumns = `entry_id, sequence, source, external_reference, description, occurred_at,
	committed_at, status, reversal_of, reversal_reason, created_by`

const lineColumns = `entry_id, line_no, account_id, side, amount, currency_code, memo, sequence, committed_at`

type PgxJournalRepository struct {
	BaseRepository
	retry RetryPolicy
}

// newPgxJournalRepository creates the append-only journal store.
func newPgxJournalRepository(pool *pgxpool.Pool, retry RetryPolicy) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		retry:          retry,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// AppendEntry writes the entry in one SERIALIZABLE transaction. The single
// ledger_sequence row is the serialization point: its UPDATE hands out
// last+1 and the monotonic commit time, and a rollback gives both back.
func (r *PgxJournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var stored domain.JournalEntry
	err := r.retry.run(ctx, "append journal entry", func(ctx context.Context) error {
		var err error
		stored, err = r.appendOnce(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PgxJournalRepository) appendOnce(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return domain.JournalEntry{}, err
	}
	defer r.Rollback(ctx, tx)

	stored := entry.Clone()
	proposed := entry.CommittedAt.UTC().Truncate(time.Microsecond)
	err = tx.QueryRow(ctx, `
		UPDATE ledger_sequence
		SET last_value = last_value + 1,
			last_committed_at = GREATEST(last_committed_at, $1)
		WHERE id = 1
		RETURNING last_value, last_committed_at`, proposed).Scan(&stored.Sequence, &stored.CommittedAt)
	if err != nil {
		return domain.JournalEntry{}, storageError("failed to advance ledger sequence", err)
	}
	stored.CommittedAt = stored.CommittedAt.UTC()
	stored.Metadata.OccurredAt = stored.Metadata.OccurredAt.UTC().Truncate(time.Microsecond)

	header, lines := mapping.ToModelJournal(stored)
	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		header.EntryID, header.Sequence, header.Source, header.ExternalReference, header.Description, header.OccurredAt,
		header.CommittedAt, header.Status, header.ReversalOf, header.ReversalReason, header.CreatedBy)
	if err != nil {
		return domain.JournalEntry{}, r.mapAppendError(entry, err)
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`INSERT INTO journal_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.EntryID, l.LineNo, l.AccountID, l.Side, l.Amount, l.CurrencyCode, l.Memo, l.Sequence, l.CommittedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if code, _ := pgErrorCode(err); code == codeForeignKeyViolation {
				return domain.JournalEntry{}, fmt.Errorf("leg of entry %s references an unknown account: %w", entry.EntryID, apperrors.ErrNotFound)
			}
			return domain.JournalEntry{}, storageError("failed to insert journal lines", err)
		}
	}
	if err := results.Close(); err != nil {
		return domain.JournalEntry{}, storageError("failed to close line batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.JournalEntry{}, err
	}
	return stored, nil
}

func (r *PgxJournalRepository) mapAppendError(entry domain.JournalEntry, err error) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == codeUniqueViolation && constraint == constraintReversalOf:
		return fmt.Errorf("entry %s: %w", entry.ReversalOf, apperrors.ErrAlreadyReversed)
	case code == codeUniqueViolation:
		return fmt.Errorf("reference %s/%s: %w", entry.Metadata.Source, entry.Metadata.ExternalReference, apperrors.ErrDuplicate)
	case code == codeForeignKeyViolation:
		return fmt.Errorf("reversed entry %s: %w", entry.ReversalOf, apperrors.ErrNotFound)
	}
	return storageError("failed to insert journal entry "+entry.EntryID, err)
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(&m.EntryID, &m.Sequence, &m.Source, &m.ExternalReference, &m.Description, &m.OccurredAt,
		&m.CommittedAt, &m.Status, &m.ReversalOf, &m.ReversalReason, &m.CreatedBy)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(&m.EntryID, &m.LineNo, &m.AccountID, &m.Side, &m.Amount, &m.CurrencyCode, &m.Memo, &m.Sequence, &m.CommittedAt)
	return m, err
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// findOne loads one header and its lines inside a read-only snapshot so the
// entry is never seen without its lines.
func (r *PgxJournalRepository) findOne(ctx context.Context, where string, args ...any) (*domain.JournalEntry, error) {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	header, err := scanJournal(tx.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("failed to find journal entry", err)
	}
	entries, err := r.attachLines(ctx, tx, []models.Journal{header})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (r *PgxJournalRepository) attachLines(ctx context.Context, q querier, headers []models.Journal) ([]domain.JournalEntry, error) {
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY sequence, line_no`, ids)
	if err != nil {
		return nil, storageError("failed to query journal lines", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalLine, error) {
		return scanLine(row)
	})
	if err != nil {
		return nil, storageError("failed to scan journal lines", err)
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

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `entry_id = $1`, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("entry %s", entryID)
	}
	return e, err
}

func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `source = $1 AND external_reference = $2`, source, reference)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("reference %s/%s", source, reference)
	}
	return e, err
}

func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	e, err := r.findOne(ctx, `reversal_of = $1`, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, notFound("reversal of %s", entryID)
	}
	return e, err
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE sequence > $1 AND ($2 = '' OR source = $2)
		ORDER BY sequence
		LIMIT NULLIF($3::bigint, 0)`, filter.AfterSequence, filter.Source, filter.Limit)
	if err != nil {
		return nil, storageError("failed to list journal entries", err)
	}
	headers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Journal, error) {
		return scanJournal(row)
	})
	if err != nil {
		return nil, storageError("failed to scan journal entries", err)
	}
	return r.attachLines(ctx, tx, headers)
}

// legQuery builds the filtered line query. Lines carry their entry's
// sequence and commit time, so no join is needed.
func legQuery(filter domain.LegFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID)
	}
	if !filter.After.IsZero() {
		add("committed_at > $%d", filter.After.UTC())
	}
	if !filter.AsOf.IsZero() {
		add("committed_at <= $%d", filter.AsOf.UTC())
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return query + ` ORDER BY sequence, line_no`, args
}

func collectLegs(rows pgx.Rows) ([]domain.CommittedLeg, error) {
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalLine, error) {
		return scanLine(row)
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCommittedLegSlice(lines), nil
}

// ListLegs is a single statement, so it reads one snapshot.
func (r *PgxJournalRepository) ListLegs(ctx context.Context, filter domain.LegFilter) ([]domain.CommittedLeg, error) {
	query, args := legQuery(filter)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query legs", err)
	}
	legs, err := collectLegs(rows)
	if err != nil {
		return nil, storageError("failed to scan legs", err)
	}
	return legs, nil
}

func (r *PgxJournalRepository) LoadSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, storageError("failed to list accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts", err)
	}

	query, args := legQuery(domain.LegFilter{AsOf: asOf})
	rows, err = tx.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query legs", err)
	}
	legs, err := collectLegs(rows)
	if err != nil {
		return nil, storageError("failed to scan legs", err)
	}
	return &domain.LedgerSnapshot{AsOf: asOf, Accounts: accounts, Legs: legs}, nil
}
