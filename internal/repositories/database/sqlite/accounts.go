package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const accountColumns = `account_id, name, account_type, currency_code, parent_account_id, description,
	role, is_active, version, created_at, created_by, last_updated_at, last_updated_by`

type AccountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.Name, &m.AccountType, &m.CurrencyCode, &m.ParentAccountID, &m.Description,
		&m.Role, &m.IsActive, &m.Version, nanoTime{&m.CreatedAt}, &m.CreatedBy, nanoTime{&m.LastUpdatedAt}, &m.LastUpdatedBy)
	return m, err
}

func queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]domain.Account, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to query accounts", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storageError("failed to scan account", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate accounts", err)
	}
	return mapping.ToDomainAccountSlice(out), nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	m, err := scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("account %s", accountID)
		}
		return nil, storageError("failed to find account "+accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}
	accounts, err := queryAccounts(ctx, r.DB,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return queryAccounts(ctx, r.DB, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
}

func (r *AccountRepository) ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error) {
	return queryAccounts(ctx, r.DB, `SELECT `+accountColumns+` FROM accounts WHERE parent_account_id = ? ORDER BY account_id`, parentID)
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account, event domain.ChartEvent) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		m := mapping.ToModelAccount(account)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.AccountID, m.Name, m.AccountType, m.CurrencyCode, m.ParentAccountID, m.Description,
			m.Role, m.IsActive, m.Version, toNanos(m.CreatedAt), m.CreatedBy, toNanos(m.LastUpdatedAt), m.LastUpdatedBy)
		if err != nil {
			code, _ := constraintError(err)
			switch {
			case isUnique(code):
				return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
			case isForeignKey(code):
				return fmt.Errorf("%w: account %s references a missing parent or currency", apperrors.ErrValidation, account.AccountID)
			}
			return storageError("failed to insert account "+account.AccountID, err)
		}
		return insertChartEvent(ctx, tx, event)
	})
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64, event domain.ChartEvent) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		m := mapping.ToModelAccount(account)
		res, err := tx.ExecContext(ctx, `
			UPDATE accounts
			SET name = ?, account_type = ?, parent_account_id = ?, description = ?, role = ?,
				is_active = ?, version = ?, last_updated_at = ?, last_updated_by = ?
			WHERE account_id = ? AND version = ?`,
			m.Name, m.AccountType, m.ParentAccountID, m.Description, m.Role,
			m.IsActive, m.Version, toNanos(m.LastUpdatedAt), m.LastUpdatedBy, m.AccountID, expectedVersion)
		if err != nil {
			return storageError("failed to update account "+account.AccountID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return storageError("failed to update account "+account.AccountID, err)
		}
		if affected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = ?)`, account.AccountID).Scan(&exists); err != nil {
				return storageError("failed to check account "+account.AccountID, err)
			}
			if !exists {
				return notFound("account %s", account.AccountID)
			}
			return fmt.Errorf("account %s changed since version %d: %w", account.AccountID, expectedVersion, apperrors.ErrConflict)
		}
		return insertChartEvent(ctx, tx, event)
	})
}

func insertChartEvent(ctx context.Context, tx *sql.Tx, event domain.ChartEvent) error {
	m := mapping.ToModelChartEvent(event)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO chart_events (event_id, account_id, kind, field, old_value, new_value, reason, actor, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.EventID, m.AccountID, m.Kind, m.Field, m.OldValue, m.NewValue, m.Reason, m.Actor, toNanos(m.OccurredAt))
	if err != nil {
		return storageError("failed to insert chart event for "+event.AccountID, err)
	}
	return nil
}

func (r *AccountRepository) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT event_id, account_id, kind, field, old_value, new_value, reason, actor, occurred_at
		FROM chart_events WHERE account_id = ? ORDER BY occurred_at, rowid`, accountID)
	if err != nil {
		return nil, storageError("failed to list chart events of "+accountID, err)
	}
	defer rows.Close()

	var events []domain.ChartEvent
	for rows.Next() {
		var m models.ChartEvent
		if err := rows.Scan(&m.EventID, &m.AccountID, &m.Kind, &m.Field, &m.OldValue, &m.NewValue,
			&m.Reason, &m.Actor, nanoTime{&m.OccurredAt}); err != nil {
			return nil, storageError("failed to scan chart event", err)
		}
		events = append(events, mapping.ToDomainChartEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate chart events", err)
	}
	return events, nil
}
