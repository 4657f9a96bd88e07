package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, account_type, currency_code, parent_account_id, description,
	role, is_active, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.Name, &m.AccountType, &m.CurrencyCode, &m.ParentAccountID, &m.Description,
		&m.Role, &m.IsActive, &m.Version, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	modelAccounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("account %s", accountID)
		}
		return nil, storageError("failed to find account "+accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1)`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storageError("failed to query accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts", err)
	}
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, storageError("failed to list accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE parent_account_id = $1 ORDER BY account_id`
	rows, err := r.Pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, storageError("failed to list child accounts of "+parentID, err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, storageError("failed to scan accounts", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, event domain.ChartEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelAccount(account)
	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.AccountID, m.Name, m.AccountType, m.CurrencyCode, m.ParentAccountID, m.Description,
		m.Role, m.IsActive, m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case codeUniqueViolation:
			return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: account %s references a missing parent or currency", apperrors.ErrValidation, account.AccountID)
		}
		return storageError("failed to insert account "+account.AccountID, err)
	}
	if err := insertChartEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64, event domain.ChartEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelAccount(account)
	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET name = $2, account_type = $3, parent_account_id = $4, description = $5, role = $6,
			is_active = $7, version = $8, last_updated_at = $9, last_updated_by = $10
		WHERE account_id = $1 AND version = $11`,
		m.AccountID, m.Name, m.AccountType, m.ParentAccountID, m.Description, m.Role,
		m.IsActive, m.Version, m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion)
	if err != nil {
		return storageError("failed to update account "+account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, account.AccountID).Scan(&exists); err != nil {
			return storageError("failed to check account "+account.AccountID, err)
		}
		if !exists {
			return notFound("account %s", account.AccountID)
		}
		return fmt.Errorf("account %s changed since version %d: %w", account.AccountID, expectedVersion, apperrors.ErrConflict)
	}
	if err := insertChartEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertChartEvent(ctx context.Context, tx pgx.Tx, event domain.ChartEvent) error {
	m := mapping.ToModelChartEvent(event)
	_, err := tx.Exec(ctx, `
		INSERT INTO chart_events (event_id, account_id, kind, field, old_value, new_value, reason, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.EventID, m.AccountID, m.Kind, m.Field, m.OldValue, m.NewValue, m.Reason, m.Actor, m.OccurredAt)
	if err != nil {
		return storageError("failed to insert chart event for "+event.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT event_id, account_id, kind, field, old_value, new_value, reason, actor, occurred_at
		FROM chart_events WHERE account_id = $1 ORDER BY occurred_at, seq`, accountID)
	if err != nil {
		return nil, storageError("failed to list chart events of "+accountID, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ChartEvent, error) {
		var m models.ChartEvent
		err := row.Scan(&m.EventID, &m.AccountID, &m.Kind, &m.Field, &m.OldValue, &m.NewValue, &m.Reason, &m.Actor, &m.OccurredAt)
		return mapping.ToDomainChartEvent(m), err
	})
	if err != nil {
		return nil, storageError("failed to scan chart events", err)
	}
	return events, nil
}
