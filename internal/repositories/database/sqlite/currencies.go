package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const currencyColumns = `currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by`

type CurrencyRepository struct {
	BaseRepository
}

var _ portsrepo.CurrencyRepositoryFacade = (*CurrencyRepository)(nil)

func (r *CurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO currencies (`+currencyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (currency_code) DO UPDATE SET
			symbol = excluded.symbol,
			name = excluded.name,
			precision = excluded.precision,
			last_updated_at = excluded.last_updated_at,
			last_updated_by = excluded.last_updated_by`,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision,
		toNanos(m.CreatedAt), m.CreatedBy, toNanos(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		return storageError("failed to save currency "+m.CurrencyCode, err)
	}
	return nil
}

func scanCurrency(row rowScanner) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(&m.CurrencyCode, &m.Symbol, &m.Name, &m.Precision,
		nanoTime{&m.CreatedAt}, &m.CreatedBy, nanoTime{&m.LastUpdatedAt}, &m.LastUpdatedBy)
	return m, err
}

func (r *CurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	m, err := scanCurrency(r.DB.QueryRowContext(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE currency_code = ?`, currencyCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("currency %s", currencyCode)
		}
		return nil, storageError("failed to find currency "+currencyCode, err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

func (r *CurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code`)
	if err != nil {
		return nil, storageError("failed to list currencies", err)
	}
	defer rows.Close()

	var out []models.Currency
	for rows.Next() {
		m, err := scanCurrency(rows)
		if err != nil {
			return nil, storageError("failed to scan currency", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to iterate currencies", err)
	}
	return mapping.ToDomainCurrencySlice(out), nil
}
