package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func (s *Store) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.currencies[currencyCode]
	if !ok {
		return nil, fmt.Errorf("currency %s: %w", currencyCode, apperrors.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *Store) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.currencies[currency.CurrencyCode]; ok {
		currency.CreatedAt = existing.CreatedAt
		currency.CreatedBy = existing.CreatedBy
	}
	s.currencies[currency.CurrencyCode] = currency
	return nil
}
