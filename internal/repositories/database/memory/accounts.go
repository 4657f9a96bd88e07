package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &a, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedAccountsLocked(func(domain.Account) bool { return true }), nil
}

func (s *Store) ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedAccountsLocked(func(a domain.Account) bool { return a.ParentAccountID == parentID }), nil
}

func (s *Store) sortedAccountsLocked(keep func(domain.Account) bool) []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account, event domain.ChartEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	s.events[account.AccountID] = append(s.events[account.AccountID], event)
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int64, event domain.ChartEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("account %s at version %d, expected %d: %w",
			account.AccountID, current.Version, expectedVersion, apperrors.ErrConflict)
	}
	s.accounts[account.AccountID] = account
	s.events[account.AccountID] = append(s.events[account.AccountID], event)
	return nil
}

func (s *Store) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[accountID]
	out := make([]domain.ChartEvent, len(events))
	copy(out, events)
	return out, nil
}
