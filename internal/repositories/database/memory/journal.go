package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AppendEntry runs every uniqueness check and the sequence assignment under
// the write lock.
func (s *Store) AppendEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := referenceKey{source: entry.Metadata.Source, reference: entry.Metadata.ExternalReference}
	if idx, ok := s.byReference[key]; ok {
		return nil, fmt.Errorf("reference %s/%s already committed as %s: %w",
			key.source, key.reference, s.entries[idx].EntryID, apperrors.ErrDuplicate)
	}
	if _, ok := s.byID[entry.EntryID]; ok {
		return nil, fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
	}
	if entry.IsReversal() {
		if _, ok := s.byID[entry.ReversalOf]; !ok {
			return nil, fmt.Errorf("reversed entry %s: %w", entry.ReversalOf, apperrors.ErrNotFound)
		}
		if _, ok := s.reversals[entry.ReversalOf]; ok {
			return nil, fmt.Errorf("entry %s: %w", entry.ReversalOf, apperrors.ErrAlreadyReversed)
		}
	}

	stored := entry.Clone()
	stored.Sequence = int64(len(s.entries)) + 1
	stored.CommittedAt = entry.CommittedAt.UTC()
	if stored.CommittedAt.Before(s.lastCommittedAt) {
		stored.CommittedAt = s.lastCommittedAt
	}

	idx := len(s.entries)
	s.entries = append(s.entries, stored)
	s.byID[stored.EntryID] = idx
	s.byReference[key] = idx
	if stored.IsReversal() {
		s.reversals[stored.ReversalOf] = idx
	}
	s.lastCommittedAt = stored.CommittedAt

	out := stored.Clone()
	return &out, nil
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[entryID]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	out := s.entries[idx].Clone()
	return &out, nil
}

func (s *Store) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byReference[referenceKey{source: source, reference: reference}]
	if !ok {
		return nil, fmt.Errorf("reference %s/%s: %w", source, reference, apperrors.ErrNotFound)
	}
	out := s.entries[idx].Clone()
	return &out, nil
}

func (s *Store) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.reversals[entryID]
	if !ok {
		return nil, fmt.Errorf("reversal of %s: %w", entryID, apperrors.ErrNotFound)
	}
	out := s.entries[idx].Clone()
	return &out, nil
}

func (s *Store) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.JournalEntry
	start := 0
	if filter.AfterSequence > 0 {
		start = int(filter.AfterSequence)
	}
	for i := start; i < len(s.entries); i++ {
		e := s.entries[i]
		if filter.Source != "" && e.Metadata.Source != filter.Source {
			continue
		}
		out = append(out, e.Clone())
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListLegs(ctx context.Context, filter domain.LegFilter) ([]domain.CommittedLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legsLocked(filter), nil
}

func (s *Store) LoadSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &domain.LedgerSnapshot{
		AsOf:     asOf,
		Accounts: s.sortedAccountsLocked(func(domain.Account) bool { return true }),
		Legs:     s.legsLocked(domain.LegFilter{AsOf: asOf}),
	}, nil
}

// legsLocked walks entries in sequence order. Commit times are
// non-decreasing in sequence, so the walk stops at the first entry past AsOf.
func (s *Store) legsLocked(filter domain.LegFilter) []domain.CommittedLeg {
	var out []domain.CommittedLeg
	for _, e := range s.entries {
		if !filter.AsOf.IsZero() && e.CommittedAt.After(filter.AsOf) {
			break
		}
		if !filter.After.IsZero() && !e.CommittedAt.After(filter.After) {
			continue
		}
		for _, l := range e.CommittedLegs() {
			if filter.AccountID != "" && l.AccountID != filter.AccountID {
				continue
			}
			out = append(out, l)
		}
	}
	return out
}
