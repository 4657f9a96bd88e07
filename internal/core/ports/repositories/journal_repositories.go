package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for committed journal entries
type JournalReader interface {
	// FindEntryByID retrieves a committed entry, or apperrors.ErrNotFound.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves the entry committed under (source, reference).
	FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error)

	// FindReversalOf retrieves the entry reversing entryID, or apperrors.ErrNotFound.
	FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns entries in ascending sequence order.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error)
}

// JournalAppender is the only mutating path of the journal.
type JournalAppender interface {
	// AppendEntry stores a validated entry in one atomic step. Inside that
	// step it assigns Sequence as last+1 and CommittedAt as the later of
	// entry.CommittedAt and the previous commit time. It returns
	// apperrors.ErrDuplicate when (source, reference) is taken and
	// apperrors.ErrAlreadyReversed when the reversed entry already has a
	// reversal. Readers never observe a partially stored entry.
	AppendEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)
}

// LegReader defines the reads used by balance folds
type LegReader interface {
	// ListLegs returns the legs matching filter ordered by (sequence, line).
	ListLegs(ctx context.Context, filter domain.LegFilter) ([]domain.CommittedLeg, error)

	// LoadSnapshot reads the chart and every leg committed up to asOf from
	// one consistent view of the store.
	LoadSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalAppender
	LegReader
}
