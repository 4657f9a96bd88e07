package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalWriterSvc is the only mutation entrypoint of the ledger
type JournalWriterSvc interface {
	// SubmitEntry validates a candidate entry and appends it atomically.
	SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest, actor string) (*domain.JournalEntry, error)

	// ReverseEntry commits a new entry with every leg of entryID swapped.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actor string) (*domain.JournalEntry, error)
}

// JournalReaderSvc defines read operations on committed entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference lets a caller whose submission timed out find out
	// whether it was committed before retrying.
	FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error)

	ListEntries(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalWriterSvc
	JournalReaderSvc
}
