package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingRequest is a debit/credit pair of equal amount.
type PostingRequest struct {
	DebitAccountID  string          `json:"debitAccountID" binding:"required,ledgerid"`
	CreditAccountID string          `json:"creditAccountID" binding:"required,ledgerid"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Memo            string          `json:"memo" binding:"max=500"`
}

// LegRequest is a single debit or credit line.
type LegRequest struct {
	AccountID    string          `json:"accountID" binding:"required,ledgerid"`
	Side         domain.Side     `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Memo         string          `json:"memo" binding:"max=500"`
}

// SubmitEntryRequest is a candidate journal entry. Postings expand into a
// debit leg followed by a credit leg and precede any explicit Legs.
type SubmitEntryRequest struct {
	Source            string           `json:"source" binding:"required,max=100"`
	ExternalReference string           `json:"externalReference" binding:"required,max=255"`
	Description       string           `json:"description" binding:"max=1024"`
	OccurredAt        *time.Time       `json:"occurredAt"`
	Postings          []PostingRequest `json:"postings" binding:"omitempty,dive"`
	Legs              []LegRequest     `json:"legs" binding:"omitempty,dive"`
}

// ReverseEntryRequest carries the reason for a reversal.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListJournalsParams defines query parameters for listing journal entries.
type ListJournalsParams struct {
	Source    string `form:"source"`
	Limit     int    `form:"limit,default=50" binding:"min=0,max=500"`
	NextToken string `form:"nextToken"`
}

// LegResponse is a committed leg.
type LegResponse struct {
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	Side         domain.Side     `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Memo         string          `json:"memo,omitempty"`
}

// JournalEntryResponse mirrors domain.JournalEntry.
type JournalEntryResponse struct {
	EntryID           string             `json:"entryID"`
	Sequence          int64              `json:"sequence"`
	Source            string             `json:"source"`
	ExternalReference string             `json:"externalReference"`
	Description       string             `json:"description,omitempty"`
	OccurredAt        time.Time          `json:"occurredAt"`
	CommittedAt       time.Time          `json:"committedAt"`
	Status            domain.EntryStatus `json:"status"`
	ReversalOf        string             `json:"reversalOf,omitempty"`
	ReversalReason    string             `json:"reversalReason,omitempty"`
	CreatedBy         string             `json:"createdBy,omitempty"`
	Legs              []LegResponse      `json:"legs"`
}

// ToJournalEntryResponse converts a domain entry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	legs := make([]LegResponse, len(e.Legs))
	for i, l := range e.Legs {
		legs[i] = LegResponse{
			LineNo:       i + 1,
			AccountID:    l.AccountID,
			Side:         l.Side,
			Amount:       l.Amount.Amount,
			CurrencyCode: l.Amount.Currency,
			Memo:         l.Memo,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		Sequence:          e.Sequence,
		Source:            e.Metadata.Source,
		ExternalReference: e.Metadata.ExternalReference,
		Description:       e.Metadata.Description,
		OccurredAt:        e.Metadata.OccurredAt,
		CommittedAt:       e.CommittedAt,
		Status:            e.Status,
		ReversalOf:        e.ReversalOf,
		ReversalReason:    e.ReversalReason,
		CreatedBy:         e.Metadata.CreatedBy,
		Legs:              legs,
	}
}

// ListJournalsResponse is a page of entries.
type ListJournalsResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// SubmitEntryResponse returns the identity the ledger assigned to the entry.
type SubmitEntryResponse struct {
	EntryID     string    `json:"entryID"`
	Sequence    int64     `json:"sequence"`
	CommittedAt time.Time `json:"committedAt"`
}
