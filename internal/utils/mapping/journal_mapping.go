package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournal converts a domain JournalEntry into its header row and line rows.
func ToModelJournal(d domain.JournalEntry) (models.Journal, []models.JournalLine) {
	var reversalOf *string
	if d.ReversalOf != "" {
		r := d.ReversalOf
		reversalOf = &r
	}
	header := models.Journal{
		EntryID:           d.EntryID,
		Sequence:          d.Sequence,
		Source:            d.Metadata.Source,
		ExternalReference: d.Metadata.ExternalReference,
		Description:       d.Metadata.Description,
		OccurredAt:        d.Metadata.OccurredAt,
		CommittedAt:       d.CommittedAt,
		Status:            string(d.Status),
		ReversalOf:        reversalOf,
		ReversalReason:    d.ReversalReason,
		CreatedBy:         d.Metadata.CreatedBy,
	}
	lines := make([]models.JournalLine, len(d.Legs))
	for i, cl := range d.CommittedLegs() {
		lines[i] = ToModelJournalLine(cl)
	}
	return header, lines
}

// ToModelJournalLine converts a committed leg to its row shape.
func ToModelJournalLine(d domain.CommittedLeg) models.JournalLine {
	return models.JournalLine{
		EntryID:      d.EntryID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		Side:         string(d.Side),
		Amount:       d.Amount.Amount,
		CurrencyCode: d.Amount.Currency,
		Memo:         d.Memo,
		Sequence:     d.Sequence,
		CommittedAt:  d.CommittedAt,
	}
}

// ToDomainJournal rebuilds a domain JournalEntry from its rows. Lines must be
// ordered by line number.
func ToDomainJournal(m models.Journal, lines []models.JournalLine) domain.JournalEntry {
	e := domain.JournalEntry{
		EntryID:  m.EntryID,
		Sequence: m.Sequence,
		Metadata: domain.EntryMetadata{
			Source:            m.Source,
			ExternalReference: m.ExternalReference,
			Description:       m.Description,
			OccurredAt:        m.OccurredAt,
			CreatedBy:         m.CreatedBy,
		},
		Status:         domain.EntryStatus(m.Status),
		CommittedAt:    m.CommittedAt,
		ReversalReason: m.ReversalReason,
		Legs:           make([]domain.Leg, len(lines)),
	}
	if m.ReversalOf != nil {
		e.ReversalOf = *m.ReversalOf
	}
	for i, l := range lines {
		e.Legs[i] = ToDomainCommittedLeg(l).Leg
	}
	return e
}

// ToDomainCommittedLeg converts a line row to a committed leg.
func ToDomainCommittedLeg(m models.JournalLine) domain.CommittedLeg {
	return domain.CommittedLeg{
		Leg: domain.Leg{
			AccountID: m.AccountID,
			Side:      domain.Side(m.Side),
			Amount:    domain.NewMoney(m.Amount, m.CurrencyCode),
			Memo:      m.Memo,
		},
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		Sequence:    m.Sequence,
		CommittedAt: m.CommittedAt,
	}
}

// ToDomainCommittedLegSlice converts line rows to committed legs.
func ToDomainCommittedLegSlice(ms []models.JournalLine) []domain.CommittedLeg {
	ds := make([]domain.CommittedLeg, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCommittedLeg(m)
	}
	return ds
}
