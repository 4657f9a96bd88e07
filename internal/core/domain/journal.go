package domain

import "time"

// EntryStatus is the durable state of a journal entry. Only committed entries
// are ever stored; rejected candidates are returned as errors.
type EntryStatus string

const (
	StatusCommitted EntryStatus = "COMMITTED"
)

// ReversalReferencePrefix prefixes the external reference of reversal entries.
const ReversalReferencePrefix = "reversal:"

// EntryMetadata describes the real-world event behind a journal entry.
type EntryMetadata struct {
	Source            string    `json:"source"`            // collaborator that produced the entry
	ExternalReference string    `json:"externalReference"` // unique per source
	Description       string    `json:"description,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
	CreatedBy         string    `json:"createdBy,omitempty"`
}

// JournalEntry is an atomic, append-only group of legs.
type JournalEntry struct {
	EntryID        string        `json:"entryID"`
	Sequence       int64         `json:"sequence"`
	Metadata       EntryMetadata `json:"metadata"`
	Legs           []Leg         `json:"legs"`
	Status         EntryStatus   `json:"status"`
	CommittedAt    time.Time     `json:"committedAt"`
	ReversalOf     string        `json:"reversalOf,omitempty"`
	ReversalReason string        `json:"reversalReason,omitempty"`
}

func (e JournalEntry) IsReversal() bool {
	return e.ReversalOf != ""
}

// Clone returns a deep copy so stored entries cannot be mutated through
// returned values.
func (e JournalEntry) Clone() JournalEntry {
	c := e
	c.Legs = make([]Leg, len(e.Legs))
	copy(c.Legs, e.Legs)
	return c
}

// CommittedLegs returns the entry's legs annotated with their position in
// the journal.
func (e JournalEntry) CommittedLegs() []CommittedLeg {
	out := make([]CommittedLeg, len(e.Legs))
	for i, l := range e.Legs {
		out[i] = CommittedLeg{
			Leg:         l,
			EntryID:     e.EntryID,
			LineNo:      i + 1,
			Sequence:    e.Sequence,
			CommittedAt: e.CommittedAt,
		}
	}
	return out
}

// AccountIDs returns the distinct account IDs touched by the entry in first
// appearance order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Legs))
	ids := make([]string, 0, len(e.Legs))
	for _, l := range e.Legs {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// EntryFilter selects committed entries in ascending sequence order.
type EntryFilter struct {
	Source        string
	AfterSequence int64
	Limit         int
}
