package domain

import "time"

// ChartEventKind names a structural edit of the chart of accounts.
type ChartEventKind string

const (
	EventRegistered   ChartEventKind = "REGISTERED"
	EventReclassified ChartEventKind = "RECLASSIFIED"
	EventReparented   ChartEventKind = "REPARENTED"
	EventRoleChanged  ChartEventKind = "ROLE_CHANGED"
	EventDeactivated  ChartEventKind = "DEACTIVATED"
	EventReactivated  ChartEventKind = "REACTIVATED"
)

// ChartEvent is the audit record of one structural edit. Events are stored
// together with the account change they describe and are never edited.
type ChartEvent struct {
	EventID    string         `json:"eventID"`
	AccountID  string         `json:"accountID"`
	Kind       ChartEventKind `json:"kind"`
	Field      string         `json:"field,omitempty"`
	OldValue   string         `json:"oldValue,omitempty"`
	NewValue   string         `json:"newValue,omitempty"`
	Reason     string         `json:"reason"`
	Actor      string         `json:"actor"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Eligibility is the outcome of evaluating the posting policy table for one
// account. Rule names the first rule that failed.
type Eligibility struct {
	AccountID string
	Eligible  bool
	Rule      string
	Reason    string
}
