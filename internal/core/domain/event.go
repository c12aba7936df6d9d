package domain

import "time"

// EventType identifies a traceability event kind.
type EventType string

const (
	EventProductAdded     EventType = "product_added"
	EventProductVerified  EventType = "product_verified"
	EventAuthorityUpdated EventType = "authority_updated"
)

// TraceEvent is one entry in the traceability log, emitted as the final
// side effect of every successful mutating operation.
type TraceEvent struct {
	Type      EventType `json:"type"`
	ProductID string    `json:"product_id,omitempty"`
	Account   string    `json:"account"` // producer, verifier, or admin actor
	Timestamp time.Time `json:"timestamp"`
	Step      *int      `json:"step,omitempty"`   // product_verified only
	Reward    *uint64   `json:"reward,omitempty"` // product_verified only
	Authority string    `json:"authority,omitempty"`
}
