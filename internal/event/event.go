package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a lifecycle notification fired by the pipeline browser.
type Kind string

const (
	KindActiveChanged   Kind = "active_changed"
	KindDataChanged     Kind = "data_changed"
	KindDeleteRequested Kind = "delete_requested"
)

// Event is the canonical model for lifecycle notifications sent to the controller layer.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	NodeID     string    `json:"node_id,omitempty"` // raw id as received from the UI
	SessionID  string    `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps a fresh event of the given kind.
func New(kind Kind, sessionID, nodeID string) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		NodeID:     nodeID,
		SessionID:  sessionID,
		OccurredAt: time.Now(),
	}
}
