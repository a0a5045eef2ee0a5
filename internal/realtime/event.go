package realtime

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventMakeMethodActivated      = "make_method.activated"
	EventMakeMethodVersionCreated = "make_method.version_created"
	EventMethodGraphCloned        = "method_graph.cloned"
)

// Event is a committed domain change fanned out to other instances.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

func NewEvent(name string, data map[string]any) Event {
	return Event{
		ID:         uuid.New(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
