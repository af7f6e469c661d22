package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCallPersisted is emitted after a call's post-call pipeline
	// finishes.
	EventTypeCallPersisted = "callmem.call.persisted"
)

// CallPersistedEvent is a transport-neutral event payload for a processed
// call.
type CallPersistedEvent struct {
	SchemaVersion   int       `json:"schema_version"`
	EventType       string    `json:"event_type"`
	EventID         string    `json:"event_id"`
	EmittedAt       time.Time `json:"emitted_at"`
	CallerID        string    `json:"caller_id"`
	ConversationID  string    `json:"conversation_id"`
	AgentID         string    `json:"agent_id"`
	DurationSeconds int       `json:"duration_seconds"`
	FactualStored   bool      `json:"factual_stored"`
	SemanticStored  bool      `json:"semantic_stored"`
	Archived        bool      `json:"archived"`
}

// NewCallPersistedEvent stamps a new event with a random ID.
func NewCallPersistedEvent(now time.Time) *CallPersistedEvent {
	return &CallPersistedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeCallPersisted,
		EventID:       uuid.NewString(),
		EmittedAt:     now.UTC(),
	}
}
