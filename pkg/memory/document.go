package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a memory document.
type Kind string

const (
	KindFactual  Kind = "factual"
	KindSemantic Kind = "semantic"
)

// Metadata keys shared by every document.
const (
	MetaType           = "type"
	MetaAgentID        = "agent_id"
	MetaConversationID = "conversation_id"
	MetaCallDuration   = "call_duration"
	MetaTimestamp      = "timestamp"
)

// documentNamespace seeds deterministic document IDs.
var documentNamespace = uuid.MustParse("6f1c1d2e-8a43-4b8e-9a57-3c0f5d9e2b71")

// Message is one role tagged message of a document.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Document is an immutable unit written to a memory store.
type Document struct {
	ID              string
	OwnerID         string
	Kind            Kind
	Messages        []Message
	AgentID         string
	ConversationID  string
	DurationSeconds int
	CreatedAt       time.Time
}

// DocumentID derives the stable ID of the kind document of one conversation.
func DocumentID(ownerID, conversationID string, kind Kind) string {
	return uuid.NewSHA1(documentNamespace, []byte(ownerID+"|"+conversationID+"|"+string(kind))).String()
}

// Metadata returns the document's store metadata.
func (d *Document) Metadata() map[string]any {
	return map[string]any{
		MetaType:           string(d.Kind),
		MetaAgentID:        d.AgentID,
		MetaConversationID: d.ConversationID,
		MetaCallDuration:   d.DurationSeconds,
		MetaTimestamp:      d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Text flattens the document for stores that keep plain text. Semantic
// transcripts become "role: content" lines however many turns they have;
// factual content is stored as is.
func (d *Document) Text() string {
	lines := make([]string, 0, len(d.Messages))
	for _, m := range d.Messages {
		if d.Kind == KindSemantic {
			lines = append(lines, m.Role+": "+m.Content)
		} else {
			lines = append(lines, m.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// Validate checks the fields every driver relies on.
func (d *Document) Validate() error {
	if d == nil {
		return ErrNilDocument
	}
	if d.OwnerID == "" {
		return ErrMissingOwner
	}
	if len(d.Messages) == 0 {
		return ErrEmptyDocument
	}
	return nil
}

// Memory is a stored memory as returned by a driver.
type Memory struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"user_id,omitempty"`
	Text      string         `json:"memory"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Score     float64        `json:"score,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
}

// Kind returns the memory's type tag, or "" when untyped.
func (m *Memory) Kind() Kind {
	if m.Metadata == nil {
		return ""
	}
	t, _ := m.Metadata[MetaType].(string)
	return Kind(t)
}

// NewMemory converts a document into the memory a plain text store returns.
func NewMemory(d *Document) Memory {
	return Memory{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Text:      d.Text(),
		Metadata:  d.Metadata(),
		CreatedAt: d.CreatedAt,
	}
}
