package mem0

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/papercomputeco/callmem/pkg/memory"
)

type addRequest struct {
	Messages  []memory.Message `json:"messages"`
	UserID    string           `json:"user_id"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
	Version   string           `json:"version"`
	OrgID     string           `json:"org_id,omitempty"`
	ProjectID string           `json:"project_id,omitempty"`
}

type searchRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id"`
	Limit     int    `json:"limit"`
	OrgID     string `json:"org_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

type mem0Memory struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	UserID    string         `json:"user_id"`
	Metadata  map[string]any `json:"metadata"`
	Score     float64        `json:"score"`
	CreatedAt string         `json:"created_at"`
}

func (m mem0Memory) toMemory() memory.Memory {
	out := memory.Memory{
		ID:       m.ID,
		OwnerID:  m.UserID,
		Text:     m.Memory,
		Metadata: m.Metadata,
		Score:    m.Score,
	}
	if t, err := time.Parse(time.RFC3339Nano, m.CreatedAt); err == nil {
		out.CreatedAt = t
	}
	return out
}

// decodeMemories accepts both response envelopes the platform uses: a bare
// list and {"results": [...]}.
func decodeMemories(body []byte) ([]memory.Memory, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var items []mem0Memory
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decoding memory list: %w", err)
		}
	} else {
		var wrapped struct {
			Results []mem0Memory `json:"results"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding memory results: %w", err)
		}
		items = wrapped.Results
	}

	out := make([]memory.Memory, 0, len(items))
	for _, item := range items {
		out = append(out, item.toMemory())
	}
	return out, nil
}
