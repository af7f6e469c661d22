package testutils

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
)

// MockEmbedder returns deterministic vectors derived from the text, so the
// same memory always lands on the same point.
type MockEmbedder struct {
	mu sync.Mutex

	// Dimensions is the length of every vector (defaults to 3).
	Dimensions int

	// Inputs records every text passed to Embed.
	Inputs []string

	// FailOn causes Embed to return an error when the input text matches.
	FailOn string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimensions: 3}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Inputs = append(m.Inputs, text)
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	dims := m.Dimensions
	if dims <= 0 {
		dims = 3
	}

	vec := make([]float32, dims)
	for i := range vec {
		h := fnv.New32a()
		_, _ = fmt.Fprintf(h, "%d:%s", i, text)
		vec[i] = float32(h.Sum32()%1000)/1000 + 0.001
	}
	return vec, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
