package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/callmem/pkg/memory"
)

// MockMemoryDriver is a test memory driver that records calls and returns
// configurable results.
type MockMemoryDriver struct {
	mu sync.Mutex

	// Added accumulates all documents passed to Add.
	Added []*memory.Document

	// Memories is returned by GetAll for any owner.
	Memories []memory.Memory

	// SearchResults is returned by Search, capped at limit.
	SearchResults []memory.Memory

	// FailAddKind causes Add to fail for documents of that kind.
	FailAddKind memory.Kind

	// FailAdd causes every Add to return an error.
	FailAdd bool

	// FailGetAll causes GetAll to return an error.
	FailGetAll bool

	// FailSearch causes Search to return an error.
	FailSearch bool

	// GetAllCalls and SearchCalls count reads.
	GetAllCalls int
	SearchCalls int

	// LastQuery, LastOwner and LastLimit capture the last Search arguments.
	LastQuery string
	LastOwner string
	LastLimit int
}

// NewMockMemoryDriver creates a new mock memory driver.
func NewMockMemoryDriver() *MockMemoryDriver {
	return &MockMemoryDriver{}
}

func (m *MockMemoryDriver) Add(_ context.Context, doc *memory.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAdd || (m.FailAddKind != "" && doc.Kind == m.FailAddKind) {
		return memory.ErrNotConfigured
	}
	m.Added = append(m.Added, doc)
	return nil
}

func (m *MockMemoryDriver) GetAll(_ context.Context, _ string) ([]memory.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetAllCalls++
	if m.FailGetAll {
		return nil, memory.ErrNotConfigured
	}
	return m.Memories, nil
}

func (m *MockMemoryDriver) Search(_ context.Context, query, ownerID string, limit int) ([]memory.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchCalls++
	m.LastQuery, m.LastOwner, m.LastLimit = query, ownerID, limit
	if m.FailSearch {
		return nil, memory.ErrNotConfigured
	}
	if len(m.SearchResults) > limit {
		return m.SearchResults[:limit], nil
	}
	return m.SearchResults, nil
}

// Documents returns a snapshot of the added documents.
func (m *MockMemoryDriver) Documents() []*memory.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*memory.Document, len(m.Added))
	copy(out, m.Added)
	return out
}

func (m *MockMemoryDriver) Close() error {
	return nil
}

// NewMemory builds a typed memory for tests. An empty kind leaves the
// memory untyped.
func NewMemory(text string, kind memory.Kind) memory.Memory {
	mem := memory.Memory{Text: text, Metadata: map[string]any{}}
	if kind != "" {
		mem.Metadata[memory.MetaType] = string(kind)
	}
	return mem
}
