package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/callmem/pkg/eventstream"
)

// MockPublisher records published call events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.CallPersistedEvent

	// Fail causes PublishCall to return an error.
	Fail bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishCall(_ context.Context, event *eventstream.CallPersistedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("mock publish failure")
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a snapshot of the published events.
func (m *MockPublisher) Events() []*eventstream.CallPersistedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*eventstream.CallPersistedEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockPublisher) Close() error {
	return nil
}
