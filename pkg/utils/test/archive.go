package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/callmem/pkg/archive"
)

// MockSink records archived objects.
type MockSink struct {
	mu      sync.Mutex
	objects []*archive.Object

	// Fail causes Put to return an error.
	Fail bool
}

func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Put(_ context.Context, obj *archive.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("mock archive failure")
	}
	m.objects = append(m.objects, obj)
	return nil
}

// Objects returns a snapshot of the archived objects.
func (m *MockSink) Objects() []*archive.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*archive.Object, len(m.objects))
	copy(out, m.objects)
	return out
}

// Keys returns the archived keys in write order.
func (m *MockSink) Keys() []string {
	objs := m.Objects()
	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		keys = append(keys, o.Key)
	}
	return keys
}

func (m *MockSink) Close() error {
	return nil
}
