// Package inmemory provides an archive sink that keeps objects in process.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/papercomputeco/callmem/pkg/archive"
)

// Sink stores objects in a map keyed by object key.
type Sink struct {
	mu      sync.RWMutex
	objects map[string]*archive.Object
}

// NewSink creates an empty in-memory sink.
func NewSink() *Sink {
	return &Sink{objects: make(map[string]*archive.Object)}
}

// Put stores a copy of obj.
func (s *Sink) Put(_ context.Context, obj *archive.Object) error {
	if obj == nil || obj.Key == "" {
		return archive.ErrMissingKey
	}

	stored := *obj
	stored.Body = append([]byte(nil), obj.Body...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.Key] = &stored
	return nil
}

// Get returns the object under key.
func (s *Sink) Get(key string) (*archive.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Keys returns every stored key in sorted order.
func (s *Sink) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Sink) Close() error {
	return nil
}
