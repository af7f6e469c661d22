// Package local provides an in-memory implementation of the memory.Driver interface.
//
// Memories are kept per owner in insertion order and replaced in place when a
// document with the same ID is added again. Search ranks lexically. This is
// the local-dev story; production deployments use a hosted or database store.
package local

import (
	"context"
	"sync"

	"github.com/papercomputeco/callmem/pkg/memory"
)

// Config holds configuration for the local memory driver.
type Config struct {
	// Enabled controls whether the driver stores and recalls memories.
	// When false, Add is a no-op and reads return nil.
	Enabled bool
}

// Driver implements memory.Driver using in-process data structures.
type Driver struct {
	config Config

	mu sync.RWMutex

	// memories maps owner id -> memories in insertion order.
	memories map[string][]memory.Memory
}

// NewDriver creates a local in-memory memory driver.
func NewDriver(config Config) *Driver {
	return &Driver{
		config:   config,
		memories: make(map[string][]memory.Memory),
	}
}

// Add stores the document as a single memory for its owner.
func (d *Driver) Add(_ context.Context, doc *memory.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if !d.config.Enabled {
		return nil
	}

	m := memory.NewMemory(doc)

	d.mu.Lock()
	defer d.mu.Unlock()

	owned := d.memories[doc.OwnerID]
	for i := range owned {
		if owned[i].ID != "" && owned[i].ID == m.ID {
			owned[i] = m
			return nil
		}
	}
	d.memories[doc.OwnerID] = append(owned, m)

	return nil
}

// GetAll returns a copy of every memory of the owner.
func (d *Driver) GetAll(_ context.Context, ownerID string) ([]memory.Memory, error) {
	if !d.config.Enabled {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	owned, ok := d.memories[ownerID]
	if !ok {
		return nil, nil
	}

	// Return a copy to avoid callers mutating internal state.
	result := make([]memory.Memory, len(owned))
	copy(result, owned)

	return result, nil
}

// Search ranks the owner's memories lexically against query.
func (d *Driver) Search(ctx context.Context, query, ownerID string, limit int) ([]memory.Memory, error) {
	all, err := d.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return memory.RankLexical(query, all, limit), nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ memory.Driver = (*Driver)(nil)
