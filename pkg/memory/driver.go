// Package memory provides a pluggable caller memory layer.
//
// Memories are partitioned by owner, which is the caller's phone number.
// Each completed call produces up to two documents: a factual document (call
// summary and evaluation) and a semantic document (the role normalized
// transcript). Drivers persist documents and serve them back as memories,
// either in full for an owner or ranked against a query.
//
// Drivers are pluggable via configuration:
//
//	[memory]
//	provider = "local"   # or "mem0", "postgres", "sqlite", "qdrant"
package memory

import "context"

// Driver stores caller documents and recalls memories for an owner.
type Driver interface {
	// Add persists a document. Documents carry a deterministic ID so adding
	// the same document twice does not duplicate it on stores that upsert.
	Add(ctx context.Context, doc *Document) error

	// GetAll returns every memory of the owner, oldest first where the store
	// exposes an order.
	GetAll(ctx context.Context, ownerID string) ([]Memory, error)

	// Search returns at most limit memories of the owner ranked against query.
	Search(ctx context.Context, query, ownerID string, limit int) ([]Memory, error)

	// Close releases driver resources.
	Close() error
}
