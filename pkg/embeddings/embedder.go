// Package embeddings provides text embedding for vector-backed memory stores.
package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch is returned when a vector does not have the
	// length its collection was created with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder turns memory text and search queries into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
