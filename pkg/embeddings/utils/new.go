// Package embeddingutils builds the configured embeddings.Embedder.
package embeddingutils

import (
	"fmt"
	"time"

	"github.com/papercomputeco/callmem/pkg/embeddings"
	"github.com/papercomputeco/callmem/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	Dimensions   uint
	Timeout      time.Duration
}

// NewEmbedder returns the embedder named by o.ProviderType.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama", "":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:    o.TargetURL,
			Model:      o.Model,
			Dimensions: o.Dimensions,
			Timeout:    o.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
