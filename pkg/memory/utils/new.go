// Package memoryutils builds a memory.Driver from configuration.
package memoryutils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/embeddings"
	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/memory/local"
	"github.com/papercomputeco/callmem/pkg/memory/mem0"
	"github.com/papercomputeco/callmem/pkg/memory/postgres"
	"github.com/papercomputeco/callmem/pkg/memory/qdrant"
	"github.com/papercomputeco/callmem/pkg/memory/sqlite"
)

type NewDriverOpts struct {
	ProviderType string

	// mem0
	Mem0BaseURL   string
	Mem0APIKey    string
	Mem0OrgID     string
	Mem0ProjectID string
	Mem0Timeout   time.Duration

	// postgres
	PostgresDSN string

	// sqlite
	SQLitePath string

	// qdrant
	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string
	Dimensions       uint
	Embedder         embeddings.Embedder

	Logger *zap.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (memory.Driver, error) {
	switch o.ProviderType {
	case "", "local":
		return local.NewDriver(local.Config{Enabled: true}), nil
	case "mem0":
		return mem0.NewDriver(mem0.Config{
			BaseURL:   o.Mem0BaseURL,
			APIKey:    o.Mem0APIKey,
			OrgID:     o.Mem0OrgID,
			ProjectID: o.Mem0ProjectID,
			Timeout:   o.Mem0Timeout,
		}, o.Logger)
	case "postgres":
		if o.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres memory provider requires a dsn")
		}
		return postgres.NewDriver(ctx, o.PostgresDSN)
	case "sqlite":
		path := o.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		return sqlite.NewDriver(path)
	case "qdrant":
		return qdrant.NewDriver(ctx, qdrant.Config{
			Host:           o.QdrantHost,
			Port:           o.QdrantPort,
			APIKey:         o.QdrantAPIKey,
			UseTLS:         o.QdrantUseTLS,
			CollectionName: o.QdrantCollection,
			Dimensions:     o.Dimensions,
			Embedder:       o.Embedder,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported memory provider: %s", o.ProviderType)
	}
}
