// Package qdrant provides a memory.Driver on the Qdrant vector database.
//
// Each document becomes one point whose vector is the embedding of the
// document text. Points carry the owner id, text and metadata as payload and
// every read is filtered on owner_id.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/embeddings"
	"github.com/papercomputeco/callmem/pkg/memory"
)

const (
	// DefaultCollectionName is the default collection for caller memories.
	DefaultCollectionName = "callmem"

	// DefaultPort is Qdrant's gRPC port.
	DefaultPort = 6334

	// maxScroll bounds GetAll to one page.
	maxScroll uint32 = 1000

	payloadOwner     = "owner_id"
	payloadText      = "text"
	payloadCreatedAt = "created_at"
)

// Config holds configuration for the Qdrant driver.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// CollectionName defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the embedding size used when creating the collection.
	Dimensions uint

	// Embedder embeds document text and search queries.
	Embedder embeddings.Embedder
}

// Driver implements memory.Driver using Qdrant.
type Driver struct {
	client     *qdrant.Client
	collection string
	embedder   embeddings.Embedder
	logger     *zap.Logger
}

// NewDriver connects to Qdrant and creates the collection when missing.
func NewDriver(ctx context.Context, c Config, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.Host == "" {
		return nil, errors.New("qdrant host is required")
	}
	if c.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if c.Dimensions == 0 {
		return nil, errors.New("embedding dimensions are required")
	}

	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	collection := c.CollectionName
	if collection == "" {
		collection = DefaultCollectionName
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   c.Host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	d := &Driver{
		client:     client,
		collection: collection,
		embedder:   c.Embedder,
		logger:     logger,
	}

	if err := d.ensureCollection(ctx, uint64(c.Dimensions)); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("connected to Qdrant",
		zap.String("host", c.Host),
		zap.Int("port", port),
		zap.String("collection", collection),
	)

	return d, nil
}

func (d *Driver) ensureCollection(ctx context.Context, dims uint64) error {
	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", d.collection, err)
	}
	if exists {
		return nil
	}

	err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: d.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dims,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", d.collection, err)
	}

	_, err = d.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: d.collection,
		FieldName:      payloadOwner,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("indexing %s: %w", payloadOwner, err)
	}

	return nil
}

// Add embeds the document text and upserts it as one point.
func (d *Driver) Add(ctx context.Context, doc *memory.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	id := doc.ID
	if id == "" {
		id = memory.DocumentID(doc.OwnerID, doc.ConversationID, doc.Kind)
	}

	text := doc.Text()
	vec, err := d.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding document: %w", err)
	}

	wait := true
	_, err = d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: d.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(id),
				Vectors: qdrant.NewVectors(vec...),
				Payload: qdrant.NewValueMap(payloadFor(doc, text)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}

	d.logger.Debug("stored memory point",
		zap.String("id", id),
		zap.String("owner_id", doc.OwnerID),
		zap.Int("embedding_dim", len(vec)),
	)

	return nil
}

// GetAll scrolls the owner's points and returns them oldest first.
func (d *Driver) GetAll(ctx context.Context, ownerID string) ([]memory.Memory, error) {
	points, err := d.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: d.collection,
		Filter:         ownerFilter(ownerID),
		Limit:          qdrant.PtrOf(maxScroll),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points: %w", err)
	}

	out := make([]memory.Memory, 0, len(points))
	for _, p := range points {
		out = append(out, memoryFromPayload(p.GetId().GetUuid(), p.GetPayload(), 0))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// Search embeds the query and returns the nearest points of the owner.
func (d *Driver) Search(ctx context.Context, query, ownerID string, limit int) ([]memory.Memory, error) {
	if limit <= 0 {
		return nil, nil
	}

	vec, err := d.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(vec...),
		Filter:         ownerFilter(ownerID),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	out := make([]memory.Memory, 0, len(points))
	for _, p := range points {
		out = append(out, memoryFromPayload(p.GetId().GetUuid(), p.GetPayload(), float64(p.GetScore())))
	}

	return out, nil
}

// Close closes the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

func ownerFilter(ownerID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(payloadOwner, ownerID),
		},
	}
}

var _ memory.Driver = (*Driver)(nil)

// payloadFor flattens a document into payload values qdrant accepts.
func payloadFor(doc *memory.Document, text string) map[string]any {
	return map[string]any{
		payloadOwner:              doc.OwnerID,
		payloadText:               text,
		payloadCreatedAt:          doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		memory.MetaType:           string(doc.Kind),
		memory.MetaAgentID:        doc.AgentID,
		memory.MetaConversationID: doc.ConversationID,
		memory.MetaCallDuration:   int64(doc.DurationSeconds),
		memory.MetaTimestamp:      doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func memoryFromPayload(id string, payload map[string]*qdrant.Value, score float64) memory.Memory {
	m := memory.Memory{
		ID:       id,
		OwnerID:  payload[payloadOwner].GetStringValue(),
		Text:     payload[payloadText].GetStringValue(),
		Metadata: make(map[string]any),
		Score:    score,
	}

	if t, err := time.Parse(time.RFC3339Nano, payload[payloadCreatedAt].GetStringValue()); err == nil {
		m.CreatedAt = t
	}

	for key, v := range payload {
		switch key {
		case payloadOwner, payloadText, payloadCreatedAt:
			continue
		}
		m.Metadata[key] = valueToAny(v)
	}

	return m
}

func valueToAny(v *qdrant.Value) any {
	switch k := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return k.StringValue
	case *qdrant.Value_IntegerValue:
		return k.IntegerValue
	case *qdrant.Value_DoubleValue:
		return k.DoubleValue
	case *qdrant.Value_BoolValue:
		return k.BoolValue
	default:
		return nil
	}
}
