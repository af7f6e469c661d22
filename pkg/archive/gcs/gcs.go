// Package gcs provides an archive sink on Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/archive"
)

// Config holds configuration for the GCS sink.
type Config struct {
	Bucket string
	Prefix string
}

// Sink writes objects to one GCS bucket.
type Sink struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewSink creates a sink using application default credentials.
func NewSink(ctx context.Context, c Config, logger *zap.Logger) (*Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	logger.Info("archiving to GCS", zap.String("bucket", c.Bucket))

	return &Sink{
		client: client,
		bucket: c.Bucket,
		prefix: c.Prefix,
		logger: logger,
	}, nil
}

// Put streams obj into the bucket.
func (s *Sink) Put(ctx context.Context, obj *archive.Object) error {
	if obj == nil || obj.Key == "" {
		return archive.ErrMissingKey
	}

	key := archive.WithPrefix(s.prefix, obj.Key)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = obj.ContentType
	w.Metadata = obj.Metadata

	if _, err := w.Write(obj.Body); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing gs://%s/%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("archived object",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(obj.Body)),
	)
	return nil
}

func (s *Sink) Close() error {
	return s.client.Close()
}
