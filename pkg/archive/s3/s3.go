// Package s3 provides an archive sink on Amazon S3 or any S3 compatible
// object store.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/archive"
)

// putObjectAPI is the slice of the S3 client the sink uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds configuration for the S3 sink.
type Config struct {
	Bucket string

	// Region overrides the region resolved from the environment.
	Region string

	// Endpoint targets an S3 compatible store such as MinIO. Path style
	// addressing is used when set.
	Endpoint string

	// Prefix is prepended to every key.
	Prefix string
}

// Sink writes objects to one S3 bucket.
type Sink struct {
	client putObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

// NewSink loads AWS configuration from the environment and creates a sink.
func NewSink(ctx context.Context, c Config, logger *zap.Logger) (*Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(c.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("archiving to S3",
		zap.String("bucket", c.Bucket),
		zap.String("region", awsCfg.Region),
		zap.String("endpoint", c.Endpoint),
	)

	return newSink(client, c, logger), nil
}

func newSink(client putObjectAPI, c Config, logger *zap.Logger) *Sink {
	return &Sink{
		client: client,
		bucket: c.Bucket,
		prefix: c.Prefix,
		logger: logger,
	}
}

// Put uploads obj under the configured prefix.
func (s *Sink) Put(ctx context.Context, obj *archive.Object) error {
	if obj == nil || obj.Key == "" {
		return archive.ErrMissingKey
	}

	key := archive.WithPrefix(s.prefix, obj.Key)
	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     bytes.NewReader(obj.Body),
		Metadata: obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("putting s3://%s/%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("archived object",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(obj.Body)),
	)
	return nil
}

func (s *Sink) Close() error {
	return nil
}
