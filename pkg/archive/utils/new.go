// Package archiveutils builds an archive.Sink from configuration.
package archiveutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/archive"
	"github.com/papercomputeco/callmem/pkg/archive/gcs"
	"github.com/papercomputeco/callmem/pkg/archive/inmemory"
	"github.com/papercomputeco/callmem/pkg/archive/nop"
	"github.com/papercomputeco/callmem/pkg/archive/s3"
)

type NewSinkOpts struct {
	ProviderType string
	Bucket       string
	Region       string
	Endpoint     string
	Prefix       string
	Logger       *zap.Logger
}

func NewSink(ctx context.Context, o *NewSinkOpts) (archive.Sink, error) {
	switch o.ProviderType {
	case "", "none", "nop":
		return nop.NewSink(), nil
	case "inmemory":
		return inmemory.NewSink(), nil
	case "s3":
		return s3.NewSink(ctx, s3.Config{
			Bucket:   o.Bucket,
			Region:   o.Region,
			Endpoint: o.Endpoint,
			Prefix:   o.Prefix,
		}, o.Logger)
	case "gcs":
		return gcs.NewSink(ctx, gcs.Config{
			Bucket: o.Bucket,
			Prefix: o.Prefix,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported archive provider: %s", o.ProviderType)
	}
}
