// Package nop provides an archive sink that discards every object.
package nop

import (
	"context"

	"github.com/papercomputeco/callmem/pkg/archive"
)

// Sink discards objects.
type Sink struct{}

// NewSink creates a no-op sink.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Put(_ context.Context, obj *archive.Object) error {
	if obj == nil || obj.Key == "" {
		return archive.ErrMissingKey
	}
	return nil
}

func (s *Sink) Close() error {
	return nil
}
