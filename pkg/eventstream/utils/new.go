// Package eventstreamutils builds an eventstream.Publisher from
// configuration.
package eventstreamutils

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/eventstream"
	"github.com/papercomputeco/callmem/pkg/eventstream/kafka"
	"github.com/papercomputeco/callmem/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "none", "nop":
		return nop.NewPublisher(o.Logger), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers:      o.Brokers,
			Topic:        o.Topic,
			WriteTimeout: o.WriteTimeout,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", o.ProviderType)
	}
}
