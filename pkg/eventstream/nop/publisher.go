// Package nop provides the publisher used when no event stream is configured.
package nop

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/eventstream"
)

// Publisher drops call events after logging them at debug level.
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher returns a discarding publisher. A nil logger is allowed.
func NewPublisher(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) PublishCall(_ context.Context, event *eventstream.CallPersistedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	p.logger.Debug("event stream disabled, call event discarded",
		zap.String("event_id", event.EventID),
		zap.String("conversation_id", event.ConversationID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
