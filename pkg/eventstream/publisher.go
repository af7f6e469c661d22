// Package eventstream publishes call lifecycle events to a stream backend.
package eventstream

import "context"

// Publisher publishes call events to an event stream backend.
type Publisher interface {
	PublishCall(ctx context.Context, event *CallPersistedEvent) error
	Close() error
}
