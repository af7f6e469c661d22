package memory

import "errors"

// ErrNotConfigured is returned when memory operations are attempted
// but no memory driver has been configured.
var ErrNotConfigured = errors.New("memory not configured")

var (
	ErrNilDocument   = errors.New("nil memory document")
	ErrMissingOwner  = errors.New("memory document has no owner")
	ErrEmptyDocument = errors.New("memory document has no messages")
)
