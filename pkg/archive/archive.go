// Package archive provides best-effort archival of raw webhook payloads and
// call recordings to a blob store.
//
// Sinks are pluggable via configuration:
//
//	[archive]
//	provider = "s3"   # or "gcs", "inmemory", "none"
package archive

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeMP3  = "audio/mpeg"
)

// ErrMissingKey is returned when an object has no key.
var ErrMissingKey = errors.New("archive object has no key")

// Object is one blob written to a sink.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// Sink writes objects to a blob store.
type Sink interface {
	// Put writes the object, replacing any object under the same key.
	Put(ctx context.Context, obj *Object) error

	// Close releases sink resources.
	Close() error
}

// PostCallJSONKey is the key of a raw post-call transcription payload.
func PostCallJSONKey(callerID, conversationID string) string {
	return "post-call/" + callerID + "/" + conversationID + ".json"
}

// PostCallAudioKey is the key of audio carried inside a transcription payload.
func PostCallAudioKey(callerID, conversationID string) string {
	return "post-call/" + callerID + "/" + conversationID + ".mp3"
}

// AudioOnlyKey is the key of an audio-only webhook's recording.
func AudioOnlyKey(agentID, conversationID string) string {
	return "post-call/audio-only/" + agentID + "/" + conversationID + ".mp3"
}

// ClientDataKeys returns the request and response keys of one call-start
// exchange. An empty callSid is replaced with a random UUID.
func ClientDataKeys(callerID, callSid string) (received, response string) {
	if callSid == "" {
		callSid = uuid.NewString()
	}
	prefix := "client-data/" + strings.ReplaceAll(callerID, "+", "") + "/" + callSid + "/"
	return prefix + "received.json", prefix + "response.json"
}

// WithPrefix joins an optional key prefix onto key.
func WithPrefix(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
