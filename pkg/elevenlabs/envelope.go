// Package elevenlabs models the webhook payloads delivered by the ElevenLabs
// Conversational AI platform and normalizes them into call records.
package elevenlabs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// EnvelopeKind identifies the outer JSON shape a webhook was delivered in.
type EnvelopeKind string

const (
	// KindBare is a payload object delivered without a wrapper.
	KindBare EnvelopeKind = "bare"

	// KindTaggedObject is {"type": ..., "data": {...}}.
	KindTaggedObject EnvelopeKind = "tagged-object"

	// KindTaggedArray is [{"type": ..., "data": {...}}, ...]. Only the first
	// element is considered.
	KindTaggedArray EnvelopeKind = "tagged-array"
)

const (
	EventTypeTranscription = "post_call_transcription"
	EventTypeAudio         = "post_call_audio"
)

var (
	// ErrMalformedPayload is returned when the body matches none of the
	// known envelope shapes or cannot be decoded.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrMissingCallerID is returned when no caller id source is populated.
	ErrMissingCallerID = errors.New("missing caller id")
)

// Envelope is the discriminated outer wrapper of a webhook body.
type Envelope struct {
	Kind      EnvelopeKind
	EventType string
	Data      json.RawMessage
}

// DetectEnvelope classifies raw and unwraps the payload object it carries.
func DetectEnvelope(raw []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: decoding array: %v", ErrMalformedPayload, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: empty array", ErrMalformedPayload)
		}

		fields, err := objectFields(items[0])
		if err != nil {
			return nil, err
		}
		data, ok := fields["data"]
		if !ok {
			return nil, fmt.Errorf("%w: array element has no data", ErrMalformedPayload)
		}

		return newTaggedEnvelope(KindTaggedArray, fields["type"], data)

	case '{':
		fields, err := objectFields(trimmed)
		if err != nil {
			return nil, err
		}

		eventType, hasType := fields["type"]
		data, hasData := fields["data"]
		if hasType && hasData {
			return newTaggedEnvelope(KindTaggedObject, eventType, data)
		}

		return &Envelope{Kind: KindBare, Data: json.RawMessage(trimmed)}, nil

	default:
		return nil, fmt.Errorf("%w: expected a JSON object or array", ErrMalformedPayload)
	}
}

func newTaggedEnvelope(kind EnvelopeKind, rawType, data json.RawMessage) (*Envelope, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: data is not an object", ErrMalformedPayload)
	}

	var eventType string
	if len(rawType) > 0 {
		// A non-string type is treated as untyped.
		_ = json.Unmarshal(rawType, &eventType)
	}

	return &Envelope{Kind: kind, EventType: eventType, Data: data}, nil
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: decoding object: %v", ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: null object", ErrMalformedPayload)
	}
	return fields, nil
}
