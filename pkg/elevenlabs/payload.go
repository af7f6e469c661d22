package elevenlabs

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const unknownID = "unknown"

// CallRecord is the canonical form of a post-call transcription webhook.
type CallRecord struct {
	ConversationID  string            `json:"conversation_id"`
	AgentID         string            `json:"agent_id"`
	CallerID        string            `json:"caller_id"`
	DurationSeconds int               `json:"duration_seconds"`
	Transcript      []Utterance       `json:"transcript"`
	Summary         string            `json:"summary"`
	Evaluation      *EvaluationResult `json:"evaluation,omitempty"`

	// FullAudio is the base64 MP3 some transcription payloads still carry.
	FullAudio string `json:"-"`
}

// AudioRecord is the canonical form of an audio-only webhook.
type AudioRecord struct {
	ConversationID string `json:"conversation_id"`
	AgentID        string `json:"agent_id"`

	// Audio is the base64 encoded MP3 recording.
	Audio string `json:"-"`
}

// Decode returns the raw MP3 bytes.
func (a *AudioRecord) Decode() ([]byte, error) {
	return decodeAudio(a.Audio)
}

// DecodeAudio returns the raw MP3 bytes of the legacy full_audio field, or
// nil when the payload carried none.
func (c *CallRecord) DecodeAudio() ([]byte, error) {
	if c.FullAudio == "" {
		return nil, nil
	}
	return decodeAudio(c.FullAudio)
}

func decodeAudio(encoded string) ([]byte, error) {
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding audio: %w", err)
	}
	return audio, nil
}

// Webhook is a normalized post-call delivery. Exactly one of Call or Audio is
// set.
type Webhook struct {
	Envelope *Envelope
	Call     *CallRecord
	Audio    *AudioRecord
}

// IsAudio reports whether the webhook takes the audio-only path.
func (w *Webhook) IsAudio() bool {
	return w.Audio != nil
}

type rawPayload struct {
	ConversationID text                               `json:"conversation_id"`
	AgentID        text                               `json:"agent_id"`
	CallDuration   number                             `json:"call_duration"`
	ExternalNumber text                               `json:"external_number"`
	Transcript     tolerant[[]tolerant[rawUtterance]] `json:"transcript"`
	Analysis       tolerant[*rawAnalysis]             `json:"analysis"`
	Metadata       tolerant[*rawMetadata]             `json:"metadata"`
	ClientData     tolerant[*rawClientData]           `json:"conversation_initiation_client_data"`
	FullAudio      text                               `json:"full_audio"`
}

type rawUtterance struct {
	Role    text `json:"role"`
	Speaker text `json:"speaker"`
	Message text `json:"message"`
	Content text `json:"content"`
}

type rawAnalysis struct {
	Summary                   text            `json:"summary"`
	TranscriptSummary         text            `json:"transcript_summary"`
	Evaluation                json.RawMessage `json:"evaluation"`
	EvaluationCriteriaResults json.RawMessage `json:"evaluation_criteria_results"`
}

type rawMetadata struct {
	CallDurationSecs number                  `json:"call_duration_secs"`
	CallerID         text                    `json:"caller_id"`
	PhoneCall        tolerant[*rawPhoneCall] `json:"phone_call"`
}

type rawPhoneCall struct {
	ExternalNumber text `json:"external_number"`
}

type rawClientData struct {
	DynamicVariables tolerant[map[string]any] `json:"dynamic_variables"`
}

// accessor reads one candidate value out of a payload, returning "" when the
// location is absent.
type accessor func(p *rawPayload) string

// callerIDSources lists caller id locations from highest to lowest priority.
var callerIDSources = []accessor{
	func(p *rawPayload) string { return string(p.ExternalNumber) },
	func(p *rawPayload) string {
		if p.Metadata.V == nil {
			return ""
		}
		return string(p.Metadata.V.CallerID)
	},
	func(p *rawPayload) string {
		if p.Metadata.V == nil || p.Metadata.V.PhoneCall.V == nil {
			return ""
		}
		return string(p.Metadata.V.PhoneCall.V.ExternalNumber)
	},
	func(p *rawPayload) string {
		if p.ClientData.V == nil {
			return ""
		}
		return anyText(p.ClientData.V.DynamicVariables.V["system__caller_id"])
	},
}

var summarySources = []accessor{
	func(p *rawPayload) string {
		if p.Analysis.V == nil {
			return ""
		}
		return string(p.Analysis.V.Summary)
	},
	func(p *rawPayload) string {
		if p.Analysis.V == nil {
			return ""
		}
		return string(p.Analysis.V.TranscriptSummary)
	},
}

// firstNonEmpty evaluates accessors in order and returns the first value
// that is not blank.
func firstNonEmpty(p *rawPayload, accessors ...accessor) string {
	for _, get := range accessors {
		if v := strings.TrimSpace(get(p)); v != "" {
			return v
		}
	}
	return ""
}

// Normalize decodes a post-call webhook body in any supported envelope shape.
// Only an undecodable envelope or a payload that is not an object yields
// ErrMalformedPayload; optional fields of the wrong type read as empty.
// Transcription payloads without a resolvable caller id yield
// ErrMissingCallerID.
func Normalize(raw []byte) (*Webhook, error) {
	env, err := DetectEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var p rawPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrMalformedPayload, err)
	}

	if env.EventType == EventTypeAudio {
		return &Webhook{
			Envelope: env,
			Audio: &AudioRecord{
				ConversationID: orUnknown(string(p.ConversationID)),
				AgentID:        orUnknown(string(p.AgentID)),
				Audio:          string(p.FullAudio),
			},
		}, nil
	}

	record := &CallRecord{
		ConversationID:  orUnknown(string(p.ConversationID)),
		AgentID:         orUnknown(string(p.AgentID)),
		CallerID:        firstNonEmpty(&p, callerIDSources...),
		DurationSeconds: duration(&p),
		Transcript:      TransformTranscript(p.utterances()),
		Summary:         firstNonEmpty(&p, summarySources...),
		Evaluation:      evaluation(&p),
		FullAudio:       string(p.FullAudio),
	}

	if record.CallerID == "" {
		return nil, fmt.Errorf("%w: conversation %s", ErrMissingCallerID, record.ConversationID)
	}

	return &Webhook{Envelope: env, Call: record}, nil
}

func (p *rawPayload) utterances() []RawUtterance {
	entries := p.Transcript.V
	out := make([]RawUtterance, 0, len(entries))
	for _, e := range entries {
		out = append(out, RawUtterance{
			Role:    string(e.V.Role),
			Speaker: string(e.V.Speaker),
			Message: string(e.V.Message),
			Content: string(e.V.Content),
		})
	}
	return out
}

func duration(p *rawPayload) int {
	if p.Metadata.V != nil && p.Metadata.V.CallDurationSecs.set {
		return int(p.Metadata.V.CallDurationSecs.value)
	}
	if p.CallDuration.set {
		return int(p.CallDuration.value)
	}
	return 0
}

func evaluation(p *rawPayload) *EvaluationResult {
	if p.Analysis.V == nil {
		return nil
	}
	if e := parseEvaluation(p.Analysis.V.Evaluation); e != nil {
		return e
	}
	return parseEvaluation(p.Analysis.V.EvaluationCriteriaResults)
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return unknownID
	}
	return v
}
