package elevenlabs

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	roleAgent = "agent"
)

// RawUtterance is a transcript entry as delivered by the platform. Older
// payloads used "speaker" and "content" where newer ones use "role" and
// "message".
type RawUtterance struct {
	Role    string `json:"role,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Message string `json:"message,omitempty"`
	Content string `json:"content,omitempty"`
}

// Utterance is one canonical transcript message.
type Utterance struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TransformTranscript maps raw entries onto canonical utterances. The agent
// role becomes assistant and entries without text are dropped. Order is kept.
func TransformTranscript(raw []RawUtterance) []Utterance {
	out := make([]Utterance, 0, len(raw))

	for _, entry := range raw {
		content := entry.Message
		if strings.TrimSpace(content) == "" {
			content = entry.Content
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		role := entry.Role
		if role == "" {
			role = entry.Speaker
		}
		if role == roleAgent {
			role = RoleAssistant
		}

		out = append(out, Utterance{Role: role, Content: content})
	}

	return out
}
