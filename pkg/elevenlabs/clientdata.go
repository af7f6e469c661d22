package elevenlabs

import "strings"

// ClientDataType is the fixed type tag of a call-start response.
const ClientDataType = "conversation_initiation_client_data"

// ClientDataRequest is the body the platform posts when an inbound call starts.
type ClientDataRequest struct {
	CallerID       string `json:"caller_id,omitempty"`
	SystemCallerID string `json:"system__caller_id,omitempty"`
	AgentID        string `json:"agent_id,omitempty"`
	CalledNumber   string `json:"called_number,omitempty"`
	CallSid        string `json:"call_sid,omitempty"`
}

// ResolveCallerID returns caller_id, falling back to system__caller_id.
func (r *ClientDataRequest) ResolveCallerID() string {
	if v := strings.TrimSpace(r.CallerID); v != "" {
		return v
	}
	return strings.TrimSpace(r.SystemCallerID)
}

// DynamicVariables are exposed to the agent as {{name}} template variables.
// The platform only accepts string values.
type DynamicVariables struct {
	CallerID        string `json:"caller_id"`
	MemoryCount     string `json:"memory_count"`
	MemorySummary   string `json:"memory_summary"`
	ReturningCaller string `json:"returning_caller"`
	CallerName      string `json:"caller_name,omitempty"`
}

type PromptOverride struct {
	Prompt string `json:"prompt"`
}

type AgentOverride struct {
	Prompt       PromptOverride `json:"prompt"`
	FirstMessage string         `json:"first_message"`
}

type ConversationConfigOverride struct {
	Agent AgentOverride `json:"agent"`
}

// ClientDataResponse personalizes the conversation about to start.
type ClientDataResponse struct {
	Type                       string                     `json:"type"`
	DynamicVariables           DynamicVariables           `json:"dynamic_variables"`
	ConversationConfigOverride ConversationConfigOverride `json:"conversation_config_override"`
}

// NewClientDataResponse assembles a response with the given greeting and
// prompt.
func NewClientDataResponse(vars DynamicVariables, firstMessage, prompt string) *ClientDataResponse {
	return &ClientDataResponse{
		Type:             ClientDataType,
		DynamicVariables: vars,
		ConversationConfigOverride: ConversationConfigOverride{
			Agent: AgentOverride{
				Prompt:       PromptOverride{Prompt: prompt},
				FirstMessage: firstMessage,
			},
		},
	}
}
