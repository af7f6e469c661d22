package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var (
	profileToolName    = "caller_profile"
	profileDescription = "Build the profile of a phone caller from stored memories: whether they called before, their name, account status, preferences and the greeting the agent would open with."
)

// ProfileInput represents the input arguments for the caller_profile tool.
type ProfileInput struct {
	CallerID string `json:"caller_id" jsonschema:"the caller phone number in E.164 form"`
}

// ProfileOutput is the structured caller profile.
type ProfileOutput struct {
	CallerID        string   `json:"caller_id"`
	ReturningCaller bool     `json:"returning_caller"`
	Name            string   `json:"name,omitempty"`
	AccountStatus   string   `json:"account_status,omitempty"`
	LastInteraction string   `json:"last_interaction,omitempty"`
	Preferences     []string `json:"preferences"`
	MemoryCount     int      `json:"memory_count"`
	Summary         string   `json:"summary"`
	Greeting        string   `json:"greeting"`
}

func (s *Server) handleProfile(ctx context.Context, _ *mcp.CallToolRequest, input ProfileInput) (*mcp.CallToolResult, ProfileOutput, error) {
	callerID := strings.TrimSpace(input.CallerID)
	if callerID == "" {
		return toolError("caller_id is required"), ProfileOutput{}, nil
	}

	p, err := s.config.Builder.Build(ctx, callerID)
	if err != nil {
		s.config.Logger.Error("MCP profile failed",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
		return toolError("Profile lookup failed: %v", err), ProfileOutput{}, nil
	}

	prefs := p.Preferences
	if prefs == nil {
		prefs = []string{}
	}

	output := ProfileOutput{
		CallerID:        p.CallerID,
		ReturningCaller: p.IsReturning,
		Name:            p.Name,
		AccountStatus:   p.AccountStatus,
		LastInteraction: p.LastInteraction,
		Preferences:     prefs,
		MemoryCount:     p.MemoryCount,
		Summary:         p.Summary(),
		Greeting:        p.Greeting(),
	}

	result, err := toolResult(output)
	if err != nil {
		return toolError("Failed to serialize profile: %v", err), ProfileOutput{}, nil
	}
	return result, output, nil
}
