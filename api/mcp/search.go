package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/memory"
)

var (
	searchToolName    = "search_caller_memories"
	searchDescription = "Search the stored memories of a phone caller. Returns the past call summaries and transcripts most relevant to the query, identified by the caller's phone number."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	CallerID string `json:"caller_id" jsonschema:"the caller phone number in E.164 form, e.g. +16129782029"`
	Query    string `json:"query" jsonschema:"the search query text"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of memories to return (defaults to the server setting)"`
}

// MemoryResult is a single memory in tool output.
type MemoryResult struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Text           string  `json:"text"`
	ConversationID string  `json:"conversation_id,omitempty"`
	Score          float64 `json:"score,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// SearchOutput represents the output of the search tool.
type SearchOutput struct {
	CallerID string         `json:"caller_id"`
	Query    string         `json:"query"`
	Memories []MemoryResult `json:"memories"`
	Count    int            `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		zap.String("caller_id", input.CallerID),
		zap.String("query", input.Query),
		zap.Int("limit", input.Limit),
	)

	out, err := s.config.Searcher.Search(ctx, apisearch.SearchInput{
		Query:  input.Query,
		UserID: input.CallerID,
		Limit:  input.Limit,
	})
	if err != nil {
		logger.Error("MCP search failed", zap.Error(err))
		return toolError("Search failed: %v", err), SearchOutput{}, nil
	}

	results := make([]MemoryResult, 0, len(out.Memories))
	for i := range out.Memories {
		results = append(results, buildMemoryResult(&out.Memories[i]))
	}

	output := SearchOutput{
		CallerID: input.CallerID,
		Query:    input.Query,
		Memories: results,
		Count:    len(results),
	}

	result, err := toolResult(output)
	if err != nil {
		logger.Error("failed to marshal search output", zap.Error(err))
		return toolError("Failed to serialize results: %v", err), SearchOutput{}, nil
	}
	return result, output, nil
}

// buildMemoryResult flattens a stored memory. Untyped memories report as
// factual.
func buildMemoryResult(m *memory.Memory) MemoryResult {
	kind := m.Kind()
	if kind == "" {
		kind = memory.KindFactual
	}

	r := MemoryResult{
		ID:    m.ID,
		Type:  string(kind),
		Text:  m.Text,
		Score: m.Score,
	}
	if conv, ok := m.Metadata[memory.MetaConversationID].(string); ok {
		r.ConversationID = conv
	}
	if !m.CreatedAt.IsZero() {
		r.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r
}
