// Package search provides shared retrieval over caller memories. It is used
// by both the REST retrieve endpoint and the MCP server tool.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/utils"
)

// DefaultLimit is the number of memories returned when no limit is set.
const DefaultLimit = 3

var (
	ErrMissingQuery  = errors.New("missing query")
	ErrMissingUserID = errors.New("missing user_id")
)

// SearchInput represents the input arguments for a search request.
type SearchInput struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

// Validate reports the first missing required field.
func (in *SearchInput) Validate() error {
	if strings.TrimSpace(in.Query) == "" {
		return ErrMissingQuery
	}
	if strings.TrimSpace(in.UserID) == "" {
		return ErrMissingUserID
	}
	return nil
}

// SearchOutput represents the output of a search operation.
type SearchOutput struct {
	Memories []memory.Memory `json:"memories"`
}

// Searcher ranks a caller's memories against free text.
type Searcher struct {
	driver memory.Driver
	limit  int
	logger *zap.Logger
}

// NewSearcher creates a Searcher. A non-positive limit falls back to
// DefaultLimit.
func NewSearcher(driver memory.Driver, limit int, logger *zap.Logger) *Searcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{driver: driver, limit: limit, logger: logger}
}

// Limit is the configured result cap.
func (s *Searcher) Limit() int {
	return s.limit
}

// Search returns the memories of in.UserID most relevant to in.Query. The
// input limit, when set, overrides the configured one.
func (s *Searcher) Search(ctx context.Context, in SearchInput) (*SearchOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = s.limit
	}

	s.logger.Info("searching memories",
		zap.String("user_id", in.UserID),
		zap.String("query", utils.Truncate(in.Query, 80)),
		zap.Int("limit", limit),
	)

	memories, err := s.driver.Search(ctx, in.Query, in.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}

	if memories == nil {
		memories = []memory.Memory{}
	}

	s.logger.Debug("search complete",
		zap.String("user_id", in.UserID),
		zap.Int("count", len(memories)),
	)

	return &SearchOutput{Memories: memories}, nil
}
