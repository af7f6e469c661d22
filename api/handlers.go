package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/memory"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CallerMemoriesResponse lists everything stored for a caller.
type CallerMemoriesResponse struct {
	CallerID string          `json:"caller_id"`
	Count    int             `json:"count"`
	Memories []memory.Memory `json:"memories"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleRetrieve handles POST /retrieve with a {query, user_id} body.
func (s *Server) handleRetrieve(c *fiber.Ctx) error {
	var in apisearch.SearchInput
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid JSON body"})
		}
	}

	output, err := s.searcher.Search(c.UserContext(), in)
	switch {
	case errors.Is(err, apisearch.ErrMissingQuery):
		s.logger.Warn("retrieve request without query")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing query"})
	case errors.Is(err, apisearch.ErrMissingUserID):
		s.logger.Warn("retrieve request without user_id")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing user_id"})
	case err != nil:
		s.logger.Error("retrieve failed",
			zap.String("user_id", in.UserID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(output)
}

// handleCallerMemories returns every memory stored for a caller.
func (s *Server) handleCallerMemories(c *fiber.Ctx) error {
	callerID := strings.TrimSpace(c.Params("caller_id"))
	if callerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "caller_id parameter required"})
	}

	memories, err := s.driver.GetAll(c.UserContext(), callerID)
	if err != nil {
		s.logger.Error("failed to list caller memories",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list memories"})
	}

	if memories == nil {
		memories = []memory.Memory{}
	}

	return c.JSON(CallerMemoriesResponse{
		CallerID: callerID,
		Count:    len(memories),
		Memories: memories,
	})
}
