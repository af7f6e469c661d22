package api

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/api/worker"
	"github.com/papercomputeco/callmem/pkg/archive"
	"github.com/papercomputeco/callmem/pkg/elevenlabs"
	"github.com/papercomputeco/callmem/pkg/signature"
	"github.com/papercomputeco/callmem/pkg/utils"
)

const (
	workspaceKeyHeader = "X-Workspace-Key"

	missingCallerIDMessage = "Missing caller_id parameter (caller_id or system__caller_id)"
)

// corsHeaders are attached to every call-start reply.
var corsHeaders = map[string]string{
	fiber.HeaderAccessControlAllowOrigin:  "*",
	fiber.HeaderAccessControlAllowHeaders: "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Workspace-Key",
	fiber.HeaderAccessControlAllowMethods: "POST,OPTIONS",
}

// StatusResponse is the fixed post-call acknowledgment.
type StatusResponse struct {
	Status string `json:"status"`
}

var ack = StatusResponse{Status: "ok"}

// handlePostCall acknowledges every delivery with 200. Verified bodies are
// queued for the worker pool; everything else is logged and dropped.
func (s *Server) handlePostCall(c *fiber.Ctx) error {
	// fasthttp reuses the request buffer once the handler returns.
	body := bytes.Clone(c.Body())

	header := c.Get(signature.HeaderName)
	if err := signature.Check(body, header, s.config.HMACKey, s.now()); err != nil {
		s.logger.Warn("rejecting post-call webhook",
			zap.String("remote_ip", c.IP()),
			zap.Int("bytes", len(body)),
			zap.Error(err),
		)
		return c.JSON(ack)
	}

	s.logger.Debug("verified post-call webhook",
		zap.Int("bytes", len(body)),
		zap.String("preview", utils.Truncate(string(body), 120)),
	)

	if !s.config.Jobs.Enqueue(worker.Job{Kind: worker.JobPostCall, Body: body}) {
		s.logger.Error("post-call webhook dropped")
	}

	return c.JSON(ack)
}

func (s *Server) handleClientDataPreflight(c *fiber.Ctx) error {
	setCORS(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// handleClientData personalizes a call that is about to start.
func (s *Server) handleClientData(c *fiber.Ctx) error {
	setCORS(c)

	if key := s.config.WorkspaceKey; key != "" {
		got := c.Get(workspaceKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			s.logger.Warn("invalid workspace key on call-start request",
				zap.String("remote_ip", c.IP()),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Unauthorized"})
		}
	}

	body := bytes.Clone(c.Body())

	var req elevenlabs.ClientDataRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Warn("malformed call-start request", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid JSON body"})
		}
	}

	callerID := req.ResolveCallerID()
	if callerID == "" {
		s.logger.Warn("call-start request without caller id")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: missingCallerIDMessage})
	}

	p, err := s.builder.Build(c.UserContext(), callerID)
	if err != nil {
		s.logger.Error("failed to build caller profile",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	resp := p.Response()

	s.logger.Info("personalized call start",
		zap.String("caller_id", callerID),
		zap.String("call_sid", req.CallSid),
		zap.Int("memory_count", p.MemoryCount),
		zap.Bool("returning", p.IsReturning),
		zap.Bool("named", p.Name != ""),
	)

	s.archiveClientData(callerID, req.CallSid, body, resp)

	return c.Status(fiber.StatusOK).JSON(resp)
}

// archiveClientData queues the request and response of one call start for
// archival. Failures here never affect the reply.
func (s *Server) archiveClientData(callerID, callSid string, received []byte, resp *elevenlabs.ClientDataResponse) {
	respBody, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("could not encode call-start response for archival", zap.Error(err))
		return
	}

	receivedKey, responseKey := archive.ClientDataKeys(callerID, callSid)
	meta := map[string]string{"caller-id": callerID, "call-sid": callSid}

	job := worker.Job{
		Kind: worker.JobArchive,
		Objects: []*archive.Object{
			{Key: receivedKey, Body: received, ContentType: archive.ContentTypeJSON, Metadata: meta},
			{Key: responseKey, Body: respBody, ContentType: archive.ContentTypeJSON, Metadata: meta},
		},
	}
	if !s.config.Jobs.Enqueue(job) {
		s.logger.Warn("call-start archival dropped", zap.String("caller_id", callerID))
	}
}

func setCORS(c *fiber.Ctx) {
	for k, v := range corsHeaders {
		c.Set(k, v)
	}
}
