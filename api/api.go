package api

import (
	"errors"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/api/mcp"
	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/profile"
)

// Server is the API server for the caller memory webhooks.
type Server struct {
	config   Config
	driver   memory.Driver
	builder  *profile.Builder
	searcher *apisearch.Searcher
	logger   *zap.Logger
	app      *fiber.App
	now      func() time.Time
}

// NewServer creates a new API server.
// The driver is injected so it can be shared with the worker pool's writer.
func NewServer(config Config, driver memory.Driver, logger *zap.Logger) (*Server, error) {
	if config.HMACKey == "" {
		return nil, errors.New("elevenlabs hmac key is required")
	}
	if config.Jobs == nil {
		return nil, errors.New("job queue is required")
	}
	if driver == nil {
		return nil, errors.New("memory driver is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
	})

	s := &Server{
		config:   config,
		driver:   driver,
		builder:  profile.NewBuilder(driver, logger),
		searcher: apisearch.NewSearcher(driver, config.SearchLimit, logger),
		logger:   logger,
		app:      app,
		now:      time.Now,
	}

	app.Get("/ping", s.handlePing)

	for _, path := range []string{"/post-call", "/webhooks/post-call"} {
		app.Post(path, s.handlePostCall)
	}
	for _, path := range []string{"/client-data", "/webhooks/client-data"} {
		app.Post(path, s.handleClientData)
		app.Options(path, s.handleClientDataPreflight)
	}

	app.Post("/retrieve", s.handleRetrieve)
	app.Get("/v1/callers/:caller_id/memories", s.handleCallerMemories)

	if config.MCPEnabled {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Searcher: s.searcher,
			Builder:  s.builder,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
		zap.Bool("mcp", s.config.MCPEnabled),
		zap.Bool("workspace_key", s.config.WorkspaceKey != ""),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
