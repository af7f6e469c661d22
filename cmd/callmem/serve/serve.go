// Package servecmder provides the serve command that runs the webhook server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/api"
	"github.com/papercomputeco/callmem/api/worker"
	"github.com/papercomputeco/callmem/cmd/callmem/sqlitepath"
	archiveutils "github.com/papercomputeco/callmem/pkg/archive/utils"
	"github.com/papercomputeco/callmem/pkg/config"
	"github.com/papercomputeco/callmem/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/callmem/pkg/embeddings/utils"
	eventstreamutils "github.com/papercomputeco/callmem/pkg/eventstream/utils"
	"github.com/papercomputeco/callmem/pkg/logger"
	memoryutils "github.com/papercomputeco/callmem/pkg/memory/utils"
	"github.com/papercomputeco/callmem/pkg/memory/writer"
	"github.com/papercomputeco/callmem/pkg/utils"
)

// settings is the resolved configuration of one serve run.
type settings struct {
	listen       string
	mcp          bool
	hmacKey      string
	workspaceKey string

	memoryProvider string
	searchLimit    int
	writeTimeout   time.Duration
	sqlitePath     string
	postgresDSN    string

	mem0BaseURL   string
	mem0APIKey    string
	mem0OrgID     string
	mem0ProjectID string
	mem0Timeout   time.Duration

	qdrantHost       string
	qdrantPort       int
	qdrantAPIKey     string
	qdrantUseTLS     bool
	qdrantCollection string

	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint

	archiveProvider string
	archiveBucket   string
	archiveRegion   string
	archiveEndpoint string
	archivePrefix   string
	archiveTimeout  time.Duration

	eventProvider string
	eventBrokers  []string
	eventTopic    string

	workers   uint
	queueSize uint
}

type serveCommander struct {
	flags    config.FlagSet
	viper    *viper.Viper
	debug    bool
	jsonLogs bool
	logger   *zap.Logger

	// Flag targets. Values are read back through viper so the
	// flag > env > file > default chain applies.
	listen, memoryProvider, sqlitePath, postgresDSN string
	archiveProvider, archiveBucket                  string
	eventProvider, eventBrokers                     string
	embeddingTarget, embeddingModel                 string
	embeddingDims, workers                          uint
}

const serveLongDesc string = `Run the callmem webhook server.

Endpoints:
  POST /post-call       ElevenLabs post-call webhook (HMAC verified)
  POST /client-data     ElevenLabs conversation initiation webhook
  POST /retrieve        Search a caller's memories
  GET  /v1/callers/:id/memories
  /mcp                  MCP tools over the memory store (when api.mcp is true)

Settings come from flags, CALLMEM_* environment variables (the legacy
ELEVENLABS_HMAC_KEY, MEM0_API_KEY, S3_BUCKET_NAME, ... names are also read),
the .callmem/config.toml file and built-in defaults, in that order.`

const serveShortDesc string = "Run the callmem webhook server"

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagMemoryProvider,
	config.FlagSQLite,
	config.FlagPostgresDSN,
	config.FlagArchiveProvider,
	config.FlagArchiveBucket,
	config.FlagEventProvider,
	config.FlagEventBrokers,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagWorkers,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{flags: config.ServeFlags}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, cmder.flags, serveFlagKeys)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			s, err := resolveSettings(cmder.viper)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), s)
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagMemoryProvider, &cmder.memoryProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagPostgresDSN, &cmder.postgresDSN)
	config.AddStringFlag(cmd, cmder.flags, config.FlagArchiveProvider, &cmder.archiveProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagArchiveBucket, &cmder.archiveBucket)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEventProvider, &cmder.eventProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEventBrokers, &cmder.eventBrokers)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, cmder.flags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddUintFlag(cmd, cmder.flags, config.FlagWorkers, &cmder.workers)
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Emit logs as JSON lines")

	return cmd
}

// resolveSettings reads every serve setting out of v and validates it.
func resolveSettings(v *viper.Viper) (*settings, error) {
	s := &settings{
		listen:       v.GetString("api.listen"),
		mcp:          v.GetBool("api.mcp"),
		hmacKey:      v.GetString("elevenlabs.hmac_key"),
		workspaceKey: v.GetString("elevenlabs.workspace_key"),

		memoryProvider: v.GetString("memory.provider"),
		searchLimit:    v.GetInt("memory.search_limit"),
		sqlitePath:     v.GetString("memory.sqlite_path"),
		postgresDSN:    v.GetString("memory.postgres_dsn"),

		mem0BaseURL:   v.GetString("mem0.base_url"),
		mem0APIKey:    v.GetString("mem0.api_key"),
		mem0OrgID:     v.GetString("mem0.org_id"),
		mem0ProjectID: v.GetString("mem0.project_id"),

		qdrantHost:       v.GetString("qdrant.host"),
		qdrantPort:       v.GetInt("qdrant.port"),
		qdrantAPIKey:     v.GetString("qdrant.api_key"),
		qdrantUseTLS:     v.GetBool("qdrant.use_tls"),
		qdrantCollection: v.GetString("qdrant.collection"),

		embeddingProvider:   v.GetString("embedding.provider"),
		embeddingTarget:     v.GetString("embedding.target"),
		embeddingModel:      v.GetString("embedding.model"),
		embeddingDimensions: v.GetUint("embedding.dimensions"),

		archiveProvider: v.GetString("archive.provider"),
		archiveBucket:   v.GetString("archive.bucket"),
		archiveRegion:   v.GetString("archive.region"),
		archiveEndpoint: v.GetString("archive.endpoint"),
		archivePrefix:   v.GetString("archive.prefix"),

		eventProvider: v.GetString("eventstream.provider"),
		eventBrokers:  config.SplitList(v.GetString("eventstream.brokers")),
		eventTopic:    v.GetString("eventstream.topic"),

		workers:   v.GetUint("worker.count"),
		queueSize: v.GetUint("worker.queue_size"),
	}

	var err error
	if s.writeTimeout, err = config.Duration(v, "memory.write_timeout"); err != nil {
		return nil, err
	}
	if s.mem0Timeout, err = config.Duration(v, "mem0.timeout"); err != nil {
		return nil, err
	}
	if s.archiveTimeout, err = config.Duration(v, "archive.timeout"); err != nil {
		return nil, err
	}

	if s.memoryProvider == "sqlite" {
		s.sqlitePath = sqlitepath.ResolveSQLitePath(s.sqlitePath)
	}

	if s.hmacKey == "" {
		return nil, errors.New("elevenlabs.hmac_key is required (set CALLMEM_ELEVENLABS_HMAC_KEY or ELEVENLABS_HMAC_KEY)")
	}

	return s, nil
}

func (c *serveCommander) run(ctx context.Context, s *settings) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if c.jsonLogs {
		c.logger = logger.NewJSONLogger(c.debug)
	} else {
		c.logger = logger.NewLogger(c.debug)
	}
	defer func() { _ = c.logger.Sync() }()

	var embedder embeddings.Embedder
	if s.memoryProvider == "qdrant" {
		var err error
		embedder, err = embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
			ProviderType: s.embeddingProvider,
			TargetURL:    s.embeddingTarget,
			Model:        s.embeddingModel,
			Dimensions:   s.embeddingDimensions,
		})
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		defer embedder.Close()

		c.logger.Info("embeddings enabled",
			zap.String("embedding_provider", s.embeddingProvider),
			zap.String("embedding_target", s.embeddingTarget),
			zap.String("embedding_model", s.embeddingModel),
		)
	}

	driver, err := memoryutils.NewDriver(ctx, &memoryutils.NewDriverOpts{
		ProviderType:     s.memoryProvider,
		Mem0BaseURL:      s.mem0BaseURL,
		Mem0APIKey:       s.mem0APIKey,
		Mem0OrgID:        s.mem0OrgID,
		Mem0ProjectID:    s.mem0ProjectID,
		Mem0Timeout:      s.mem0Timeout,
		PostgresDSN:      s.postgresDSN,
		SQLitePath:       s.sqlitePath,
		QdrantHost:       s.qdrantHost,
		QdrantPort:       s.qdrantPort,
		QdrantAPIKey:     s.qdrantAPIKey,
		QdrantUseTLS:     s.qdrantUseTLS,
		QdrantCollection: s.qdrantCollection,
		Dimensions:       s.embeddingDimensions,
		Embedder:         embedder,
		Logger:           c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating memory driver: %w", err)
	}
	defer driver.Close()

	sink, err := archiveutils.NewSink(ctx, &archiveutils.NewSinkOpts{
		ProviderType: s.archiveProvider,
		Bucket:       s.archiveBucket,
		Region:       s.archiveRegion,
		Endpoint:     s.archiveEndpoint,
		Prefix:       s.archivePrefix,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating archive sink: %w", err)
	}
	defer sink.Close()

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: s.eventProvider,
		Brokers:      s.eventBrokers,
		Topic:        s.eventTopic,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Writer: writer.New(writer.Config{
			Driver:  driver,
			Timeout: s.writeTimeout,
			Logger:  c.logger,
		}),
		Sink:           sink,
		Publisher:      publisher,
		ArchiveTimeout: s.archiveTimeout,
		NumWorkers:     s.workers,
		QueueSize:      s.queueSize,
		Logger:         c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:   s.listen,
		HMACKey:      s.hmacKey,
		WorkspaceKey: s.workspaceKey,
		SearchLimit:  s.searchLimit,
		MCPEnabled:   s.mcp,
		Jobs:         pool,
	}, driver, c.logger)
	if err != nil {
		pool.Close()
		return fmt.Errorf("creating api server: %w", err)
	}

	c.logger.Info("callmem configured",
		zap.String("build", utils.BuildInfo()),
		zap.String("memory_provider", s.memoryProvider),
		zap.String("archive_provider", s.archiveProvider),
		zap.String("eventstream_provider", s.eventProvider),
		zap.Uint("workers", s.workers),
		zap.Int("search_limit", s.searchLimit),
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case runErr = <-errChan:
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	if err := server.Shutdown(); err != nil {
		c.logger.Warn("api server shutdown failed", zap.Error(err))
	}

	// Drain queued post-call work before the stores close.
	pool.Close()
	c.logger.Info("worker pool drained")

	return runErr
}
