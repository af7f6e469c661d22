package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIListen = ":8080"

	defaultMemoryProvider = "local"
	defaultSearchLimit    = 3
	defaultWriteTimeout   = "10s"

	defaultMem0BaseURL = "https://api.mem0.ai"
	defaultMem0Timeout = "5s"

	defaultQdrantPort       = 6334
	defaultQdrantCollection = "callmem"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 768

	defaultArchiveProvider = "none"
	defaultArchiveTimeout  = "10s"

	defaultEventStreamProvider = "none"
	defaultEventStreamTopic    = "callmem.calls"

	defaultWorkerCount     = 3
	defaultWorkerQueueSize = 256
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
			MCP:    true,
		},
		Memory: MemoryConfig{
			Provider:     defaultMemoryProvider,
			SearchLimit:  defaultSearchLimit,
			WriteTimeout: defaultWriteTimeout,
		},
		Mem0: Mem0Config{
			BaseURL: defaultMem0BaseURL,
			Timeout: defaultMem0Timeout,
		},
		Qdrant: QdrantConfig{
			Port:       defaultQdrantPort,
			Collection: defaultQdrantCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Archive: ArchiveConfig{
			Provider: defaultArchiveProvider,
			Timeout:  defaultArchiveTimeout,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		Worker: WorkerConfig{
			Count:     defaultWorkerCount,
			QueueSize: defaultWorkerQueueSize,
		},
	}
}

// ParseDuration reads a duration such as "5s". A bare integer is taken as
// seconds, which is how the legacy MEM0_TIMEOUT variable is written.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	return d, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
