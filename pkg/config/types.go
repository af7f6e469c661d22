package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent callmem configuration stored as
// config.toml in the .callmem/ directory. The TOML layout uses sections for
// logical grouping. Durations are strings such as "5s"; a bare integer is
// read as seconds.
type Config struct {
	Version     int               `toml:"version"`
	API         APIConfig         `toml:"api"`
	ElevenLabs  ElevenLabsConfig  `toml:"elevenlabs"`
	Memory      MemoryConfig      `toml:"memory"`
	Mem0        Mem0Config        `toml:"mem0"`
	Qdrant      QdrantConfig      `toml:"qdrant"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Archive     ArchiveConfig     `toml:"archive"`
	EventStream EventStreamConfig `toml:"eventstream"`
	Worker      WorkerConfig      `toml:"worker"`
}

// APIConfig holds webhook server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
	MCP    bool   `toml:"mcp"`
}

// ElevenLabsConfig holds the shared secrets of the voice platform.
type ElevenLabsConfig struct {
	HMACKey      string `toml:"hmac_key,omitempty"`
	WorkspaceKey string `toml:"workspace_key,omitempty"`
}

// MemoryConfig holds memory layer settings.
type MemoryConfig struct {
	Provider     string `toml:"provider,omitempty"`
	SearchLimit  int    `toml:"search_limit,omitempty"`
	WriteTimeout string `toml:"write_timeout,omitempty"`
	SQLitePath   string `toml:"sqlite_path,omitempty"`
	PostgresDSN  string `toml:"postgres_dsn,omitempty"`
}

// Mem0Config holds Mem0 platform settings.
type Mem0Config struct {
	BaseURL   string `toml:"base_url,omitempty"`
	APIKey    string `toml:"api_key,omitempty"`
	OrgID     string `toml:"org_id,omitempty"`
	ProjectID string `toml:"project_id,omitempty"`
	Timeout   string `toml:"timeout,omitempty"`
}

// QdrantConfig holds Qdrant vector store settings.
type QdrantConfig struct {
	Host       string `toml:"host,omitempty"`
	Port       int    `toml:"port,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	UseTLS     bool   `toml:"use_tls,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// ArchiveConfig holds blob archival settings.
type ArchiveConfig struct {
	Provider string `toml:"provider,omitempty"`
	Bucket   string `toml:"bucket,omitempty"`
	Region   string `toml:"region,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Prefix   string `toml:"prefix,omitempty"`
	Timeout  string `toml:"timeout,omitempty"`
}

// EventStreamConfig holds event publication settings. Brokers is a comma
// separated list.
type EventStreamConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// WorkerConfig holds post-call worker pool settings.
type WorkerConfig struct {
	Count     uint `toml:"count,omitempty"`
	QueueSize uint `toml:"queue_size,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get    func(c *Config) string
	set    func(c *Config, v string) error
	secret bool
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func secretKey(field func(c *Config) *string) configKeyInfo {
	info := stringKey(field)
	info.secret = true
	return info
}

func durationKey(name string, field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			if _, err := ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = v
			return nil
		},
	}
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.Itoa(*field(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = n
			return nil
		},
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

func boolKey(name string, field func(c *Config) *bool) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": stringKey(func(c *Config) *string { return &c.API.Listen }),
	"api.mcp":    boolKey("api.mcp", func(c *Config) *bool { return &c.API.MCP }),

	"elevenlabs.hmac_key":      secretKey(func(c *Config) *string { return &c.ElevenLabs.HMACKey }),
	"elevenlabs.workspace_key": secretKey(func(c *Config) *string { return &c.ElevenLabs.WorkspaceKey }),

	"memory.provider":      stringKey(func(c *Config) *string { return &c.Memory.Provider }),
	"memory.search_limit":  intKey("memory.search_limit", func(c *Config) *int { return &c.Memory.SearchLimit }),
	"memory.write_timeout": durationKey("memory.write_timeout", func(c *Config) *string { return &c.Memory.WriteTimeout }),
	"memory.sqlite_path":   stringKey(func(c *Config) *string { return &c.Memory.SQLitePath }),
	"memory.postgres_dsn":  secretKey(func(c *Config) *string { return &c.Memory.PostgresDSN }),

	"mem0.base_url":   stringKey(func(c *Config) *string { return &c.Mem0.BaseURL }),
	"mem0.api_key":    secretKey(func(c *Config) *string { return &c.Mem0.APIKey }),
	"mem0.org_id":     stringKey(func(c *Config) *string { return &c.Mem0.OrgID }),
	"mem0.project_id": stringKey(func(c *Config) *string { return &c.Mem0.ProjectID }),
	"mem0.timeout":    durationKey("mem0.timeout", func(c *Config) *string { return &c.Mem0.Timeout }),

	"qdrant.host":       stringKey(func(c *Config) *string { return &c.Qdrant.Host }),
	"qdrant.port":       intKey("qdrant.port", func(c *Config) *int { return &c.Qdrant.Port }),
	"qdrant.api_key":    secretKey(func(c *Config) *string { return &c.Qdrant.APIKey }),
	"qdrant.use_tls":    boolKey("qdrant.use_tls", func(c *Config) *bool { return &c.Qdrant.UseTLS }),
	"qdrant.collection": stringKey(func(c *Config) *string { return &c.Qdrant.Collection }),

	"embedding.provider":   stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":     stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":      stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"embedding.dimensions": uintKey("embedding.dimensions", func(c *Config) *uint { return &c.Embedding.Dimensions }),

	"archive.provider": stringKey(func(c *Config) *string { return &c.Archive.Provider }),
	"archive.bucket":   stringKey(func(c *Config) *string { return &c.Archive.Bucket }),
	"archive.region":   stringKey(func(c *Config) *string { return &c.Archive.Region }),
	"archive.endpoint": stringKey(func(c *Config) *string { return &c.Archive.Endpoint }),
	"archive.prefix":   stringKey(func(c *Config) *string { return &c.Archive.Prefix }),
	"archive.timeout":  durationKey("archive.timeout", func(c *Config) *string { return &c.Archive.Timeout }),

	"eventstream.provider": stringKey(func(c *Config) *string { return &c.EventStream.Provider }),
	"eventstream.brokers":  stringKey(func(c *Config) *string { return &c.EventStream.Brokers }),
	"eventstream.topic":    stringKey(func(c *Config) *string { return &c.EventStream.Topic }),

	"worker.count":      uintKey("worker.count", func(c *Config) *uint { return &c.Worker.Count }),
	"worker.queue_size": uintKey("worker.queue_size", func(c *Config) *uint { return &c.Worker.QueueSize }),
}

// orderedKeys lists config keys in TOML section order.
var orderedKeys = []string{
	"api.listen",
	"api.mcp",
	"elevenlabs.hmac_key",
	"elevenlabs.workspace_key",
	"memory.provider",
	"memory.search_limit",
	"memory.write_timeout",
	"memory.sqlite_path",
	"memory.postgres_dsn",
	"mem0.base_url",
	"mem0.api_key",
	"mem0.org_id",
	"mem0.project_id",
	"mem0.timeout",
	"qdrant.host",
	"qdrant.port",
	"qdrant.api_key",
	"qdrant.use_tls",
	"qdrant.collection",
	"embedding.provider",
	"embedding.target",
	"embedding.model",
	"embedding.dimensions",
	"archive.provider",
	"archive.bucket",
	"archive.region",
	"archive.endpoint",
	"archive.prefix",
	"archive.timeout",
	"eventstream.provider",
	"eventstream.brokers",
	"eventstream.topic",
	"worker.count",
	"worker.queue_size",
}
