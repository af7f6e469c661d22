package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/papercomputeco/callmem/pkg/dotdir"
)

// EnvPrefix prefixes every environment variable read by callmem.
const EnvPrefix = "CALLMEM"

// legacyEnv maps config keys to the variable names of earlier deployments.
// They are read after the CALLMEM_ form.
var legacyEnv = map[string]string{
	"elevenlabs.hmac_key":      "ELEVENLABS_HMAC_KEY",
	"elevenlabs.workspace_key": "ELEVENLABS_WORKSPACE_KEY",
	"mem0.api_key":             "MEM0_API_KEY",
	"mem0.org_id":              "MEM0_ORG_ID",
	"mem0.project_id":          "MEM0_PROJECT_ID",
	"mem0.timeout":             "MEM0_TIMEOUT",
	"memory.search_limit":      "MEM0_SEARCH_LIMIT",
	"archive.bucket":           "S3_BUCKET_NAME",
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CALLMEM_ prefix plus the legacy names in legacyEnv.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CALLMEM_API_LISTEN, MEM0_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	for _, key := range orderedKeys {
		v.SetDefault(key, configKeys[key].get(d))
	}

	// Typed defaults where the string form would lose meaning.
	v.SetDefault("api.mcp", d.API.MCP)
	v.SetDefault("qdrant.use_tls", d.Qdrant.UseTLS)
	v.SetDefault("memory.search_limit", d.Memory.SearchLimit)
	v.SetDefault("qdrant.port", d.Qdrant.Port)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("worker.count", d.Worker.Count)
	v.SetDefault("worker.queue_size", d.Worker.QueueSize)
}

// Duration reads a duration key, accepting bare integers as seconds.
func Duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
