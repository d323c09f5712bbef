// Package config loads the engine configuration: defaults, then an
// optional YAML file, then environment overrides, in that priority order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccalde29/CHAIT-world-sub001/state"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CHAIT"

// Config is the complete engine configuration.
type Config struct {
	Engine  EngineConfig      `yaml:"engine"`
	Store   state.StoreConfig `yaml:"store"`
	Logging LoggingConfig     `yaml:"logging"`
}

// EngineConfig tunes the turn orchestrator.
type EngineConfig struct {
	// MaxSecondary caps how many secondary speakers respond per turn;
	// 0 means no cap.
	MaxSecondary int `yaml:"max_secondary"`

	// SecondaryConcurrency bounds the parallel secondary LLM calls.
	SecondaryConcurrency int `yaml:"secondary_concurrency"`

	// SecondaryDelay is the per-index pause between secondary responses,
	// producing the staggered group-chat feel. The orchestrator reports
	// the delay; pacing is the caller's job.
	SecondaryDelay time.Duration `yaml:"secondary_delay"`

	// FallbackLine is surfaced when the primary character's generation
	// fails, so the conversation never stalls silently.
	FallbackLine string `yaml:"fallback_line"`

	// RecentSpeakerWindow is how many past responses feed the recency
	// penalty.
	RecentSpeakerWindow int `yaml:"recent_speaker_window"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console encoder, stack traces
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxSecondary:         3,
			SecondaryConcurrency: 2,
			SecondaryDelay:       1500 * time.Millisecond,
			FallbackLine:         "…sorry, I lost my train of thought. What were you saying?",
			RecentSpeakerWindow:  3,
		},
		Store: state.StoreConfig{
			Type: state.StoreTypeMemory,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration: defaults, overlaid by the YAML file at
// path (skipped when path is empty), overlaid by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays the supported environment overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_STORE_TYPE"); v != "" {
		cfg.Store.Type = state.StoreType(v)
	}
	if v := os.Getenv(EnvPrefix + "_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := os.Getenv(EnvPrefix + "_DATABASE_DSN"); v != "" {
		cfg.Store.Database.DSN = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "_MAX_SECONDARY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxSecondary = n
		}
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	switch c.Store.Type {
	case state.StoreTypeMemory, state.StoreTypeRedis, state.StoreTypeDatabase:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Store.Type == state.StoreTypeRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("redis store requires an addr")
	}
	if c.Store.Type == state.StoreTypeDatabase && c.Store.Database.DSN == "" {
		return fmt.Errorf("database store requires a dsn")
	}
	if c.Engine.MaxSecondary < 0 {
		return fmt.Errorf("max_secondary must not be negative")
	}
	if c.Engine.SecondaryConcurrency < 0 {
		return fmt.Errorf("secondary_concurrency must not be negative")
	}
	if c.Engine.RecentSpeakerWindow < 0 {
		return fmt.Errorf("recent_speaker_window must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
