package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccalde29/CHAIT-world-sub001/state"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Engine.MaxSecondary)
	assert.Equal(t, 2, cfg.Engine.SecondaryConcurrency)
	assert.Equal(t, 1500*time.Millisecond, cfg.Engine.SecondaryDelay)
	assert.NotEmpty(t, cfg.Engine.FallbackLine)
	assert.Equal(t, 3, cfg.Engine.RecentSpeakerWindow)
	assert.Equal(t, state.StoreTypeMemory, cfg.Store.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
engine:
  max_secondary: 5
  secondary_delay: 2s
store:
  type: redis
  redis:
    addr: localhost:6379
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.MaxSecondary)
	assert.Equal(t, 2*time.Second, cfg.Engine.SecondaryDelay)
	assert.Equal(t, state.StoreTypeRedis, cfg.Store.Type)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys the file never mentions keep their defaults.
	assert.Equal(t, 2, cfg.Engine.SecondaryConcurrency)
	assert.Equal(t, Default().Engine.FallbackLine, cfg.Engine.FallbackLine)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [not a mapping"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
engine:
  max_secondary: 5
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("CHAIT_MAX_SECONDARY", "1")
	t.Setenv("CHAIT_LOG_LEVEL", "warn")
	t.Setenv("CHAIT_STORE_TYPE", "database")
	t.Setenv("CHAIT_DATABASE_DSN", "file:chait.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Engine.MaxSecondary)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, state.StoreTypeDatabase, cfg.Store.Type)
	assert.Equal(t, "file:chait.db", cfg.Store.Database.DSN)
}

func TestLoad_EnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CHAIT_MAX_SECONDARY", "lots")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Engine.MaxSecondary, cfg.Engine.MaxSecondary)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown store type",
			mutate:  func(c *Config) { c.Store.Type = "cloud" },
			wantErr: "unknown store type",
		},
		{
			name:    "redis without addr",
			mutate:  func(c *Config) { c.Store.Type = state.StoreTypeRedis },
			wantErr: "requires an addr",
		},
		{
			name:    "database without dsn",
			mutate:  func(c *Config) { c.Store.Type = state.StoreTypeDatabase },
			wantErr: "requires a dsn",
		},
		{
			name:    "negative max secondary",
			mutate:  func(c *Config) { c.Engine.MaxSecondary = -1 },
			wantErr: "max_secondary",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Engine.SecondaryConcurrency = -1 },
			wantErr: "secondary_concurrency",
		},
		{
			name:    "negative recency window",
			mutate:  func(c *Config) { c.Engine.RecentSpeakerWindow = -1 },
			wantErr: "recent_speaker_window",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "chatty" },
			wantErr: "unknown log level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
