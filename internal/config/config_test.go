package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rangelab.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ServerAddress())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
engine {
  trials          = 20000
  exact_threshold = -1
  workers         = 2
  seed            = 42
}

server {
  address    = "0.0.0.0"
  port       = 9090
  log_level  = "debug"
  max_trials = 50000
}

storage {
  path = "/tmp/scenarios.db"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20000, cfg.Engine.Trials)
	assert.Equal(t, int64(-1), cfg.Engine.ExactThreshold)
	assert.Equal(t, 2, cfg.Engine.Workers)
	require.NotNil(t, cfg.Engine.Seed)
	assert.Equal(t, int64(42), *cfg.Engine.Seed)
	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddress())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 50000, cfg.Server.MaxTrials)
	assert.Equal(t, "/tmp/scenarios.db", cfg.Storage.Path)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `server { port = 7000 }`))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 1_000_000, cfg.Server.MaxTrials)
	assert.Equal(t, 100_000, cfg.Engine.Trials)
	assert.Nil(t, cfg.Engine.Seed)
	assert.Equal(t, "rangelab.db", cfg.Storage.Path)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, `server { port = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `tables { }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("RANGELAB_TRIALS", "5000")
	t.Setenv("RANGELAB_WORKERS", "3")
	t.Setenv("RANGELAB_PORT", "9999")
	t.Setenv("RANGELAB_LOG_LEVEL", "warn")
	t.Setenv("RANGELAB_DB_PATH", "env.db")
	t.Setenv("RANGELAB_MAX_TRIALS", "2500")

	cfg, err := Load(writeConfig(t, `engine { trials = 20000 }`))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Engine.Trials)
	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, log.WarnLevel, cfg.Level())
	assert.Equal(t, "env.db", cfg.Storage.Path)
	assert.Equal(t, 2500, cfg.Server.MaxTrials)
}

func TestEnvironmentParseError(t *testing.T) {
	t.Setenv("RANGELAB_PORT", "not-a-number")
	_, err := Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }, "invalid log level"},
		{"negative trials", func(c *Config) { c.Engine.Trials = -1 }, "trials"},
		{"zero max trials", func(c *Config) { c.Server.MaxTrials = 0 }, "max trials"},
		{"negative workers", func(c *Config) { c.Engine.Workers = -2 }, "workers"},
		{"empty storage", func(c *Config) { c.Storage.Path = "" }, "storage path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
