// Package config loads rangelab settings from an HCL file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete rangelab configuration.
type Config struct {
	Engine  EngineSettings
	Server  ServerSettings
	Storage StorageSettings
}

// EngineSettings tunes the equity simulation.
type EngineSettings struct {
	Trials         int    `hcl:"trials,optional" env:"RANGELAB_TRIALS"`
	ExactThreshold int64  `hcl:"exact_threshold,optional" env:"RANGELAB_EXACT_THRESHOLD"`
	Workers        int    `hcl:"workers,optional" env:"RANGELAB_WORKERS"`
	Seed           *int64 `hcl:"seed,optional" env:"RANGELAB_SEED"`
}

// ServerSettings contains the analysis server configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional" env:"RANGELAB_ADDRESS"`
	Port     int    `hcl:"port,optional" env:"RANGELAB_PORT"`
	LogLevel string `hcl:"log_level,optional" env:"RANGELAB_LOG_LEVEL"`

	// MaxTrials caps the trial count a client may request per analysis.
	MaxTrials int `hcl:"max_trials,optional" env:"RANGELAB_MAX_TRIALS"`
}

// StorageSettings locates the scenario database.
type StorageSettings struct {
	Path string `hcl:"path,optional" env:"RANGELAB_DB_PATH"`
}

// file mirrors the HCL layout; every block is optional.
type file struct {
	Engine  *EngineSettings  `hcl:"engine,block"`
	Server  *ServerSettings  `hcl:"server,block"`
	Storage *StorageSettings `hcl:"storage,block"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Engine: EngineSettings{
			Trials:         100_000,
			ExactThreshold: 500_000,
		},
		Server: ServerSettings{
			Address:   "localhost",
			Port:      8080,
			LogLevel:  "info",
			MaxTrials: 1_000_000,
		},
		Storage: StorageSettings{
			Path: "rangelab.db",
		},
	}
}

// Load reads filename, falling back to defaults when it does not exist, and
// then applies RANGELAB_* environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := cfg.decodeFile(filename); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(filename string) error {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc file
	if diags := gohcl.DecodeBody(f.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if e := fc.Engine; e != nil {
		if e.Trials != 0 {
			c.Engine.Trials = e.Trials
		}
		if e.ExactThreshold != 0 {
			c.Engine.ExactThreshold = e.ExactThreshold
		}
		c.Engine.Workers = e.Workers
		c.Engine.Seed = e.Seed
	}
	if s := fc.Server; s != nil {
		if s.Address != "" {
			c.Server.Address = s.Address
		}
		if s.Port != 0 {
			c.Server.Port = s.Port
		}
		if s.LogLevel != "" {
			c.Server.LogLevel = s.LogLevel
		}
		if s.MaxTrials != 0 {
			c.Server.MaxTrials = s.MaxTrials
		}
	}
	if s := fc.Storage; s != nil && s.Path != "" {
		c.Storage.Path = s.Path
	}
	return nil
}

func (c *Config) applyEnv() error {
	for _, target := range []any{&c.Engine, &c.Server, &c.Storage} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Validate checks the configuration for values the engine or server cannot use
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Engine.Trials < 0 {
		return fmt.Errorf("trials must not be negative: %d", c.Engine.Trials)
	}
	if c.Server.MaxTrials < 1 {
		return fmt.Errorf("max trials must be positive: %d", c.Server.MaxTrials)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Engine.Workers)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path must be set")
	}
	return nil
}

// ServerAddress returns the host:port the server listens on
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
