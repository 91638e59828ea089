package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/rangelab/internal/config"
	"github.com/lox/rangelab/internal/engine"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"rangelab.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Equity   EquityCmd        `cmd:"" help:"Compute hero range equity against a villain range"`
	Serve    ServeCmd         `cmd:"" help:"Run the analysis server"`
	Scenario ScenarioCmd      `cmd:"" help:"Manage saved scenarios"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rangelab"),
		kong.Description("Range versus range equity and board texture analysis"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads and validates configuration and builds the logger.
func (g *Globals) load() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
	})
	return cfg, logger, nil
}

// engineOptions turns engine settings into engine defaults.
func engineOptions(cfg config.EngineSettings, logger *log.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTrials(cfg.Trials),
		engine.WithExactThreshold(cfg.ExactThreshold),
		engine.WithWorkers(cfg.Workers),
	}
	if cfg.Seed != nil {
		opts = append(opts, engine.WithSeed(*cfg.Seed))
	}
	return opts
}
