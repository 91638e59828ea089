package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/rangelab/internal/display"
	"github.com/lox/rangelab/internal/engine"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

// EquityCmd evaluates one hero range against one villain range.
type EquityCmd struct {
	Hero           string `arg:"" help:"Hero range in standard notation (e.g. 'TT+, AQs+')"`
	Villain        string `arg:"" optional:"" help:"Villain range; empty means any two cards"`
	Board          string `short:"b" help:"Board cards (e.g. 'Td7s8h')"`
	Seed           *int64 `help:"Random seed for reproducible results"`
	Trials         int    `short:"t" help:"Monte Carlo trials (overrides config)"`
	ExactThreshold *int64 `help:"Largest enumeration done exactly; negative always samples"`
	Workers        int    `short:"w" help:"Simulation goroutines (overrides config)"`
	NoColor        bool   `help:"Disable coloured output"`
	Progress       bool   `short:"p" help:"Show a spinner while simulating; ctrl+c cancels"`
	JSON           bool   `help:"Print the result as JSON"`
}

func (c *EquityCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	hero, err := ranges.ParseRange(c.Hero)
	if err != nil {
		return fmt.Errorf("hero range: %w", err)
	}
	villain, err := ranges.ParseRange(c.Villain)
	if err != nil {
		return fmt.Errorf("villain range: %w", err)
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	eng := engine.New(engineOptions(cfg.Engine, logger)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result *engine.AnalysisResult
	start := time.Now()
	evaluate := func(ctx context.Context) error {
		var err error
		result, err = eng.Evaluate(ctx, hero, villain, board, c.overrides()...)
		return err
	}

	if c.Progress {
		err = display.RunWithProgress(ctx, os.Stdin, os.Stderr, "simulating...", evaluate)
	} else {
		err = evaluate(ctx)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	display.NewPrinter(os.Stdout, c.NoColor).Result(hero, villain, board, result, elapsed)
	return nil
}

// overrides returns per-call engine options for flags that were set.
func (c *EquityCmd) overrides() []engine.Option {
	var opts []engine.Option
	if c.Seed != nil {
		opts = append(opts, engine.WithSeed(*c.Seed))
	}
	if c.Trials > 0 {
		opts = append(opts, engine.WithTrials(c.Trials))
	}
	if c.ExactThreshold != nil {
		opts = append(opts, engine.WithExactThreshold(*c.ExactThreshold))
	}
	if c.Workers > 0 {
		opts = append(opts, engine.WithWorkers(c.Workers))
	}
	return opts
}
