package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/rangelab/internal/display"
	"github.com/lox/rangelab/internal/fileutil"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/internal/scenario"
	"github.com/lox/rangelab/internal/scenario/sqlite"
)

// ScenarioCmd groups the scenario store commands.
type ScenarioCmd struct {
	List   ScenarioListCmd   `cmd:"" help:"List saved scenarios, newest first"`
	Save   ScenarioSaveCmd   `cmd:"" help:"Save a hero/villain range pair"`
	Delete ScenarioDeleteCmd `cmd:"" help:"Delete a saved scenario"`
	Export ScenarioExportCmd `cmd:"" help:"Export all scenarios as JSON"`
}

func openStore(ctx context.Context, g *Globals) (*sqlite.Store, error) {
	cfg, _, err := g.load()
	if err != nil {
		return nil, err
	}
	return sqlite.Open(ctx, cfg.Storage.Path, nil)
}

type ScenarioListCmd struct {
	NoColor bool `help:"Disable coloured output"`
}

func (c *ScenarioListCmd) Run(g *Globals) error {
	ctx := context.Background()
	store, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	display.NewPrinter(os.Stdout, c.NoColor).Scenarios(list)
	return nil
}

type ScenarioSaveCmd struct {
	Hero    string `arg:"" help:"Hero range notation"`
	Villain string `arg:"" optional:"" help:"Villain range notation; empty means any two cards"`
	Name    string `short:"n" help:"Scenario name (defaults to a timestamped name)"`
}

func (c *ScenarioSaveCmd) Run(g *Globals) error {
	hero, err := ranges.ParseRange(c.Hero)
	if err != nil {
		return fmt.Errorf("hero range: %w", err)
	}
	villain, err := ranges.ParseRange(c.Villain)
	if err != nil {
		return fmt.Errorf("villain range: %w", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer store.Close()

	sc, err := store.Save(ctx, c.Name, hero, villain)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %q as %s\n", sc.Name, sc.ID)
	return nil
}

type ScenarioDeleteCmd struct {
	ID string `arg:"" help:"Scenario id"`
}

func (c *ScenarioDeleteCmd) Run(g *Globals) error {
	ctx := context.Background()
	store, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("deleting %s: %w", c.ID, err)
	}
	fmt.Printf("Deleted %s\n", c.ID)
	return nil
}

type ScenarioExportCmd struct {
	Output string `short:"o" help:"Output file; '-' writes to stdout (default: dated backup file)"`
}

func (c *ScenarioExportCmd) Run(g *Globals) error {
	ctx := context.Background()
	store, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Output == "-" {
		return scenario.Export(ctx, store, os.Stdout)
	}

	path := c.Output
	if path == "" {
		path = scenario.ExportFilename(time.Now())
	}
	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return scenario.Export(ctx, store, w)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported scenarios to %s\n", path)
	return nil
}
