package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/rangelab/internal/engine"
	"github.com/lox/rangelab/internal/scenario/sqlite"
	"github.com/lox/rangelab/internal/server"
	"github.com/lox/rangelab/internal/vision"
)

// ServeCmd runs the WebSocket and HTTP analysis server.
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.Storage.Path, nil)
	if err != nil {
		return fmt.Errorf("opening scenario store: %w", err)
	}
	defer store.Close()

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	eng := engine.New(engineOptions(cfg.Engine, logger)...)
	srv := server.NewServer(addr, logger, eng, store, vision.DemoOracle{}, quartz.NewReal(),
		server.WithMaxTrials(cfg.Server.MaxTrials))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
