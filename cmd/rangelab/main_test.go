package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangelab/internal/config"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("rangelab"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseEquity(t *testing.T) {
	cli, ctx := parse(t, "equity", "TT+, AQs+", "random", "--board", "Td7s8h", "--seed", "7", "--trials", "5000", "--exact-threshold=-1", "--progress")
	assert.Equal(t, "equity <hero> <villain>", ctx.Command())
	assert.Equal(t, "TT+, AQs+", cli.Equity.Hero)
	assert.Equal(t, "random", cli.Equity.Villain)
	assert.Equal(t, "Td7s8h", cli.Equity.Board)
	require.NotNil(t, cli.Equity.Seed)
	assert.Equal(t, int64(7), *cli.Equity.Seed)
	require.NotNil(t, cli.Equity.ExactThreshold)
	assert.Equal(t, int64(-1), *cli.Equity.ExactThreshold)
	assert.True(t, cli.Equity.Progress)
	assert.Equal(t, "rangelab.hcl", cli.Config)

	assert.Len(t, cli.Equity.overrides(), 3)
}

func TestParseEquityVillainOptional(t *testing.T) {
	cli, ctx := parse(t, "equity", "AA")
	assert.Equal(t, "equity <hero>", ctx.Command())
	assert.Empty(t, cli.Equity.Villain)
	assert.Nil(t, cli.Equity.Seed)
	assert.Empty(t, cli.Equity.overrides())
}

func TestParseScenarioCommands(t *testing.T) {
	tests := []struct {
		args    []string
		command string
	}{
		{[]string{"scenario", "list"}, "scenario list"},
		{[]string{"scenario", "save", "AA,KK", "-n", "Premiums"}, "scenario save <hero>"},
		{[]string{"scenario", "delete", "abc"}, "scenario delete <id>"},
		{[]string{"scenario", "export", "-o", "-"}, "scenario export"},
		{[]string{"serve", "--addr", ":9000"}, "serve"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			_, ctx := parse(t, tt.args...)
			assert.Equal(t, tt.command, ctx.Command())
		})
	}
}

func TestGlobalsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rangelab.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
engine {
  trials = 1234
  seed   = 9
}
`), 0o644))

	g := &Globals{Config: path, LogLevel: "debug"}
	cfg, logger, err := g.load()
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Engine.Trials)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.Len(t, engineOptions(cfg.Engine, logger), 5)
}

func TestGlobalsLoadRejectsBadLevel(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "loud"}
	_, _, err := g.load()
	assert.ErrorContains(t, err, "invalid config")
}

func TestEngineOptionsWithoutSeed(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, engineOptions(cfg.Engine, log.New(os.Stderr)), 4)
}
