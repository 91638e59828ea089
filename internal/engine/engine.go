// Package engine ties range expansion, simulation, aggregation and analytics
// into a single range-versus-range evaluation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lox/rangelab/internal/analytics"
	"github.com/lox/rangelab/internal/equity"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

const tracerName = "github.com/lox/rangelab/internal/engine"

var (
	// ErrInsufficientCombinations matches any InsufficientCombinationsError.
	ErrInsufficientCombinations = errors.New("insufficient combinations")
	// ErrInvalidBoard wraps board validation failures.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrCancelled is returned when the context ends mid-evaluation.
	ErrCancelled = equity.ErrCancelled
)

// Side identifies one of the two ranges.
type Side int

const (
	Hero Side = iota
	Villain
)

func (s Side) String() string {
	if s == Villain {
		return "villain"
	}
	return "hero"
}

// InsufficientCombinationsError reports that a side has no hand left to deal
// once the board and the opposing range are taken into account.
type InsufficientCombinationsError struct {
	Side Side
	Err  error
}

func (e *InsufficientCombinationsError) Error() string {
	return fmt.Sprintf("insufficient combinations in %s range: %v", e.Side, e.Err)
}

func (e *InsufficientCombinationsError) Unwrap() error {
	return e.Err
}

func (e *InsufficientCombinationsError) Is(target error) bool {
	return target == ErrInsufficientCombinations
}

// AnalysisResult is the complete answer for one hero/villain/board question.
type AnalysisResult struct {
	equity.EquityResult
	Recommendation   string            `json:"recommendation"`
	Insights         []string          `json:"insights"`
	Texture          string            `json:"texture"`
	Wetness          string            `json:"wetness"`
	DetailedAnalysis string            `json:"detailedAnalysis"`
	HandStats        []equity.HandStat `json:"handStats"`
}

// Engine evaluates ranges. It holds only defaults and is safe for concurrent
// use.
type Engine struct {
	defaults settings
}

// New creates an engine with the given defaults.
func New(opts ...Option) *Engine {
	s := settings{
		logger:  log.New(io.Discard),
		buckets: equity.DefaultBuckets,
	}.apply(opts)
	return &Engine{defaults: s}
}

// Evaluate computes hero's equity against villain on board along with the
// hand statistics and strategic commentary. An empty villain range stands for
// any two cards. Per-call options override the engine defaults.
func (e *Engine) Evaluate(ctx context.Context, hero, villain ranges.Range, board []poker.Card, opts ...Option) (*AnalysisResult, error) {
	s := e.defaults.apply(opts)
	logger := s.logger.WithPrefix("engine")

	tp := s.tracer
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(tracerName).Start(ctx, "engine.Evaluate", trace.WithAttributes(
		attribute.Int("hero.classes", hero.Size()),
		attribute.Int("villain.classes", villain.Size()),
		attribute.String("board", poker.FormatCards(board)),
	))
	defer span.End()

	result, err := e.evaluate(ctx, s, logger, hero, villain, board)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("iterations", result.Iterations.String()),
		attribute.Float64("hero.equity", result.HeroEquity),
	)
	return result, nil
}

func (e *Engine) evaluate(ctx context.Context, s settings, logger *log.Logger, hero, villain ranges.Range, board []poker.Card) (*AnalysisResult, error) {
	start := time.Now()

	if err := poker.ValidateBoard(board); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	villainSize := villain.Size()
	if villain.IsEmpty() {
		villain = ranges.Full()
	}

	blocked := poker.NewHand(board...)
	heroCombos, err := ranges.Expand(hero, blocked)
	if err != nil {
		return nil, &InsufficientCombinationsError{Side: Hero, Err: err}
	}
	villainCombos, err := ranges.Expand(villain, blocked)
	if err != nil {
		return nil, &InsufficientCombinationsError{Side: Villain, Err: err}
	}

	cfg := s.simulation()
	cfg.Logger = logger
	tally, err := equity.Simulate(ctx, heroCombos, villainCombos, board, cfg)
	switch {
	case errors.Is(err, equity.ErrNoMatchups):
		return nil, &InsufficientCombinationsError{Side: Villain, Err: err}
	case err != nil:
		return nil, err
	}

	result := equity.Summarize(tally)
	stats := equity.HandStats(tally, s.buckets)
	analysis := analytics.Analyze(analytics.Input{
		Equity:           result,
		Board:            board,
		HeroRangeSize:    hero.Size(),
		VillainRangeSize: villainSize,
		TopPairFrequency: equity.Stat(stats, equity.TopPairPlus),
	})

	logger.Debug("evaluation complete",
		"hero", hero.Size(),
		"villain", villainSize,
		"board", poker.FormatCards(board),
		"equity", result.HeroEquity,
		"iterations", result.Iterations,
		"elapsed", time.Since(start))

	return &AnalysisResult{
		EquityResult:     result,
		Recommendation:   analysis.Recommendation.Label,
		Insights:         analysis.Insights,
		Texture:          analysis.Texture,
		Wetness:          analysis.Wetness,
		DetailedAnalysis: analysis.DetailedAnalysis,
		HandStats:        stats,
	}, nil
}
