package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lox/rangelab/internal/analytics"
	"github.com/lox/rangelab/internal/equity"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

func testEngine(opts ...Option) *Engine {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
	return New(append([]Option{WithLogger(logger), WithSeed(42), WithTrials(20_000)}, opts...)...)
}

func board(t *testing.T, s string) []poker.Card {
	t.Helper()
	cards, err := poker.ParseCards(s)
	require.NoError(t, err)
	return cards
}

func TestEvaluateAcesVersusKings(t *testing.T) {
	result, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), nil)
	require.NoError(t, err)

	assert.InDelta(t, 81.9, result.HeroEquity, 1.5)
	assert.InDelta(t, 100, result.HeroEquity+result.VillainEquity+result.TieEquity, 1e-9)
	assert.Equal(t, equity.Iterations(20_000), result.Iterations)
	assert.Equal(t, analytics.ValueBet.Label, result.Recommendation)
	assert.Equal(t, analytics.TextureNeutral, result.Texture)
	assert.Empty(t, result.Insights)
	require.Len(t, result.HandStats, len(equity.DefaultBuckets.Buckets)+1)

	var total float64
	for _, s := range result.HandStats {
		total += s.Percentage
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestEvaluateHeroBlockedByBoard(t *testing.T) {
	_, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "Ac Ad Ah"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientCombinations))
	assert.True(t, errors.Is(err, ranges.ErrNoCombos))

	var insufficient *InsufficientCombinationsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, Hero, insufficient.Side)
	assert.Contains(t, err.Error(), "hero")
}

func TestEvaluateTwoAcesOnBoardLeavesOneCombo(t *testing.T) {
	result, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "Ac Ad 2h"))
	require.NoError(t, err)
	assert.Greater(t, result.HeroEquity, 95.0)
}

func TestEvaluateVillainBlocked(t *testing.T) {
	_, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "Kc Kd Kh"))

	var insufficient *InsufficientCombinationsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, Villain, insufficient.Side)
}

func TestEvaluateNoMatchupsIsVillainSide(t *testing.T) {
	_, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("AA"), board(t, "Ac Ad 2h"))

	var insufficient *InsufficientCombinationsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, Villain, insufficient.Side)
	assert.ErrorIs(t, err, equity.ErrNoMatchups)
}

func TestEvaluateEmptyHero(t *testing.T) {
	_, err := testEngine().Evaluate(context.Background(), ranges.Range{}, ranges.MustParseRange("KK"), nil)

	var insufficient *InsufficientCombinationsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, Hero, insufficient.Side)
}

func TestEvaluateEmptyVillainIsAnyTwo(t *testing.T) {
	b := board(t, "Ks 9s 4d")
	result, err := testEngine().Evaluate(context.Background(), ranges.MustParseRange("AKs"), ranges.Range{}, b)
	require.NoError(t, err)

	assert.Greater(t, result.HeroEquity, 55.0)
	assert.Contains(t, result.Insights, analytics.TagHeroAdvantage)
	assert.Contains(t, result.Insights, analytics.TagDrawHeavy)
	assert.Equal(t, analytics.TextureDrawHeavy, result.Texture)
}

func TestEvaluateInvalidBoard(t *testing.T) {
	_, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "2c 3c 4c 5c 6c 7c"))
	assert.ErrorIs(t, err, ErrInvalidBoard)
	assert.False(t, errors.Is(err, ErrInsufficientCombinations))
}

func TestEvaluateNonFiniteWeightsNeverReachEngine(t *testing.T) {
	for _, notation := range []string{"AA:inf", "AA:NaN", "AA:1e400"} {
		_, err := ranges.ParseRange(notation)
		var perr *ranges.ParseError
		assert.ErrorAs(t, err, &perr, notation)
	}
}

func TestEvaluateHugeWeights(t *testing.T) {
	b := board(t, "2c 7d 9h Js 3c")
	e := testEngine()

	plain, err := e.Evaluate(context.Background(), ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), b)
	require.NoError(t, err)
	huge, err := e.Evaluate(context.Background(), ranges.MustParseRange("AA:1e200"), ranges.MustParseRange("KK:1e200"), b)
	require.NoError(t, err)

	assert.True(t, huge.Iterations.IsExact())
	assert.Equal(t, plain.HeroEquity, huge.HeroEquity)
	assert.Equal(t, plain.HandStats, huge.HandStats)
}

func TestEvaluateTopPercentNotation(t *testing.T) {
	result, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("top5%"), ranges.MustParseRange("top50%"), board(t, "Ah Kd 7c"))
	require.NoError(t, err)
	assert.Greater(t, result.HeroEquity, 55.0)
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEngine().Evaluate(ctx, ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestEvaluateIsDeterministicWithSeed(t *testing.T) {
	e := testEngine(WithWorkers(2))
	hero, villain := ranges.MustParseRange("AQs+, TT+"), ranges.MustParseRange("random")
	b := board(t, "Qh 8c 3d")

	first, err := e.Evaluate(context.Background(), hero, villain, b)
	require.NoError(t, err)
	second, err := e.Evaluate(context.Background(), hero, villain, b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPerCallOptionsOverrideDefaults(t *testing.T) {
	e := testEngine()
	b := board(t, "2c 7d 9h Js")

	result, err := e.Evaluate(context.Background(), ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), b,
		WithExactThreshold(-1), WithTrials(1_000))
	require.NoError(t, err)
	assert.Equal(t, equity.Iterations(1_000), result.Iterations)

	result, err = e.Evaluate(context.Background(), ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), b)
	require.NoError(t, err)
	assert.True(t, result.Iterations.IsExact())
}

func TestCustomBuckets(t *testing.T) {
	table := equity.BucketTable{Residual: "Everything"}
	result, err := testEngine(WithBuckets(table)).Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), nil)
	require.NoError(t, err)
	assert.Equal(t, []equity.HandStat{{Name: "Everything", Percentage: 100}}, result.HandStats)
}

func TestEvaluateRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := testEngine(WithTracerProvider(tp))

	_, err := e.Evaluate(context.Background(), ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), nil)
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "Ac Ad Ah"))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "engine.Evaluate", spans[0].Name())
	assert.Equal(t, otelcodes.Unset, spans[0].Status().Code)
	assert.Equal(t, otelcodes.Error, spans[1].Status().Code)
}

func TestAnalysisResultJSON(t *testing.T) {
	result, err := testEngine().Evaluate(context.Background(),
		ranges.MustParseRange("AA"), ranges.MustParseRange("KK"), board(t, "2c 7d 9h Js 3c"))
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"heroEquity", "villainEquity", "tieEquity", "iterations", "recommendation", "insights", "texture", "detailedAnalysis", "handStats"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "exact", fields["iterations"])
}
