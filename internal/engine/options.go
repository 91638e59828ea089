package engine

import (
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/lox/rangelab/internal/equity"
)

// Option configures an Engine or a single Evaluate call.
type Option func(*settings)

type settings struct {
	logger         *log.Logger
	trials         int
	exactThreshold int64
	workers        int
	seed           *int64
	buckets        equity.BucketTable
	tracer         trace.TracerProvider
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTrials sets the Monte Carlo trial count.
func WithTrials(trials int) Option {
	return func(s *settings) {
		s.trials = trials
	}
}

// WithSeed makes sampling reproducible.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = &seed
	}
}

// WithWorkers sets the number of simulation goroutines.
func WithWorkers(workers int) Option {
	return func(s *settings) {
		s.workers = workers
	}
}

// WithExactThreshold sets the largest amount of work that is enumerated
// exactly. Negative values always sample.
func WithExactThreshold(threshold int64) Option {
	return func(s *settings) {
		s.exactThreshold = threshold
	}
}

// WithBuckets replaces the hand statistics bucket table.
func WithBuckets(table equity.BucketTable) Option {
	return func(s *settings) {
		s.buckets = table
	}
}

// WithTracerProvider sets where engine spans are sent. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) {
		s.tracer = tp
	}
}

func (s settings) apply(opts []Option) settings {
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) simulation() equity.Config {
	return equity.Config{
		Trials:         s.trials,
		ExactThreshold: s.exactThreshold,
		Workers:        s.workers,
		Seed:           s.seed,
		Logger:         s.logger,
	}
}
