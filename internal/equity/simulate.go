// Package equity runs range-versus-range showdown simulations and turns the
// raw tallies into rounded percentages and hand category statistics.
package equity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	rand "math/rand/v2"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rangelab/internal/classification"
	"github.com/lox/rangelab/internal/randutil"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

const (
	// DefaultTrials is the Monte Carlo sample count.
	DefaultTrials = 100_000
	// DefaultExactThreshold caps the work (matchups x runouts) that is
	// enumerated exactly instead of sampled.
	DefaultExactThreshold = 500_000

	maxWorkers          = 8
	cancelCheckInterval = 1024
)

var (
	// ErrCancelled is returned when the context ends before the run completes.
	// No partial tally is ever returned alongside it.
	ErrCancelled = errors.New("simulation cancelled")
	// ErrNoMatchups means every hero combo collides with every villain combo.
	ErrNoMatchups = errors.New("no hero and villain combos can be dealt together")
	// ErrInvalidWeight rejects combos whose weight is negative or not finite.
	ErrInvalidWeight = errors.New("combo weight must be finite and non-negative")
)

// Config controls a simulation run. Zero values select the defaults.
type Config struct {
	Trials int
	// ExactThreshold is the largest amount of work enumerated exactly.
	// A negative value always samples.
	ExactThreshold int64
	Workers        int
	// Seed makes Monte Carlo runs reproducible for a given worker count.
	Seed   *int64
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Trials <= 0 {
		c.Trials = DefaultTrials
	}
	if c.ExactThreshold == 0 {
		c.ExactThreshold = DefaultExactThreshold
	}
	if c.Workers <= 0 {
		c.Workers = min(runtime.NumCPU(), maxWorkers)
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Tally holds hero's weighted showdown results and the outcome histogram.
type Tally struct {
	Wins       float64
	Ties       float64
	Losses     float64
	Outcomes   [classification.OutcomeCount]float64
	Iterations Iterations
}

// Total is the summed weight of all recorded showdowns.
func (t Tally) Total() float64 {
	return t.Wins + t.Ties + t.Losses
}

func (t *Tally) merge(o Tally) {
	t.Wins += o.Wins
	t.Ties += o.Ties
	t.Losses += o.Losses
	for i, v := range o.Outcomes {
		t.Outcomes[i] += v
	}
}

// record evaluates one complete deal and adds it with weight w.
func (t *Tally) record(hero, villain, board poker.Hand, w float64) {
	heroRank := poker.Evaluate7Cards(hero | board)
	villainRank := poker.Evaluate7Cards(villain | board)

	switch poker.CompareHands(heroRank, villainRank) {
	case 1:
		t.Wins += w
	case 0:
		t.Ties += w
	default:
		t.Losses += w
	}
	t.Outcomes[classification.Categorize(hero, board, heroRank)] += w
}

type matchup struct {
	hero, villain int32
}

// space is every non-colliding (hero, villain) combo pair with cumulative
// weights wH*wV, so a binary search draws pairs exactly in proportion.
type space struct {
	hero, villain []poker.Hand
	pairs         []matchup
	cum           []float64
}

func buildSpace(hero, villain []ranges.Combo, board poker.Hand) *space {
	s := &space{
		hero:    make([]poker.Hand, len(hero)),
		villain: make([]poker.Hand, len(villain)),
	}
	for i, c := range hero {
		s.hero[i] = c.Hand()
	}
	for i, c := range villain {
		s.villain[i] = c.Hand()
	}

	// Each side is scaled so its heaviest combo weighs 1. Only relative
	// weights matter, and wH*wV can then neither overflow nor underflow.
	heroScale, villainScale := maxWeight(hero), maxWeight(villain)

	var total float64
	for hi, h := range s.hero {
		if h.Overlaps(board) || hero[hi].Weight <= 0 {
			continue
		}
		wH := hero[hi].Weight / heroScale
		for vi, v := range s.villain {
			if v.Overlaps(board) || v.Overlaps(h) || villain[vi].Weight <= 0 {
				continue
			}
			w := wH * (villain[vi].Weight / villainScale)
			if w <= 0 {
				continue
			}
			total += w
			s.pairs = append(s.pairs, matchup{hero: int32(hi), villain: int32(vi)})
			s.cum = append(s.cum, total)
		}
	}
	return s
}

func checkWeights(sides ...[]ranges.Combo) error {
	for _, combos := range sides {
		for _, c := range combos {
			if c.Weight < 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
				return fmt.Errorf("%w: %s has weight %v", ErrInvalidWeight, c, c.Weight)
			}
		}
	}
	return nil
}

func maxWeight(combos []ranges.Combo) float64 {
	m := 0.0
	for _, c := range combos {
		m = max(m, c.Weight)
	}
	return m
}

func (s *space) total() float64 {
	if len(s.cum) == 0 {
		return 0
	}
	return s.cum[len(s.cum)-1]
}

func (s *space) weight(i int) float64 {
	if i == 0 {
		return s.cum[0]
	}
	return s.cum[i] - s.cum[i-1]
}

func (s *space) sample(rng *rand.Rand) matchup {
	u := rng.Float64() * s.total()
	i := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > u })
	if i == len(s.cum) {
		i--
	}
	return s.pairs[i]
}

// Simulate deals hero combos against villain combos over every completion of
// board and tallies hero's results. Small problems are enumerated exactly;
// larger ones are sampled with Config.Trials Monte Carlo trials.
func Simulate(ctx context.Context, hero, villain []ranges.Combo, board []poker.Card, cfg Config) (Tally, error) {
	cfg = cfg.withDefaults()

	if err := poker.ValidateBoard(board); err != nil {
		return Tally{}, err
	}
	if len(hero) == 0 || len(villain) == 0 {
		return Tally{}, ranges.ErrNoCombos
	}
	if err := checkWeights(hero, villain); err != nil {
		return Tally{}, err
	}
	if err := ctx.Err(); err != nil {
		return Tally{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	boardHand := poker.NewHand(board...)
	sp := buildSpace(hero, villain, boardHand)
	if len(sp.pairs) == 0 {
		return Tally{}, ErrNoMatchups
	}

	needed := 5 - len(board)
	work := int64(len(sp.pairs)) * binomial(52-len(board)-4, needed)
	exact := cfg.ExactThreshold > 0 && work <= cfg.ExactThreshold

	start := time.Now()
	var (
		tally Tally
		err   error
	)
	if exact {
		tally, err = enumerate(ctx, sp, boardHand, needed, cfg.Workers)
	} else {
		tally, err = monteCarlo(ctx, sp, boardHand, needed, cfg)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Tally{}, fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
		}
		return Tally{}, err
	}

	cfg.Logger.Debug("simulation complete",
		"mode", modeName(exact),
		"matchups", len(sp.pairs),
		"work", work,
		"iterations", tally.Iterations,
		"workers", cfg.Workers,
		"elapsed", time.Since(start))

	return tally, nil
}

func modeName(exact bool) string {
	if exact {
		return "exact"
	}
	return "monte-carlo"
}

func monteCarlo(ctx context.Context, sp *space, board poker.Hand, needed int, cfg Config) (Tally, error) {
	seed := randutil.Seed()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	streams := randutil.Split(seed, cfg.Workers)

	perWorker := cfg.Trials / cfg.Workers
	remainder := cfg.Trials % cfg.Workers
	partials := make([]Tally, cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range cfg.Workers {
		trials := perWorker
		if w < remainder {
			trials++
		}
		rng := streams[w]

		g.Go(func() error {
			var t Tally
			deck := poker.NewDeckWithout(rng, board)
			for i := range trials {
				if i%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}

				m := sp.sample(rng)
				h, v := sp.hero[m.hero], sp.villain[m.villain]
				deck.Reset()
				extra, ok := deck.Deal(needed, h|v)
				if !ok {
					return fmt.Errorf("deck exhausted dealing %d cards", needed)
				}
				t.record(h, v, board|extra, 1)
			}
			partials[w] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, err
	}

	var tally Tally
	for _, p := range partials {
		tally.merge(p)
	}
	tally.Iterations = Iterations(cfg.Trials)
	return tally, nil
}

func enumerate(ctx context.Context, sp *space, board poker.Hand, needed, workers int) (Tally, error) {
	deck := poker.Remaining(board)
	partials := make([]Tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			var t Tally
			avail := make([]poker.Card, 0, len(deck))
			n := 0
			var cancelled error

			for i := w; i < len(sp.pairs); i += workers {
				m := sp.pairs[i]
				h, v := sp.hero[m.hero], sp.villain[m.villain]
				weight := sp.weight(i)

				avail = avail[:0]
				for _, c := range deck {
					if !h.HasCard(c) && !v.HasCard(c) {
						avail = append(avail, c)
					}
				}

				completed := combinations(avail, needed, func(extra poker.Hand) bool {
					if n%cancelCheckInterval == 0 {
						if err := gctx.Err(); err != nil {
							cancelled = err
							return false
						}
					}
					n++
					t.record(h, v, board|extra, weight)
					return true
				})
				if !completed {
					return cancelled
				}
			}
			partials[w] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, err
	}

	var tally Tally
	for _, p := range partials {
		tally.merge(p)
	}
	tally.Iterations = Exact
	return tally, nil
}

// combinations calls fn with every k-card subset of cards. It stops early
// and returns false as soon as fn does.
func combinations(cards []poker.Card, k int, fn func(poker.Hand) bool) bool {
	n := len(cards)
	if k > n {
		return true
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		var h poker.Hand
		for _, i := range idx {
			h |= poker.Hand(cards[i])
		}
		if !fn(h) {
			return false
		}

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}
