package equity

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lox/rangelab/internal/classification"
)

// EquityResult is hero's showdown split in percent. The three values always
// sum to exactly 100 after rounding.
type EquityResult struct {
	HeroEquity    float64    `json:"heroEquity"`
	VillainEquity float64    `json:"villainEquity"`
	TieEquity     float64    `json:"tieEquity"`
	Iterations    Iterations `json:"iterations"`
}

// HandStat is the share of runouts hero finished in one named bucket.
type HandStat struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// Bucket groups outcomes under a display name.
type Bucket struct {
	Name     string
	Outcomes []classification.Outcome
}

// BucketTable maps outcomes to buckets. An outcome listed twice counts toward
// the first bucket that names it; unlisted outcomes fall into Residual.
type BucketTable struct {
	Buckets  []Bucket
	Residual string
}

// Bucket names of DefaultBuckets.
const (
	TopPairPlus    = "Top Pair+"
	SetsFullHouse  = "Sets/Full House"
	WeakPairBucket = "Weak Pair"
	FlushDraw      = "Flush Draw"
	StraightDraw   = "Straight Draw"
	AirMissed      = "Air / Missed"
)

// DefaultBuckets is the standard hero hand breakdown.
var DefaultBuckets = BucketTable{
	Buckets: []Bucket{
		{Name: TopPairPlus, Outcomes: []classification.Outcome{
			classification.StraightFlush,
			classification.Flush,
			classification.Straight,
			classification.TwoPair,
			classification.TopPair,
		}},
		{Name: SetsFullHouse, Outcomes: []classification.Outcome{
			classification.FourOfAKind,
			classification.FullHouse,
			classification.ThreeOfAKind,
		}},
		{Name: WeakPairBucket, Outcomes: []classification.Outcome{classification.WeakPair}},
		{Name: FlushDraw, Outcomes: []classification.Outcome{classification.FlushDraw}},
		{Name: StraightDraw, Outcomes: []classification.Outcome{classification.StraightDraw}},
	},
	Residual: AirMissed,
}

// Summarize converts a tally into rounded win, loss and tie percentages.
func Summarize(t Tally) EquityResult {
	pct := RoundPercentages([]float64{t.Wins, t.Losses, t.Ties})
	return EquityResult{
		HeroEquity:    pct[0],
		VillainEquity: pct[1],
		TieEquity:     pct[2],
		Iterations:    t.Iterations,
	}
}

// HandStats folds the outcome histogram into the table's buckets, in table
// order with the residual bucket last.
func HandStats(t Tally, table BucketTable) []HandStat {
	values := make([]float64, len(table.Buckets)+1)
	var assigned [classification.OutcomeCount]bool

	for i, b := range table.Buckets {
		for _, o := range b.Outcomes {
			if int(o) >= classification.OutcomeCount || assigned[o] {
				continue
			}
			assigned[o] = true
			values[i] += t.Outcomes[o]
		}
	}
	for o, v := range t.Outcomes {
		if !assigned[o] {
			values[len(values)-1] += v
		}
	}

	pct := RoundPercentages(values)
	stats := make([]HandStat, len(values))
	for i, b := range table.Buckets {
		stats[i] = HandStat{Name: b.Name, Percentage: pct[i]}
	}
	residual := table.Residual
	if residual == "" {
		residual = AirMissed
	}
	stats[len(stats)-1] = HandStat{Name: residual, Percentage: pct[len(pct)-1]}
	return stats
}

// Stat returns the percentage of the named bucket, or 0 when it is missing.
func Stat(stats []HandStat, name string) float64 {
	for _, s := range stats {
		if s.Name == name {
			return s.Percentage
		}
	}
	return 0
}

var tenThousand = decimal.NewFromInt(10_000)

// RoundPercentages scales values to percentages with two decimals using the
// largest remainder method, so the result sums to exactly 100. An all-zero
// input yields all zeros.
func RoundPercentages(values []float64) []float64 {
	out := make([]float64, len(values))

	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	if total.Sign() <= 0 {
		return out
	}

	units := make([]int64, len(values))
	remainders := make([]decimal.Decimal, len(values))
	var assigned int64
	for i, v := range values {
		exact := decimal.NewFromFloat(v).Mul(tenThousand).Div(total)
		floor := exact.Floor()
		units[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		assigned += units[i]
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for j := 0; assigned < 10_000; j++ {
		units[order[j%len(order)]]++
		assigned++
	}

	for i, u := range units {
		out[i] = decimal.New(u, -2).InexactFloat64()
	}
	return out
}
