package ranges

import (
	"fmt"
	"sort"
)

// strengthHead is the hand-picked preflop order for the strongest classes.
var strengthHead = []string{
	"AA", "KK", "AKs", "QQ", "AKo", "JJ", "AQs", "TT", "AQo", "99",
	"AJs", "88", "ATs", "AJo", "77", "KQs", "ATo", "KJs", "66", "QJs",
	"KQo", "KTs", "QTs", "JTs", "55", "KJo", "QJo", "KTo", "QTo", "JTo",
	"44", "A9s", "A8s", "K9s", "A7s", "A5s", "A4s", "A3s", "A2s", "Q9s",
	"T9s", "J9s", "33", "22", "A9o", "K8s", "Q8s", "J8s", "T8s", "98s",
	"A8o", "K7s", "A7o", "K9o", "Q9o", "J9o", "T9o", "A6s", "A5o", "A4o",
	"A3o", "A2o", "K6s", "K5s", "Q7s", "J7s", "T7s", "97s", "87s", "K4s",
	"K3s", "K2s", "Q6s", "Q5s", "Q4s", "Q3s", "Q2s", "J6s", "J5s", "J4s",
	"J3s", "J2s", "T6s", "T5s", "T4s", "T3s", "T2s", "96s", "86s", "76s",
	"65s", "54s", "43s", "32s",
}

// StrengthOrder lists all 169 classes from strongest to weakest preflop.
// Classes past the hand-picked head are ordered by rank sum, suited first.
var StrengthOrder = buildStrengthOrder()

var strengthIndex = func() [NumClasses]int {
	var idx [NumClasses]int
	for i, c := range StrengthOrder {
		idx[c] = i
	}
	return idx
}()

func buildStrengthOrder() []HandClass {
	order := make([]HandClass, 0, NumClasses)
	var seen [NumClasses]bool
	for _, token := range strengthHead {
		c, err := ParseHandClass(token)
		if err != nil {
			panic(fmt.Sprintf("strength order: %v", err))
		}
		order = append(order, c)
		seen[c] = true
	}

	var rest []HandClass
	for _, c := range AllClasses() {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return tailScore(rest[i]) > tailScore(rest[j])
	})
	return append(order, rest...)
}

func tailScore(c HandClass) int {
	high, low := c.Ranks()
	score := 4 * (int(high) + int(low))
	if c.IsSuited() {
		score += 6
	}
	return score*16 + int(high)
}

// StrengthRank returns the position of the class in StrengthOrder (0 is best).
func StrengthRank(c HandClass) int {
	return strengthIndex[c]
}

// TopPercent returns the smallest prefix of StrengthOrder covering at least
// pct percent of the 1326 starting combos.
func TopPercent(pct float64) Range {
	var r Range
	if pct <= 0 {
		return r
	}
	target := pct / 100 * 1326
	covered := 0
	for _, c := range StrengthOrder {
		if float64(covered) >= target {
			break
		}
		r.Include(c)
		covered += c.ComboCount()
	}
	return r
}
