package classification

import "github.com/lox/rangelab/poker"

// Outcome is the category a hero hand ends in once the board is complete.
type Outcome uint8

const (
	Nothing Outcome = iota
	StraightDraw
	FlushDraw
	WeakPair
	TopPair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// OutcomeCount is the number of outcomes, for fixed-size histograms.
const OutcomeCount = int(StraightFlush) + 1

var outcomeNames = [OutcomeCount]string{
	Nothing:       "Nothing",
	StraightDraw:  "Straight Draw",
	FlushDraw:     "Flush Draw",
	WeakPair:      "Weak Pair",
	TopPair:       "Top Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (o Outcome) String() string {
	if int(o) < OutcomeCount {
		return outcomeNames[o]
	}
	return "Unknown"
}

var madeOutcomes = [poker.HandTypeCount]Outcome{
	poker.TwoPair:       TwoPair,
	poker.ThreeOfAKind:  ThreeOfAKind,
	poker.Straight:      Straight,
	poker.Flush:         Flush,
	poker.FullHouse:     FullHouse,
	poker.FourOfAKind:   FourOfAKind,
	poker.StraightFlush: StraightFlush,
}

// Categorize maps an evaluated hero hand to its outcome. rank must be the
// evaluation of hole|board.
//
// A single pair counts as TopPair when a hole card takes part in it and it is
// at least as high as every board card. Draws are only reported for hands
// that made nothing better than high card.
func Categorize(hole, board poker.Hand, rank poker.HandRank) Outcome {
	switch t := rank.Type(); t {
	case poker.Pair:
		pair := rank.Tiebreak(0)
		top, ok := HighestRank(board)
		if rankSet(hole)&(1<<pair) != 0 && (!ok || pair >= top) {
			return TopPair
		}
		return WeakPair
	case poker.HighCard:
		if HasFlushDraw(hole, board) {
			return FlushDraw
		}
		if HasStraightDraw(hole, board) {
			return StraightDraw
		}
		return Nothing
	default:
		return madeOutcomes[t]
	}
}
