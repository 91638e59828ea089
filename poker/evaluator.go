package poker

import (
	"fmt"
	"math/bits"
)

// HandRank is the strength of a best five-card hand. Higher values are stronger,
// and any two ranks compare under one total order.
//
// Layout: bits 20-23 hold the HandType, then five 4-bit tiebreak ranks from the
// most to the least significant card (unused slots are zero).
type HandRank uint32

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// HandTypeCount is the number of hand categories.
const HandTypeCount = int(StraightFlush) + 1

func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Type returns the type of hand (pair, flush, etc.).
func (hr HandRank) Type() HandType {
	return HandType(hr >> 20)
}

// Tiebreak returns the i-th tiebreak rank (0 is most significant).
func (hr HandRank) Tiebreak(i int) uint8 {
	if i < 0 || i > 4 {
		return 0
	}
	return uint8(hr>>(16-4*i)) & 0xF
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	return hr.Type().String()
}

// Evaluate ranks the best five-card hand found in a set of 5 to 7 cards.
func Evaluate(hand Hand) (HandRank, error) {
	if hand&^AllCards != 0 {
		return 0, fmt.Errorf("hand contains bits outside the deck")
	}
	if n := hand.CountCards(); n < 5 || n > 7 {
		return 0, fmt.Errorf("evaluate needs 5 to 7 cards, got %d", n)
	}
	return evaluateUnchecked(hand), nil
}

// Evaluate7Cards evaluates the best 5-card hand from exactly 7 cards.
// It returns 0, weaker than any real hand, for any other card count.
func Evaluate7Cards(hand Hand) HandRank {
	if hand.CountCards() != 7 {
		return 0
	}
	return evaluateUnchecked(hand)
}

func evaluateUnchecked(hand Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		mask := hand.GetSuitMask(suit)
		suitMasks[suit] = mask
		rankMask |= mask
	}
	return rankFromMasks(suitMasks, rankMask)
}

func rankFromMasks(suitMasks [4]uint16, rankMask uint16) HandRank {
	// With at most seven cards only one suit can hold five or more.
	for _, suitMask := range suitMasks {
		if bits.OnesCount16(suitMask) < 5 {
			continue
		}
		if high, ok := straightHigh(suitMask); ok {
			return makeRank(StraightFlush, high)
		}
		return makeRank(Flush) | kickers(suitMask, 5, 0)
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]

	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quadsMask != 0 {
		quad := highestRank(quadsMask)
		return makeRank(FourOfAKind, quad, highestRank(rankMask&^(1<<quad)))
	}

	if tripsMask != 0 {
		trip := highestRank(tripsMask)
		// A second set of trips plays as the pair of a full house.
		if rest := pairsMask | (tripsMask &^ (1 << trip)); rest != 0 {
			return makeRank(FullHouse, trip, highestRank(rest))
		}
	}

	if high, ok := straightHigh(rankMask); ok {
		return makeRank(Straight, high)
	}

	if tripsMask != 0 {
		trip := highestRank(tripsMask)
		return makeRank(ThreeOfAKind, trip) | kickers(rankMask&^(1<<trip), 2, 1)
	}

	if pairsMask != 0 {
		high := highestRank(pairsMask)
		if rest := pairsMask &^ (1 << high); rest != 0 {
			low := highestRank(rest)
			return makeRank(TwoPair, high, low) | kickers(rankMask&^(1<<high|1<<low), 1, 2)
		}
		return makeRank(Pair, high) | kickers(rankMask&^(1<<high), 3, 1)
	}

	return makeRank(HighCard) | kickers(rankMask, 5, 0)
}

func makeRank(t HandType, ranks ...uint8) HandRank {
	r := HandRank(t) << 20
	for i, rank := range ranks {
		r |= HandRank(rank) << (16 - 4*i)
	}
	return r
}

// kickers packs the n highest ranks of mask into tiebreak slots from slot onwards.
func kickers(mask uint16, n, slot int) HandRank {
	var r HandRank
	for ; n > 0 && mask != 0; n-- {
		top := highestRank(mask)
		r |= HandRank(top) << (16 - 4*slot)
		mask &^= 1 << top
		slot++
	}
	return r
}

// highestRank returns the highest rank present in a non-empty mask.
func highestRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// straightHigh returns the high-card rank of the best straight in the mask.
// The wheel (A-2-3-4-5) reports Five as its high card, so every other straight beats it.
func straightHigh(mask uint16) (uint8, bool) {
	const wheelMask = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five
	mask &= RankMask

	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return highestRank(seq) + 4, true
	}
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
