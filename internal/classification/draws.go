package classification

import (
	"math/bits"

	"github.com/lox/rangelab/poker"
)

// wheelWindow is A-2-3-4-5 with the ace in its high bit position.
const wheelWindow = 1<<poker.Ace | 1<<poker.Two | 1<<poker.Three | 1<<poker.Four | 1<<poker.Five

// HasFlushDraw reports whether four or more cards of one suit are showing and
// at least one of them is a hole card.
func HasFlushDraw(hole, board poker.Hand) bool {
	all := hole | board
	for suit := range uint8(4) {
		if hole.GetSuitMask(suit) == 0 {
			continue
		}
		if bits.OnesCount16(all.GetSuitMask(suit)) >= 4 {
			return true
		}
	}
	return false
}

// HasStraightDraw reports whether some five-rank straight window holds four
// of the present ranks and at least one of those comes from a hole card.
func HasStraightDraw(hole, board poker.Hand) bool {
	holeRanks := rankSet(hole)
	ranks := holeRanks | rankSet(board)

	for _, window := range straightWindows {
		present := ranks & window
		if bits.OnesCount16(present) >= 4 && present&holeRanks != 0 {
			return true
		}
	}
	return false
}

// straightWindows lists the ten five-rank windows, wheel first.
var straightWindows = func() []uint16 {
	windows := []uint16{wheelWindow}
	for low := poker.Two; low <= poker.Ten; low++ {
		windows = append(windows, 0x1F<<low)
	}
	return windows
}()

func rankSet(h poker.Hand) uint16 {
	var ranks uint16
	for suit := range uint8(4) {
		ranks |= h.GetSuitMask(suit)
	}
	return ranks
}
