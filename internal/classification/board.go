// Package classification describes boards and hands: texture facts about the
// community cards, draw detection and the outcome category a hero hand ends in.
package classification

import (
	"math/bits"

	"github.com/lox/rangelab/poker"
)

// Wetness represents how coordinated a board is, from dry to very wet.
type Wetness int

const (
	Dry Wetness = iota
	SemiWet
	Wet
	VeryWet
)

func (w Wetness) String() string {
	switch w {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// FlushInfo contains information about flush potential on a board.
type FlushInfo struct {
	MaxSuitCount int
}

// StraightInfo contains information about straight potential on a board.
type StraightInfo struct {
	ConnectedCards int // longest run of consecutive ranks, the ace playing low too
}

// AnalyzeWetness scores how many draws a board allows.
func AnalyzeWetness(board poker.Hand) Wetness {
	if board.CountCards() < 3 {
		return Dry
	}

	var score int
	flush := AnalyzeFlushPotential(board)
	switch {
	case flush.MaxSuitCount >= 3:
		score += 4
	case flush.MaxSuitCount == 2:
		score++
	}

	switch straight := AnalyzeStraightPotential(board); {
	case straight.ConnectedCards >= 4:
		score += 4
	case straight.ConnectedCards == 3:
		score += 3
	case straight.ConnectedCards == 2:
		score++
	}

	if CountPairs(board) > 0 {
		score++
	}
	if CountHighCards(board, poker.Ten) >= 3 {
		score++
	}

	switch {
	case score <= 0:
		return Dry
	case score <= 3:
		return SemiWet
	case score <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// AnalyzeFlushPotential counts suits on the board.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	var info FlushInfo
	for suit := uint8(0); suit < 4; suit++ {
		info.MaxSuitCount = max(info.MaxSuitCount, bits.OnesCount16(board.GetSuitMask(suit)))
	}
	return info
}

// AnalyzeStraightPotential measures connectedness of the board ranks.
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	if board == 0 {
		return StraightInfo{}
	}

	ranks := board.GetRankMask() & poker.RankMask
	// Shift up one so the ace can also sit below the deuce at bit 0.
	mask := ranks<<1 | ranks>>poker.Ace&1

	longest := 0
	for run := mask; run != 0; run &= run << 1 {
		longest++
	}

	return StraightInfo{ConnectedCards: longest}
}

// CountPairs counts ranks that appear at least twice on the board.
func CountPairs(board poker.Hand) int {
	s0, s1, s2, s3 := board.GetSuitMask(0), board.GetSuitMask(1), board.GetSuitMask(2), board.GetSuitMask(3)
	paired := (s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)
	return bits.OnesCount16(paired)
}

// CountHighCards counts board cards ranked at or above minRank.
func CountHighCards(board poker.Hand, minRank uint8) int {
	high := uint16(poker.RankMask) &^ (1<<minRank - 1)
	n := 0
	for suit := uint8(0); suit < 4; suit++ {
		n += bits.OnesCount16(board.GetSuitMask(suit) & high)
	}
	return n
}

// HighestRank returns the highest rank on the board and false for an empty board.
func HighestRank(board poker.Hand) (uint8, bool) {
	var ranks uint16
	for suit := uint8(0); suit < 4; suit++ {
		ranks |= board.GetSuitMask(suit)
	}
	if ranks == 0 {
		return 0, false
	}
	return uint8(bits.Len16(ranks) - 1), true
}
