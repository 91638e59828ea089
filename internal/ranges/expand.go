package ranges

import (
	"errors"

	"github.com/lox/rangelab/poker"
)

// ErrNoCombos is returned by Expand when blocking removes every combo.
var ErrNoCombos = errors.New("no combos survive blocking")

// Combo is one concrete two-card holding of a hand class.
type Combo struct {
	Cards  [2]poker.Card
	Class  HandClass
	Weight float64
}

// Hand returns the combo's cards as a bitset.
func (c Combo) Hand() poker.Hand {
	return poker.NewHand(c.Cards[0], c.Cards[1])
}

func (c Combo) String() string {
	return c.Cards[0].String() + c.Cards[1].String()
}

// Combos lists every combo of the class, ignoring blockers: 6 for a pair,
// 4 suited or 12 offsuit.
func (c HandClass) Combos() [][2]poker.Card {
	high, low := c.Ranks()
	out := make([][2]poker.Card, 0, c.ComboCount())

	switch {
	case c.IsPair():
		for suit1 := range uint8(4) {
			for suit2 := suit1 + 1; suit2 < 4; suit2++ {
				out = append(out, [2]poker.Card{poker.NewCard(high, suit1), poker.NewCard(high, suit2)})
			}
		}
	case c.IsSuited():
		for suit := range uint8(4) {
			out = append(out, [2]poker.Card{poker.NewCard(high, suit), poker.NewCard(low, suit)})
		}
	default:
		for suit1 := range uint8(4) {
			for suit2 := range uint8(4) {
				if suit1 != suit2 {
					out = append(out, [2]poker.Card{poker.NewCard(high, suit1), poker.NewCard(low, suit2)})
				}
			}
		}
	}
	return out
}

// Expand turns a range into its concrete combos, dropping any combo that
// touches a blocked card. A fully blocked class contributes nothing; an empty
// result overall is ErrNoCombos.
func Expand(r Range, blocked poker.Hand) ([]Combo, error) {
	var combos []Combo
	for _, class := range r.Classes() {
		weight := r.Weight(class)
		for _, cards := range class.Combos() {
			if blocked.HasCard(cards[0]) || blocked.HasCard(cards[1]) {
				continue
			}
			combos = append(combos, Combo{Cards: cards, Class: class, Weight: weight})
		}
	}
	if len(combos) == 0 {
		return nil, ErrNoCombos
	}
	return combos, nil
}
