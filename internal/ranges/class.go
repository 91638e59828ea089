// Package ranges models starting-hand ranges over the 169 canonical hold'em
// hand classes and expands them into concrete two-card combos.
package ranges

import (
	"fmt"

	"github.com/lox/rangelab/poker"
)

// NumClasses is the number of distinct starting-hand classes.
const NumClasses = 169

// HandClass identifies one of the 169 starting-hand classes. Classes are laid
// out like the familiar 13x13 grid with aces in the top-left corner: pairs on
// the diagonal, suited hands above it and offsuit hands below it.
type HandClass uint8

// ParseError reports a malformed hand class or range notation token.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid hand class %q: %s", e.Token, e.Reason)
}

// NewHandClass returns the class for two ranks (0-12, any order). The suited
// flag is ignored for pairs.
func NewHandClass(rank1, rank2 uint8, suited bool) HandClass {
	high, low := rank1, rank2
	if low > high {
		high, low = low, high
	}
	hi, lo := int(poker.Ace-high), int(poker.Ace-low)
	switch {
	case high == low:
		return HandClass(hi*13 + hi)
	case suited:
		return HandClass(hi*13 + lo)
	default:
		return HandClass(lo*13 + hi)
	}
}

// ClassOf returns the class of two hole cards.
func ClassOf(a, b poker.Card) HandClass {
	return NewHandClass(a.Rank(), b.Rank(), a.Suit() == b.Suit())
}

// Grid returns the row and column of the class in the 13x13 grid.
func (c HandClass) Grid() (row, col int) {
	return int(c) / 13, int(c) % 13
}

// Ranks returns the high and low ranks of the class.
func (c HandClass) Ranks() (high, low uint8) {
	row, col := c.Grid()
	a, b := poker.Ace-uint8(row), poker.Ace-uint8(col)
	if a < b {
		a, b = b, a
	}
	return a, b
}

// IsPair reports whether both cards share a rank.
func (c HandClass) IsPair() bool {
	row, col := c.Grid()
	return row == col
}

// IsSuited reports whether the class is a suited non-pair.
func (c HandClass) IsSuited() bool {
	row, col := c.Grid()
	return row < col
}

// IsOffsuit reports whether the class is an offsuit non-pair.
func (c HandClass) IsOffsuit() bool {
	row, col := c.Grid()
	return row > col
}

// ComboCount is the number of unblocked combos in the class.
func (c HandClass) ComboCount() int {
	switch {
	case c.IsPair():
		return 6
	case c.IsSuited():
		return 4
	default:
		return 12
	}
}

// Valid reports whether c is one of the 169 classes.
func (c HandClass) Valid() bool {
	return int(c) < NumClasses
}

func (c HandClass) String() string {
	if !c.Valid() {
		return "??"
	}
	high, low := c.Ranks()
	s := string([]byte{poker.RankChar(high), poker.RankChar(low)})
	switch {
	case c.IsSuited():
		s += "s"
	case c.IsOffsuit():
		s += "o"
	}
	return s
}

// MarshalText encodes the class as its token.
func (c HandClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid hand class %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class token.
func (c *HandClass) UnmarshalText(text []byte) error {
	parsed, err := ParseHandClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHandClass parses tokens such as "KK", "AKs" and "T9o". Ranks may be
// given in either order.
func ParseHandClass(s string) (HandClass, error) {
	if len(s) < 2 || len(s) > 3 {
		return 0, &ParseError{Token: s, Reason: "expected two ranks and an optional s/o suffix"}
	}

	rank1, ok1 := poker.ParseRank(s[0])
	rank2, ok2 := poker.ParseRank(s[1])
	if !ok1 || !ok2 {
		return 0, &ParseError{Token: s, Reason: "unknown rank"}
	}

	if rank1 == rank2 {
		if len(s) == 3 {
			return 0, &ParseError{Token: s, Reason: "pairs cannot be suited or offsuit"}
		}
		return NewHandClass(rank1, rank2, false), nil
	}

	if len(s) == 2 {
		return 0, &ParseError{Token: s, Reason: "unpaired class needs an s or o suffix"}
	}

	switch s[2] {
	case 's', 'S':
		return NewHandClass(rank1, rank2, true), nil
	case 'o', 'O':
		return NewHandClass(rank1, rank2, false), nil
	default:
		return 0, &ParseError{Token: s, Reason: fmt.Sprintf("unknown modifier %q", s[2])}
	}
}

// AllClasses returns every class in grid order.
func AllClasses() []HandClass {
	classes := make([]HandClass, NumClasses)
	for i := range classes {
		classes[i] = HandClass(i)
	}
	return classes
}
