package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card represents a single card as one bit in a uint64.
// Layout: [13 clubs][13 diamonds][13 hearts][13 spades], ranks 0-12 for deuce through ace.
type Card uint64

// Hand is a set of cards, one bit per card.
type Hand uint64

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"

	// RankMask covers the 13 rank bits of one suit.
	RankMask = 0x1FFF
)

// ParseError reports a malformed card token.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid card %q: %s", e.Token, e.Reason)
}

// NewCard creates a card from rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (suit*13 + rank)
}

// Index returns the bit position of the card (0-51), or 255 for the zero card.
func (c Card) Index() uint8 {
	if c == 0 {
		return 255
	}
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Rank returns the rank of the card (0-12).
func (c Card) Rank() uint8 {
	idx := c.Index()
	if idx == 255 {
		return 255
	}
	return idx % 13
}

// Suit returns the suit of the card (0-3).
func (c Card) Suit() uint8 {
	idx := c.Index()
	if idx == 255 {
		return 255
	}
	return idx / 13
}

// String returns the canonical two character token, e.g. "As" or "Td".
func (c Card) String() string {
	rank, suit := c.Rank(), c.Suit()
	if rank > 12 || suit > 3 || bits.OnesCount64(uint64(c)) != 1 {
		return "??"
	}
	return string(rankChars[rank]) + string(suitChars[suit])
}

// MarshalText encodes the card as its token.
func (c Card) MarshalText() ([]byte, error) {
	if c.String() == "??" {
		return nil, fmt.Errorf("invalid card value %d", uint64(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card token.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseRank converts a rank character to its 0-12 value.
func ParseRank(ch byte) (uint8, bool) {
	switch ch {
	case 't':
		ch = 'T'
	case 'j':
		ch = 'J'
	case 'q':
		ch = 'Q'
	case 'k':
		ch = 'K'
	case 'a':
		ch = 'A'
	}
	idx := strings.IndexByte(rankChars, ch)
	if idx < 0 {
		return 0, false
	}
	return uint8(idx), true
}

// RankChar returns the display character for a rank.
func RankChar(rank uint8) byte {
	if rank > 12 {
		return '?'
	}
	return rankChars[rank]
}

// ParseCard parses a string like "As" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, &ParseError{Token: s, Reason: "expected rank and suit"}
	}

	rank, ok := ParseRank(s[0])
	if !ok {
		return 0, &ParseError{Token: s, Reason: fmt.Sprintf("unknown rank %q", s[0])}
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, &ParseError{Token: s, Reason: fmt.Sprintf("unknown suit %q", s[1])}
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a run of card tokens. Tokens may be concatenated ("AsKd2c")
// or separated by spaces or commas ("As Kd, 2c"). Duplicates are rejected.
func ParseCards(s string) ([]Card, error) {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == ',' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if len(compact)%2 != 0 {
		return nil, &ParseError{Token: s, Reason: "odd number of characters"}
	}

	cards := make([]Card, 0, len(compact)/2)
	var seen Hand
	for i := 0; i < len(compact); i += 2 {
		card, err := ParseCard(compact[i : i+2])
		if err != nil {
			return nil, err
		}
		if seen.HasCard(card) {
			return nil, &ParseError{Token: compact[i : i+2], Reason: "duplicate card"}
		}
		seen.AddCard(card)
		cards = append(cards, card)
	}
	return cards, nil
}

// FormatCards joins card tokens with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// NewHand creates a hand from multiple cards
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard checks if the hand contains a specific card
func (h Hand) HasCard(c Card) bool {
	return (h & Hand(c)) != 0
}

// Overlaps reports whether two hands share any card.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// CountCards returns the number of cards in the hand
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the ranks held in one suit as a 13-bit mask
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16((h >> (suit * 13)) & RankMask)
}

// GetRankMask returns a bitmask of which ranks are present. When an ace is
// present bit 13 is also set so straight scans can treat it as high.
func (h Hand) GetRankMask() uint16 {
	var mask uint16
	for suit := uint8(0); suit < 4; suit++ {
		mask |= h.GetSuitMask(suit)
	}
	if mask&(1<<Ace) != 0 {
		mask |= 1 << 13
	}
	return mask
}

// Cards lists the cards in the hand in bit order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for rest := uint64(h); rest != 0; rest &= rest - 1 {
		cards = append(cards, Card(rest&-rest))
	}
	return cards
}

// String renders the hand's cards in bit order.
func (h Hand) String() string {
	return FormatCards(h.Cards())
}

// ValidateBoard checks that a community board has at most five distinct cards.
func ValidateBoard(board []Card) error {
	if len(board) > 5 {
		return fmt.Errorf("board has %d cards, at most 5 allowed", len(board))
	}
	var seen Hand
	for _, c := range board {
		if c == 0 || bits.OnesCount64(uint64(c)) != 1 {
			return fmt.Errorf("board contains an invalid card value")
		}
		if seen.HasCard(c) {
			return &ParseError{Token: c.String(), Reason: "duplicate card on board"}
		}
		seen.AddCard(c)
	}
	return nil
}
