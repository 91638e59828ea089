package poker

import (
	rand "math/rand/v2"
)

// FullDeck is the 52-card deck in canonical order (clubs first, deuce to ace).
var FullDeck = func() [52]Card {
	var cards [52]Card
	i := 0
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return cards
}()

// AllCards is the hand containing every card.
const AllCards Hand = (1 << 52) - 1

// Remaining returns the cards not in excluded, in canonical order.
// The returned slice is freshly allocated; FullDeck is never modified.
func Remaining(excluded Hand) []Card {
	cards := make([]Card, 0, 52-(excluded&AllCards).CountCards())
	for _, c := range FullDeck {
		if !excluded.HasCard(c) {
			cards = append(cards, c)
		}
	}
	return cards
}

// Deck deals cards without replacement from a fixed set of cards. Every deal
// is one Fisher-Yates step, so dealing k cards costs k random draws and Reset
// makes the whole set available again without reshuffling.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeckWithout creates a deck holding every card except excluded. A nil rng
// uses the global source.
func NewDeckWithout(rng *rand.Rand, excluded Hand) *Deck {
	return &Deck{
		cards: Remaining(excluded),
		rng:   rng,
	}
}

// DealOne deals a single card. ok is false once the deck is empty.
func (d *Deck) DealOne() (card Card, ok bool) {
	left := len(d.cards) - d.next
	if left <= 0 {
		return 0, false
	}
	var j int
	if d.rng != nil {
		j = d.next + d.rng.IntN(left)
	} else {
		j = d.next + rand.IntN(left)
	}
	d.cards[d.next], d.cards[j] = d.cards[j], d.cards[d.next]
	card = d.cards[d.next]
	d.next++
	return card, true
}

// Deal deals n cards that are not in avoid. Avoided cards that come up are
// discarded, which keeps the result uniform over the cards outside avoid.
// ok is false if the deck runs out first.
func (d *Deck) Deal(n int, avoid Hand) (dealt Hand, ok bool) {
	for dealt.CountCards() < n {
		card, ok := d.DealOne()
		if !ok {
			return dealt, false
		}
		if !avoid.HasCard(card) {
			dealt.AddCard(card)
		}
	}
	return dealt, true
}

// Reset returns every dealt card to the deck.
func (d *Deck) Reset() {
	d.next = 0
}
