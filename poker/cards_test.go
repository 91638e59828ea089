package poker

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/lox/rangelab/internal/randutil"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	// Test card creation
	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank() != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank())
	}
	if aceSpades.Suit() != Spades {
		t.Errorf("Expected suit Spades, got %d", aceSpades.Suit())
	}

	// Test string representation
	if aceSpades.String() != "As" {
		t.Errorf("Expected 'As', got %s", aceSpades.String())
	}

	// Test two of clubs (lowest card)
	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2c" {
		t.Errorf("Expected '2c', got %s", twoClubs.String())
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		input       string
		wantCard    Card
		wantErr     bool
		description string
	}{
		{
			name:        "ace of spades",
			input:       "As",
			wantCard:    NewCard(12, 3), // Ace=12, Spades=3
			wantErr:     false,
			description: "Parse highest card",
		},
		{
			name:        "two of hearts",
			input:       "2h",
			wantCard:    NewCard(0, 2), // Two=0, Hearts=2
			wantErr:     false,
			description: "Parse lowest card",
		},
		{
			name:        "king of diamonds",
			input:       "Kd",
			wantCard:    NewCard(11, 1), // King=11, Diamonds=1
			wantErr:     false,
			description: "Parse face card",
		},
		{
			name:        "ten of clubs",
			input:       "Tc",
			wantCard:    NewCard(8, 0), // Ten=8, Clubs=0
			wantErr:     false,
			description: "Parse ten with T notation",
		},
		{
			name:        "nine of spades",
			input:       "9s",
			wantCard:    NewCard(7, 3), // Nine=7, Spades=3
			wantErr:     false,
			description: "Parse number card",
		},
		{
			name:        "invalid rank",
			input:       "Xs",
			wantCard:    0,
			wantErr:     true,
			description: "Should error on invalid rank",
		},
		{
			name:        "invalid suit",
			input:       "Ax",
			wantCard:    0,
			wantErr:     true,
			description: "Should error on invalid suit",
		},
		{
			name:        "empty string",
			input:       "",
			wantCard:    0,
			wantErr:     true,
			description: "Should error on empty string",
		},
		{
			name:        "too short",
			input:       "A",
			wantCard:    0,
			wantErr:     true,
			description: "Should error on single character",
		},
		{
			name:        "too long",
			input:       "Asd",
			wantCard:    0,
			wantErr:     true,
			description: "Should error on too many characters",
		},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v (%s)", tc.input, err, tc.wantErr, tc.description)
			}
			if tc.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) || perr.Token != tc.input {
					t.Errorf("ParseCard(%q) should return a ParseError naming the token, got %v", tc.input, err)
				}
				return
			}
			if card != tc.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, card, tc.wantCard)
			}
		})
	}
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	// Test all 52 cards encode/decode correctly
	cards := make(map[string]bool)

	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			card := NewCard(rank, suit)
			str := card.String()

			// Check no duplicates
			if cards[str] {
				t.Errorf("Duplicate card: %s", str)
			}
			cards[str] = true

			// Test round-trip
			parsed, err := ParseCard(str)
			if err != nil {
				t.Errorf("Failed to parse %s: %v", str, err)
			}
			if parsed != card {
				t.Errorf("Round-trip failed for %s", str)
			}
		}
	}

	if len(cards) != 52 {
		t.Errorf("Expected 52 unique cards, got %d", len(cards))
	}
}

func TestHandOperations(t *testing.T) {
	t.Parallel()
	aceSpades, _ := ParseCard("As")
	kingHearts, _ := ParseCard("Kh")
	queenDiamonds, _ := ParseCard("Qd")

	// Test creating hand from cards
	hand := NewHand(aceSpades, kingHearts)

	if !hand.HasCard(aceSpades) {
		t.Error("Hand should contain Ace of Spades")
	}
	if !hand.HasCard(kingHearts) {
		t.Error("Hand should contain King of Hearts")
	}
	if hand.HasCard(queenDiamonds) {
		t.Error("Hand should not contain Queen of Diamonds")
	}

	// Test card count
	if hand.CountCards() != 2 {
		t.Errorf("Hand should have 2 cards, got %d", hand.CountCards())
	}

	// Add another card
	hand.AddCard(queenDiamonds)
	if !hand.HasCard(queenDiamonds) {
		t.Error("Hand should now contain Queen of Diamonds")
	}
	if hand.CountCards() != 3 {
		t.Errorf("Hand should have 3 cards, got %d", hand.CountCards())
	}
}

func TestHandBitset(t *testing.T) {
	t.Parallel()
	// Test that different cards use different bits
	aceSpades, _ := ParseCard("As")
	aceHearts, _ := ParseCard("Ah")
	twoClubs, _ := ParseCard("2c")

	// Cards should be single bits
	if bits.OnesCount64(uint64(aceSpades)) != 1 {
		t.Error("Card should be a single bit")
	}

	// No overlap between different cards
	if aceSpades&aceHearts != 0 {
		t.Error("Different cards should not share bits")
	}
	if aceSpades&twoClubs != 0 {
		t.Error("Different cards should not share bits")
	}
	if aceHearts&twoClubs != 0 {
		t.Error("Different cards should not share bits")
	}

	// Combining should preserve all cards
	combined := Hand(aceSpades) | Hand(aceHearts) | Hand(twoClubs)
	if combined.CountCards() != 3 {
		t.Errorf("Combined hand should have 3 cards, got %d", combined.CountCards())
	}
}

func TestGetSuitMask(t *testing.T) {
	t.Parallel()
	// Create a hand with specific cards
	cards := []Card{}

	// Add all spades
	for rank := uint8(0); rank < 13; rank++ {
		cards = append(cards, NewCard(rank, Spades))
	}

	hand := NewHand(cards...)

	// Check spades mask has all 13 bits set
	spadesMask := hand.GetSuitMask(Spades)
	if spadesMask != 0x1FFF { // 13 bits all set
		t.Errorf("Expected all spades, got mask %016b", spadesMask)
	}

	// Check other suits are empty
	if hand.GetSuitMask(Hearts) != 0 {
		t.Error("Hearts should be empty")
	}
}

func TestDeck(t *testing.T) {
	t.Parallel()
	board := mustHand(t, "As Kd 2c")
	deck := NewDeckWithout(randutil.New(42), board)

	first, ok := deck.Deal(2, 0)
	if !ok || first.CountCards() != 2 {
		t.Fatalf("Deal(2) = %s, %v", first, ok)
	}
	second, ok := deck.Deal(3, 0)
	if !ok || second.CountCards() != 3 {
		t.Fatalf("Deal(3) = %s, %v", second, ok)
	}
	if first.Overlaps(second) || first.Overlaps(board) || second.Overlaps(board) {
		t.Error("dealt a card twice or a board card")
	}

	rest, ok := deck.Deal(44, 0)
	if !ok || rest.CountCards() != 44 {
		t.Fatalf("expected the 44 remaining cards, got %d", rest.CountCards())
	}
	if _, ok := deck.DealOne(); ok {
		t.Error("should not be able to deal from an empty deck")
	}
	if _, ok := deck.Deal(1, 0); ok {
		t.Error("Deal should report an exhausted deck")
	}

	deck.Reset()
	if again, ok := deck.Deal(49, 0); !ok || again|board != AllCards {
		t.Error("Reset should return every dealt card")
	}
}

func TestDeckDealAvoids(t *testing.T) {
	t.Parallel()
	avoid := mustHand(t, "Ah Ac Kh Kc")
	deck := NewDeckWithout(randutil.New(1), 0)
	for range 500 {
		deck.Reset()
		dealt, ok := deck.Deal(5, avoid)
		if !ok || dealt.CountCards() != 5 {
			t.Fatalf("Deal(5) = %s, %v", dealt, ok)
		}
		if dealt.Overlaps(avoid) {
			t.Fatalf("dealt avoided card in %s", dealt)
		}
	}
}

func TestDeckDealIsUniform(t *testing.T) {
	t.Parallel()
	deck := NewDeckWithout(randutil.New(9), mustHand(t, "2c 3c"))
	var counts [52]int
	const deals = 50_000
	for range deals {
		deck.Reset()
		dealt, _ := deck.Deal(1, mustHand(t, "4c"))
		counts[dealt.Cards()[0].Index()]++
	}

	// 49 eligible cards, about 1020 each.
	for _, c := range FullDeck {
		n := counts[c.Index()]
		switch c.String() {
		case "2c", "3c", "4c":
			if n != 0 {
				t.Errorf("%s dealt %d times", c, n)
			}
		default:
			if n < 850 || n > 1200 {
				t.Errorf("%s dealt %d times, want about %d", c, n, deals/49)
			}
		}
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "AsKd2c", want: "As Kd 2c"},
		{input: "As Kd, 2c", want: "As Kd 2c"},
		{input: "", want: ""},
		{input: "AsK", wantErr: true},
		{input: "AsAs", wantErr: true},
		{input: "As1d", wantErr: true},
	}

	for _, tc := range tests {
		cards, err := ParseCards(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseCards(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if err == nil && FormatCards(cards) != tc.want {
			t.Errorf("ParseCards(%q) = %q, want %q", tc.input, FormatCards(cards), tc.want)
		}
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()
	board, err := ParseCards("AsKs2s")
	if err != nil {
		t.Fatal(err)
	}
	before := FullDeck

	remaining := Remaining(NewHand(board...))
	if len(remaining) != 49 {
		t.Fatalf("Expected 49 remaining cards, got %d", len(remaining))
	}
	for _, c := range remaining {
		for _, b := range board {
			if c == b {
				t.Errorf("Remaining returned excluded card %s", c)
			}
		}
	}
	if FullDeck != before {
		t.Error("Remaining must not modify the base deck")
	}
	if len(Remaining(0)) != 52 {
		t.Error("Remaining with no exclusions should return the full deck")
	}
}

func TestValidateBoard(t *testing.T) {
	t.Parallel()
	six, _ := ParseCards("AsKsQsJsTs9s")
	if err := ValidateBoard(six); err == nil {
		t.Error("Expected error for six card board")
	}
	as := NewCard(Ace, Spades)
	if err := ValidateBoard([]Card{as, as}); err == nil {
		t.Error("Expected error for duplicate board card")
	}
	if err := ValidateBoard(nil); err != nil {
		t.Errorf("Empty board should be valid: %v", err)
	}
}

func TestHandCards(t *testing.T) {
	t.Parallel()
	cards, _ := ParseCards("2c Ah Ks")
	hand := NewHand(cards...)
	if got := hand.String(); got != "2c Ah Ks" {
		t.Errorf("Hand.String() = %q, want %q", got, "2c Ah Ks")
	}
}

func BenchmarkCardCreation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewCard(Ace, Spades)
	}
}

func BenchmarkCardString(b *testing.B) {
	card := NewCard(Ace, Spades)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = card.String()
	}
}

func BenchmarkParseCard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseCard("As")
	}
}

func BenchmarkHandOperations(b *testing.B) {
	c1 := NewCard(Ace, Spades)
	c2 := NewCard(King, Hearts)
	c3 := NewCard(Queen, Diamonds)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hand := NewHand(c1, c2)
		hand.AddCard(c3)
		_ = hand.CountCards()
		_ = hand.HasCard(c1)
	}
}
