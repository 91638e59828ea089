// Package vision defines the boundary to an image model that reads board
// cards off a table photograph.
package vision

import (
	"context"
	"errors"

	"github.com/lox/rangelab/poker"
)

// ErrEmptyImage is returned when no image data is supplied.
var ErrEmptyImage = errors.New("image is empty")

// Reading is what an oracle saw: the board cards and a short texture comment.
// Demo is set when the reading is canned rather than derived from the image.
type Reading struct {
	Board      []poker.Card `json:"board"`
	Commentary string       `json:"commentary"`
	Demo       bool         `json:"demo,omitempty"`
}

// Oracle turns an image into a Reading.
type Oracle interface {
	Analyze(ctx context.Context, image []byte) (Reading, error)
}

// DemoOracle answers every request with a fixed board. It stands in when no
// image model is configured.
type DemoOracle struct{}

var demoBoard = []poker.Card{
	poker.NewCard(poker.Ace, poker.Spades),
	poker.NewCard(poker.King, poker.Hearts),
	poker.NewCard(poker.Ten, poker.Clubs),
}

// Analyze returns the demo board for any non-empty image.
func (DemoOracle) Analyze(ctx context.Context, image []byte) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if len(image) == 0 {
		return Reading{}, ErrEmptyImage
	}
	return Reading{
		Board:      append([]poker.Card(nil), demoBoard...),
		Commentary: "Demo mode: configure an image model to enable board analysis.",
		Demo:       true,
	}, nil
}
