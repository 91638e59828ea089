// Package analytics turns equity numbers and a board into strategic commentary:
// board texture, range comparison tags and a bet/check recommendation.
package analytics

import (
	"fmt"
	"strings"

	"github.com/lox/rangelab/internal/classification"
	"github.com/lox/rangelab/internal/equity"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/poker"
)

// Board textures.
const (
	TextureNeutral   = "Neutral"
	TextureWet       = "Wet / Monotone"
	TextureDrawHeavy = "Draw Heavy"
	TexturePaired    = "Paired"
)

// Insight tags.
const (
	TagWetBoard         = "Wet Board (Flush Possible)"
	TagDrawHeavy        = "Draw Heavy"
	TagPairedBoard      = "Paired Board"
	TagDynamicTexture   = "Dynamic Texture"
	TagStaticTexture    = "Static Texture"
	TagHeroAdvantage    = "Hero Range Advantage"
	TagPolarized        = "Polarized"
	TagVillainAdvantage = "Villain Range Advantage"
	TagHeroCapped       = "Hero Capped"
)

// Recommendation is a discrete action label with the phrase used in prose.
type Recommendation struct {
	Label  string
	Action string
}

var (
	ValueBet    = Recommendation{Label: "Value Bet (Ahead)", Action: "value bet aggressively"}
	ThinValue   = Recommendation{Label: "Thin Value / Protection", Action: "bet small for protection"}
	PotControl  = Recommendation{Label: "Call / Pot Control", Action: "check-call or pot control"}
	CheckFold   = Recommendation{Label: "Check / Fold (Behind)", Action: "check-fold"}
	recommended = []struct {
		min float64
		rec Recommendation
	}{
		{60, ValueBet},
		{53, ThinValue},
		{45, PotControl},
	}
)

// Recommend maps hero equity in percent to an action.
func Recommend(heroEquity float64) Recommendation {
	for _, r := range recommended {
		if heroEquity >= r.min {
			return r.rec
		}
	}
	return CheckFold
}

// Input is everything the rules need. Range sizes count included hand
// classes; a villain size of 0 means an unconstrained opponent.
type Input struct {
	Equity           equity.EquityResult
	Board            []poker.Card
	HeroRangeSize    int
	VillainRangeSize int
	TopPairFrequency float64
}

// Analysis is the commentary derived from one equity result.
type Analysis struct {
	Texture          string         `json:"texture"`
	Wetness          string         `json:"wetness"`
	Insights         []string       `json:"insights"`
	Recommendation   Recommendation `json:"-"`
	DetailedAnalysis string         `json:"detailedAnalysis"`
}

// Analyze applies the texture, range and recommendation rules.
func Analyze(in Input) Analysis {
	board := poker.NewHand(in.Board...)
	texture, insights := boardTexture(board, len(in.Board))

	comparison, rangeTags := compareRanges(in.HeroRangeSize, in.VillainRangeSize)
	insights = append(insights, rangeTags...)

	rec := Recommend(in.Equity.HeroEquity)

	return Analysis{
		Texture:          texture,
		Wetness:          classification.AnalyzeWetness(board).String(),
		Insights:         insights,
		Recommendation:   rec,
		DetailedAnalysis: explain(in, texture, comparison, rec),
	}
}

// boardTexture runs the checks in order; the last texture set wins.
func boardTexture(board poker.Hand, cards int) (string, []string) {
	texture := TextureNeutral
	insights := []string{}
	if cards < 3 {
		return texture, insights
	}

	switch flush := classification.AnalyzeFlushPotential(board); {
	case flush.MaxSuitCount >= 3:
		insights = append(insights, TagWetBoard)
		texture = TextureWet
	case flush.MaxSuitCount == 2:
		insights = append(insights, TagDrawHeavy)
		texture = TextureDrawHeavy
	}

	if classification.CountPairs(board) > 0 {
		insights = append(insights, TagPairedBoard)
		texture = TexturePaired
	}

	switch high := classification.CountHighCards(board, poker.Jack); {
	case high >= 2:
		insights = append(insights, TagDynamicTexture)
	case high == 0:
		insights = append(insights, TagStaticTexture)
	}

	return texture, insights
}

func compareRanges(hero, villain int) (string, []string) {
	if villain == 0 {
		villain = ranges.NumClasses
	}
	switch {
	case float64(hero) < 0.5*float64(villain):
		return "Hero is significantly narrower and stronger (Polarized)", []string{TagHeroAdvantage, TagPolarized}
	case float64(villain) < 0.5*float64(hero):
		return "Villain range is stronger, Hero appears Capped", []string{TagVillainAdvantage, TagHeroCapped}
	default:
		return "Ranges are similar", nil
	}
}

func explain(in Input, texture, comparison string, rec Recommendation) string {
	risk := "little risk of bad runouts"
	if strings.Contains(texture, "Wet") || strings.Contains(texture, "Draw") {
		risk = "significant risk of opponent improvement"
	}

	closing := "The opponent likely has better coverage of this board."
	if in.Equity.HeroEquity > 60 {
		closing = "Your range connects better with this board texture than the opponent."
	}

	return fmt.Sprintf(
		"Hero holds %.1f%% equity on this %s board. %s. Given the %s nature of the board, there is %s. "+
			"Your range hits Top Pair or better approximately %.1f%% of the time on this texture. "+
			"The model suggests to %s. %s",
		in.Equity.HeroEquity, texture, comparison, strings.ToLower(texture), risk,
		in.TopPairFrequency, rec.Action, closing)
}
