package analytics

import "strings"

// Glossary explains the poker terms used in insight tags.
var Glossary = map[string]string{
	"Wet Board":       "A board texture with many potential draws (straights, flushes). Hand values can change rapidly on future streets.",
	"Dry Board":       "A static board texture where made hands are unlikely to be outdrawn. Good for bluffs.",
	"Monotone":        "A board where all cards are the same suit, heavily favoring flushes.",
	"Paired Board":    "The board contains a pair (e.g., 8-8-K). This drastically increases the risk of Full Houses.",
	"Dynamic Texture": "A board with high cards and draws that interacts heavily with strong pre-flop ranges.",
	"Static Texture":  "A board that is unlikely to change the nuts on future streets.",
	"Range Advantage": "When one player's range contains a significantly higher proportion of strong hands than the opponent's.",
	"Nut Advantage":   "When one player holds more of the strongest possible hands (the nuts) than the opponent.",
	"Polarized":       "A range constructed mostly of very strong hands and bluffs, lacking medium-strength hands.",
	"Capped":          "A range that mathematically cannot contain the strongest possible hands (usually due to a lack of raising pre-flop).",
	"Value Bet":       "Betting with a hand you expect to be ahead of the opponent's calling range.",
	"Protection":      "Betting a made hand to force opponent folds and deny them their equity (prevent them from hitting a lucky card).",
	"Semi-Bluff":      "Betting with a drawing hand (like a flush draw) that isn't the best now but has a good chance to improve.",
	"Equity":          "The percentage share of the pot a hand expects to win in the long run.",
	"Draw Heavy":      "A situation where many cards in the deck will complete a straight or flush.",
}

// Explain returns the glossary entry for a tag. Tags such as
// "Wet Board (Flush Possible)" or "Hero Capped" match the longest glossary
// term they contain.
func Explain(tag string) (string, bool) {
	if text, ok := Glossary[tag]; ok {
		return text, true
	}

	best := ""
	for term := range Glossary {
		if strings.Contains(tag, term) && len(term) > len(best) {
			best = term
		}
	}
	if best == "" {
		return "", false
	}
	return Glossary[best], true
}
