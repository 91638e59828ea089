package ranges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/rangelab/poker"
)

// ParseRange creates a range from standard poker notation.
// Examples: "AA,KK", "AKs,AKo", "TT+", "A5s-A2s", "KTs+", "22-66", "KQ".
// A part may carry a weight suffix ("AKo:0.5"). "random" or "any" selects
// every class and "top15%" the strongest 15% of starting combos.
func ParseRange(notation string) (Range, error) {
	var r Range

	for part := range strings.SplitSeq(notation, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := r.addRangePart(part); err != nil {
			return Range{}, err
		}
	}

	return r, nil
}

// MustParseRange is ParseRange that panics on error, for fixed tables and tests.
func MustParseRange(notation string) Range {
	r, err := ParseRange(notation)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Range) addRangePart(part string) error {
	weight := 1.0
	if body, w, ok := strings.Cut(part, ":"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil || !validWeight(parsed) {
			return &ParseError{Token: part, Reason: "weight must be a finite non-negative number"}
		}
		part, weight = strings.TrimSpace(body), parsed
	}

	switch strings.ToLower(part) {
	case "random", "any":
		for i := range r.weights {
			r.weights[i] = weight
		}
		return nil
	}

	top, isTop, err := parseTopPercent(part)
	if err != nil {
		return err
	}
	classes := top.Classes()
	if !isTop {
		if classes, err = expandNotation(part); err != nil {
			return err
		}
	}
	for _, c := range classes {
		r.weights[c] = weight
	}
	return nil
}

// parseTopPercent reads a "topN%" part. ok is false when part is not one.
func parseTopPercent(part string) (Range, bool, error) {
	lower := strings.ToLower(part)
	if !strings.HasPrefix(lower, "top") {
		return Range{}, false, nil
	}
	num := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(lower, "top"), "%"))
	pct, err := strconv.ParseFloat(num, 64)
	if err != nil || pct < 0 || pct > 100 {
		return Range{}, false, &ParseError{Token: part, Reason: "top percentage must be between 0 and 100"}
	}
	return TopPercent(pct), true, nil
}

// expandNotation lists the classes named by one notation part.
func expandNotation(part string) ([]HandClass, error) {
	if strings.HasSuffix(part, "+") {
		return expandPlus(part)
	}
	if strings.Contains(part, "-") {
		return expandDash(part)
	}
	return expandSingle(part)
}

type handToken struct {
	high, low       uint8
	suited, offsuit bool
}

func parseToken(part, s string) (handToken, error) {
	if len(s) < 2 || len(s) > 3 {
		return handToken{}, &ParseError{Token: part, Reason: "invalid notation length"}
	}
	rank1, ok1 := poker.ParseRank(s[0])
	rank2, ok2 := poker.ParseRank(s[1])
	if !ok1 || !ok2 {
		return handToken{}, &ParseError{Token: part, Reason: "unknown rank"}
	}

	tok := handToken{high: max(rank1, rank2), low: min(rank1, rank2)}
	if len(s) == 2 {
		tok.suited, tok.offsuit = true, true
		return tok, nil
	}
	if rank1 == rank2 {
		return handToken{}, &ParseError{Token: part, Reason: "pairs cannot be suited or offsuit"}
	}
	switch s[2] {
	case 's', 'S':
		tok.suited = true
	case 'o', 'O':
		tok.offsuit = true
	default:
		return handToken{}, &ParseError{Token: part, Reason: fmt.Sprintf("unknown modifier %q", s[2])}
	}
	return tok, nil
}

func (tok handToken) classes(low uint8) []HandClass {
	if tok.high == low {
		return []HandClass{NewHandClass(low, low, false)}
	}
	var out []HandClass
	if tok.suited {
		out = append(out, NewHandClass(tok.high, low, true))
	}
	if tok.offsuit {
		out = append(out, NewHandClass(tok.high, low, false))
	}
	return out
}

func expandSingle(part string) ([]HandClass, error) {
	tok, err := parseToken(part, part)
	if err != nil {
		return nil, err
	}
	return tok.classes(tok.low), nil
}

// expandPlus handles "TT+" (TT and every higher pair) and "KTs+" (the kicker
// climbs up to one below the top card).
func expandPlus(part string) ([]HandClass, error) {
	tok, err := parseToken(part, strings.TrimSuffix(part, "+"))
	if err != nil {
		return nil, err
	}

	var out []HandClass
	if tok.high == tok.low {
		for rank := tok.low; rank <= poker.Ace; rank++ {
			out = append(out, NewHandClass(rank, rank, false))
		}
		return out, nil
	}
	for kicker := tok.low; kicker < tok.high; kicker++ {
		out = append(out, tok.classes(kicker)...)
	}
	return out, nil
}

// expandDash handles "22-66" and "A5s-A2s".
func expandDash(part string) ([]HandClass, error) {
	from, to, _ := strings.Cut(part, "-")
	start, err := parseToken(part, strings.TrimSpace(from))
	if err != nil {
		return nil, err
	}
	end, err := parseToken(part, strings.TrimSpace(to))
	if err != nil {
		return nil, err
	}

	var out []HandClass
	switch {
	case start.high == start.low && end.high == end.low:
		for rank := min(start.low, end.low); rank <= max(start.low, end.low); rank++ {
			out = append(out, NewHandClass(rank, rank, false))
		}
	case start.high == end.high && start.high != start.low && end.high != end.low:
		if start.suited != end.suited || start.offsuit != end.offsuit {
			return nil, &ParseError{Token: part, Reason: "both ends must share the same suitedness"}
		}
		for kicker := min(start.low, end.low); kicker <= max(start.low, end.low); kicker++ {
			out = append(out, start.classes(kicker)...)
		}
	default:
		return nil, &ParseError{Token: part, Reason: "unsupported range format"}
	}
	return out, nil
}
