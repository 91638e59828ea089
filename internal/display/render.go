// Package display renders analysis results and scenarios for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/rangelab/internal/analytics"
	"github.com/lox/rangelab/internal/engine"
	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/internal/scenario"
	"github.com/lox/rangelab/poker"
)

// Styles holds the colours used for terminal output.
type Styles struct {
	Header   lipgloss.Style
	Hand     lipgloss.Style
	Win      lipgloss.Style
	Lose     lipgloss.Style
	Tie      lipgloss.Style
	Category lipgloss.Style
	Percent  lipgloss.Style
	Tag      lipgloss.Style
	Muted    lipgloss.Style
	RedCard  lipgloss.Style
}

// NewStyles builds styles bound to renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Hand:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Win:      r.NewStyle().Foreground(lipgloss.Color("10")),
		Lose:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Tie:      r.NewStyle().Foreground(lipgloss.Color("11")),
		Category: r.NewStyle().Foreground(lipgloss.Color("12")),
		Percent:  r.NewStyle().Foreground(lipgloss.Color("13")),
		Tag:      r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		RedCard:  r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
	}
}

// Printer writes styled output to w.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer. With noColor every style renders as plain
// text.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, styles: NewStyles(r)}
}

// Result prints an equity analysis.
func (p *Printer) Result(hero, villain ranges.Range, board []poker.Card, res *engine.AnalysisResult, elapsed time.Duration) {
	s := p.styles

	if len(board) > 0 {
		fmt.Fprintf(p.w, "%s\n%s\n\n", s.Header.Render("board"), p.cards(board))
	}

	villainLabel := villain.String()
	if villain.IsEmpty() {
		villainLabel = "any two cards"
	}

	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n", s.Header.Render("side"), s.Header.Render("equity"), s.Header.Render("range"))
	fmt.Fprintf(w, "%s\t%s\t%s\n", s.Hand.Render("hero"), s.Win.Render(percent(res.HeroEquity)), abbreviate(hero.String()))
	fmt.Fprintf(w, "%s\t%s\t%s\n", s.Hand.Render("villain"), s.Lose.Render(percent(res.VillainEquity)), abbreviate(villainLabel))
	fmt.Fprintf(w, "%s\t%s\t\n", s.Hand.Render("tie"), s.Tie.Render(percent(res.TieEquity)))
	_ = w.Flush()

	fmt.Fprintln(p.w)
	w = tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", s.Header.Render("hero hits"), s.Header.Render("share"))
	for _, stat := range res.HandStats {
		fmt.Fprintf(w, "%s\t%s\n", s.Category.Render(stat.Name), s.Percent.Render(percent(stat.Percentage)))
	}
	_ = w.Flush()

	fmt.Fprintf(p.w, "\n%s %s (%s)\n", s.Header.Render("texture"), res.Texture, strings.ToLower(res.Wetness))
	for _, tag := range res.Insights {
		line := "  " + s.Tag.Render(tag)
		if text, ok := analytics.Explain(tag); ok {
			line += " " + s.Muted.Render(text)
		}
		fmt.Fprintln(p.w, line)
	}

	fmt.Fprintf(p.w, "\n%s %s\n", s.Header.Render("recommendation"), res.Recommendation)
	fmt.Fprintf(p.w, "%s\n", res.DetailedAnalysis)

	footer := fmt.Sprintf("%s iterations in %v", res.Iterations, elapsed.Truncate(time.Millisecond))
	if res.Iterations.IsExact() {
		footer = fmt.Sprintf("exact enumeration in %v", elapsed.Truncate(time.Millisecond))
	}
	fmt.Fprintf(p.w, "\n%s\n", s.Muted.Render(footer))
}

// Scenarios prints saved scenarios, newest first.
func (p *Printer) Scenarios(list []scenario.Scenario) {
	s := p.styles
	if len(list) == 0 {
		fmt.Fprintln(p.w, s.Muted.Render("No saved scenarios yet."))
		return
	}

	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		s.Header.Render("id"), s.Header.Render("name"), s.Header.Render("saved"),
		s.Header.Render("hero"), s.Header.Render("villain"))
	for _, sc := range list {
		villain := sc.VillainRange.String()
		if sc.VillainRange.IsEmpty() {
			villain = "any"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Muted.Render(sc.ID),
			s.Hand.Render(sc.Name),
			sc.CreatedAt.Local().Format(time.DateTime),
			abbreviate(sc.HeroRange.String()),
			abbreviate(villain))
	}
	_ = w.Flush()
}

func (p *Printer) cards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit() == poker.Hearts || c.Suit() == poker.Diamonds {
			parts[i] = p.styles.RedCard.Render(c.String())
		} else {
			parts[i] = p.styles.Hand.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

const maxRangeWidth = 48

// abbreviate shortens long range listings for table cells.
func abbreviate(s string) string {
	if len(s) <= maxRangeWidth {
		return s
	}
	cut := strings.LastIndex(s[:maxRangeWidth], ",")
	if cut <= 0 {
		cut = maxRangeWidth
	}
	return s[:cut] + ", ..."
}
