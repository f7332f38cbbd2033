package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/jsadump/internal/valid"
	"github.com/mabhi256/jsadump/utils"
)

// Summary counts verdicts over a class list.
type Summary struct {
	Total         int
	Accepted      int
	Invalid       int
	Indeterminate int
	NoSource      int

	// RejectedBySource counts rejected entries per source jar.
	RejectedBySource map[string]int
}

func Summarize(items []Item) Summary {
	s := Summary{Total: len(items), RejectedBySource: make(map[string]int)}
	for _, it := range items {
		if it.Entry.Source == "" {
			s.NoSource++
		}
		switch it.Verdict {
		case valid.Valid:
			s.Accepted++
			continue
		case valid.Invalid:
			s.Invalid++
		case valid.Indeterminate:
			s.Indeterminate++
		}
		s.RejectedBySource[it.Entry.Source]++
	}
	return s
}

// Rejected is the number of entries the chain would drop.
func (s Summary) Rejected() int {
	return s.Invalid + s.Indeterminate
}

// TopSources returns up to n sources with the most rejected entries.
func (s Summary) TopSources(n int) []string {
	sources := slices.Collect(maps.Keys(s.RejectedBySource))
	slices.SortFunc(sources, func(a, b string) int {
		if d := s.RejectedBySource[b] - s.RejectedBySource[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	if n >= 0 && len(sources) > n {
		sources = sources[:n]
	}
	return sources
}

// Chart draws the verdict counts as a bar chart.
func Chart(s Summary, width, height int) string {
	bars := []barchart.BarData{
		bar("accepted", s.Accepted, utils.GoodColor),
		bar("invalid", s.Invalid, utils.CriticalColor),
		bar("unknown", s.Indeterminate, utils.WarningColor),
	}

	bc := barchart.New(width, height, barchart.WithStyles(utils.MutedStyle, utils.TextStyle))
	bc.PushAll(bars)
	bc.Draw()
	return bc.View()
}

func bar(label string, n int, color lipgloss.Color) barchart.BarData {
	return barchart.BarData{
		Label: fmt.Sprintf("%s %d", label, n),
		Values: []barchart.BarValue{{
			Name:  label,
			Value: float64(n),
			Style: lipgloss.NewStyle().Foreground(color),
		}},
	}
}

// RenderPlain renders the summary as styled text for non-interactive output.
func RenderPlain(title string, s Summary, width int) string {
	var b strings.Builder

	b.WriteString(utils.TitleStyle.Render("📋 "+title) + "\n\n")

	barWidth := max(10, min(40, width-40))
	row := func(label string, n int, color lipgloss.Color) {
		ratio := 0.0
		if s.Total > 0 {
			ratio = float64(n) / float64(s.Total)
		}
		fmt.Fprintf(&b, "  %-15s %s %6d (%5.1f%%)\n",
			label, utils.CreateProgressBar(ratio, barWidth, color), n, ratio*100)
	}
	row("Accepted", s.Accepted, utils.GoodColor)
	row("Invalid", s.Invalid, utils.CriticalColor)
	row("Indeterminate", s.Indeterminate, utils.WarningColor)

	fmt.Fprintf(&b, "\n  %s %d classes, %d without source\n",
		utils.MutedStyle.Render("Total:"), s.Total, s.NoSource)

	if top := s.TopSources(5); len(top) > 0 {
		b.WriteString("\n" + utils.WarningStyle.Render("  Rejected sources") + "\n")
		for _, src := range top {
			fmt.Fprintf(&b, "  %6d  %s\n", s.RejectedBySource[src], utils.TruncateLeft(src, max(20, width-12)))
		}
	}
	return b.String()
}
