package utils

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	CriticalColor = lipgloss.Color("#CC3333") // Dark red
	WarningColor  = lipgloss.Color("#FF8800") // Orange
	GoodColor     = lipgloss.Color("#228B22") // Forest green
	InfoColor     = lipgloss.Color("#4682B4") // Steel blue
	TextColor     = lipgloss.Color("#CCCCCC") // Light gray
	MutedColor    = lipgloss.Color("#888888") // Medium gray
	BorderColor   = lipgloss.Color("#666666") // Dark gray
)

var (
	CriticalStyle = lipgloss.NewStyle().Foreground(CriticalColor).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	GoodStyle     = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	TextStyle     = lipgloss.NewStyle().Foreground(TextColor)
)

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(InfoColor).
			Padding(0, 1).
			Bold(true)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("#1a1a1a")).
			Bold(true).
			Padding(0, 1)

	HelpBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)
)

var supportsUnicode = detectUnicode()

// detectUnicode guesses from the locale whether block characters render.
func detectUnicode() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			v = strings.ToUpper(v)
			return strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8")
		}
	}
	return os.Getenv("TERM") != "" && os.Getenv("TERM") != "dumb"
}

// CreateProgressBar renders a horizontal bar filled to percentage (0..1).
func CreateProgressBar(percentage float64, width int, color lipgloss.Color) string {
	if width < 4 {
		return fmt.Sprintf("%.0f%%", percentage*100)
	}

	fill, empty := "█", "░"
	if !supportsUnicode {
		fill, empty = "#", "-"
	}

	filled := int(math.Round(percentage * float64(width)))
	filled = max(0, min(filled, width))

	bar := strings.Repeat(fill, filled) + strings.Repeat(empty, width-filled)
	if color != "" {
		bar = lipgloss.NewStyle().Foreground(color).Render(bar)
	}
	return bar
}

// VerdictStyle returns the style for a validation verdict name.
func VerdictStyle(verdict string) lipgloss.Style {
	switch strings.ToLower(verdict) {
	case "invalid", "signed", "failed":
		return CriticalStyle
	case "indeterminate", "unknown":
		return WarningStyle
	case "valid", "unsigned", "done":
		return GoodStyle
	default:
		return InfoStyle
	}
}

// TruncateLeft keeps the end of s, which for paths is the informative part.
func TruncateLeft(s string, maxWidth int) string {
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth < 4 {
		return strings.Repeat(".", max(maxWidth, 0))
	}
	r := []rune(s)
	return "..." + string(r[len(r)-maxWidth+3:])
}
