package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmark/internal/proficiency"
	"github.com/abhisek/quizmark/internal/trend"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Alert = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Card frames a report section.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// BandColor maps a proficiency band to its palette color.
func BandColor(b proficiency.Band) color.Color {
	switch b {
	case proficiency.Advanced:
		return Success
	case proficiency.Proficient:
		return Secondary
	case proficiency.Basic:
		return Warning
	default:
		return Error
	}
}

// Band renders s in the band's color.
func Band(b proficiency.Band, s string) string {
	return lipgloss.NewStyle().Foreground(BandColor(b)).Render(s)
}

// Percent renders a percentage colored by the band it falls in.
func Percent(p int) string {
	return lipgloss.NewStyle().
		Foreground(BandColor(proficiency.Classify(p))).
		Bold(true).
		Render(fmt.Sprintf("%3d%%", p))
}

// Trend renders a trend label with a direction marker.
func Trend(l trend.Label) string {
	switch l {
	case trend.Improving:
		return lipgloss.NewStyle().Foreground(Success).Render("↑ improving")
	case trend.Declining:
		return lipgloss.NewStyle().Foreground(Error).Render("↓ declining")
	case trend.Stable:
		return lipgloss.NewStyle().Foreground(Secondary).Render("→ stable")
	default:
		return Hint.Render("· insufficient data")
	}
}

// Cell pads s to width columns, ANSI-aware.
func Cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
