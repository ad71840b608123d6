package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyq/internal/streak"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

const barWidth = 20

// CompletionBar renders pct as a fixed-width bar followed by the percentage.
func CompletionBar(pct int) string {
	pct = max(0, min(100, pct))
	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s %3d%%", completionStyle(pct).Render(bar), pct)
}

func completionStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 100:
		return SuccessStyle
	case pct >= 50:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	case pct > 0:
		return WarningStyle
	default:
		return MutedStyle
	}
}

// CalendarRow renders one glyph per day, oldest first.
func CalendarRow(days []streak.Day) string {
	var b strings.Builder
	for _, d := range days {
		switch {
		case !d.Answered:
			b.WriteString(MutedStyle.Render("·"))
		case d.Completion >= 100:
			b.WriteString(SuccessStyle.Render("●"))
		default:
			b.WriteString(completionStyle(d.Completion).Render("◐"))
		}
	}
	return b.String()
}
