package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// ColorForAlert maps a budget alert level to a theme color.
func ColorForAlert(level engine.AlertLevel) lipgloss.Color {
	t := theme.Active
	switch level {
	case engine.AlertOver:
		return t.Alert
	case engine.AlertApproaching:
		return t.Caution
	default:
		return t.Good
	}
}

// ColorForGoal maps a goal status to a theme color.
func ColorForGoal(status engine.GoalStatus) lipgloss.Color {
	t := theme.Active
	switch status {
	case engine.Achieved:
		return t.Good
	case engine.Overdue:
		return t.Alert
	default:
		return t.Accent
	}
}

// ProgressBar renders a solid bar for a 0-100 percentage in color, followed
// by the percentage. Values above 100 draw a full bar and print as-is.
func ProgressBar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active

	ratio := min(max(pct/100, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(ratio) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

// LabeledBar renders "label  [bar] pct  note" on one line.
func LabeledBar(label string, pct float64, color lipgloss.Color, labelW, barW int, note string) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		ProgressBar(pct, barW, color) +
		spaceStyle.Render("  ") +
		noteStyle.Render(note)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
