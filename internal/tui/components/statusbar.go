package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// state on the right.
func RenderStatusBar(width int, hints, state string, busy bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	busyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := " " + hints
	right := state + " "
	if busy {
		right = busyStyle.Render("refreshing… ") + right
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	fill := lipgloss.NewStyle().Background(t.Surface).Width(gap).Render("")
	return style.Render(left + fill + right)
}
