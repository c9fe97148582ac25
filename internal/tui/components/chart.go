package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		buf.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one row of an HBarChart.
type Bar struct {
	Label string
	Value float64
	Text  string // printed after the bar; defaults to the value
	Color lipgloss.Color
}

// HBarChart renders one horizontal bar per row, scaled to the largest value.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	peak := 0.0
	for i := range bars {
		if bars[i].Text == "" {
			bars[i].Text = fmt.Sprintf("%.0f", bars[i].Value)
		}
		labelW = max(labelW, lipgloss.Width(bars[i].Label))
		textW = max(textW, lipgloss.Width(bars[i].Text))
		peak = max(peak, bars[i].Value)
	}
	labelW = min(labelW, width/3)
	barW := max(width-labelW-textW-3, 4)
	if peak == 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		filled := min(int(b.Value/peak*float64(barW)+0.5), barW)
		if b.Value > 0 && filled == 0 {
			filled = 1
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW))) + " " +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", filled)) +
			emptyStyle.Render(strings.Repeat("·", barW-filled)) + " " +
			textStyle.Render(b.Text)
	}
	return strings.Join(lines, "\n")
}
