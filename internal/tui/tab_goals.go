package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	r := a.report
	cur := r.Currency

	if len(r.Goals) == 0 {
		return components.ContentCard("Goals", "No savings goals yet. Add one with `fincoach add goal`.", cw)
	}

	var saved, target, monthly money.Money
	achieved, overdue := 0, 0
	for _, g := range r.Goals {
		saved += g.Goal.Current
		target += g.Goal.Target
		monthly += g.RecommendedMonthly
		switch g.Status {
		case engine.Achieved:
			achieved++
		case engine.Overdue:
			overdue++
		}
	}
	overdueColor := t.TextPrimary
	if overdue > 0 {
		overdueColor = t.Alert
	}

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Saved", Value: cli.FormatMoneyShort(saved, cur), Note: "of " + cli.FormatMoneyShort(target, cur)},
		{Label: "Set aside monthly", Value: cli.FormatMoneyShort(monthly, cur), Note: "to hit every deadline", Color: t.AccentBright},
		{Label: "Achieved", Value: fmt.Sprintf("%d/%d", achieved, len(r.Goals)), Color: t.Good},
		{Label: "Overdue", Value: fmt.Sprintf("%d", overdue), Color: overdueColor},
	}, cw)

	inner := components.CardInnerWidth(cw)
	labelW := min(24, inner/4)
	barW := max(inner-labelW-40, 10)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	for i, g := range r.Goals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.LabeledBar(g.Goal.Name, g.ProgressPercent,
			components.ColorForGoal(g.Status), labelW, barW, goalNote(g, cur)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s %s of %s · due %s",
			labelW, "",
			cli.FormatMoney(g.Goal.Current, cur),
			cli.FormatMoney(g.Goal.Target, cur),
			g.Goal.Deadline.Format("2006-01-02"))))
	}

	return metrics + "\n" + components.ContentCard("Progress", b.String(), cw)
}

func goalNote(g engine.GoalProjection, currency string) string {
	switch g.Status {
	case engine.Achieved:
		return "achieved"
	case engine.Overdue:
		return fmt.Sprintf("overdue, %s short", cli.FormatMoneyShort(g.Remaining, currency))
	}
	note := fmt.Sprintf("%s/mo for %s", cli.FormatMoneyShort(g.RecommendedMonthly, currency), cli.FormatMonths(g.MonthsRemaining))
	if g.Guarded {
		note += " (final month)"
	}
	return note
}
