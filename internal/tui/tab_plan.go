package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// extraStep is how much +/- moves the what-if budget, and the sweep spacing.
const extraStep = money.Money(10000)

type planState struct {
	extra      money.Money
	comparison *engine.Comparison
	err        error
	sweep      []pipeline.SweepPoint
	sweepErr   error
}

// sweepLimit is the largest extra budget the sweep tries: the total monthly
// payment, rounded up to a step, at least ten steps and never more points
// than a sweep allows.
func sweepLimit(monthly money.Money) money.Money {
	limit := max(monthly, 10*extraStep)
	if rem := limit % extraStep; rem != 0 {
		limit += extraStep - rem
	}
	return min(limit, (pipeline.MaxSweepPoints-1)*extraStep)
}

func (a *App) adjustExtra(delta money.Money) {
	a.plan.extra = max(a.plan.extra+delta, 0)
	a.recomputePlan()
}

// recomputePlan runs the snowball comparison for the current what-if budget.
func (a *App) recomputePlan() {
	a.plan.comparison = nil
	a.plan.err = nil
	if a.report == nil || len(a.report.Ranked) == 0 {
		return
	}
	c, err := a.memo.Compare(engine.Debts(a.report.Ranked), a.plan.extra)
	if err != nil {
		a.plan.err = err
		return
	}
	a.plan.comparison = &c
}

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	cur := a.report.Currency

	if len(a.report.Ranked) == 0 {
		return components.ContentCard("Payoff plan", "No open debts to plan for.", cw)
	}
	if a.plan.err != nil {
		return components.ContentCard("Payoff plan", "Simulation failed: "+a.plan.err.Error(), cw)
	}
	c := a.plan.comparison
	if c == nil {
		return ""
	}

	savedColor := t.Good
	if c.InterestSaved <= 0 {
		savedColor = t.TextMuted
	}
	freedomNote := fmt.Sprintf("vs %s paying each alone", cli.FormatHorizon(c.Baseline.TotalMonthsToFreedom, c.Baseline.Converged))
	savedNote := "vs paying each alone"
	if !c.Comparable {
		savedNote = "partial: a run hit the month limit"
	}

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Extra per month", Value: cli.FormatMoney(a.plan.extra, cur), Note: "+/- to change", Color: t.AccentBright},
		{Label: "Debt-free in", Value: cli.FormatHorizon(c.Snowball.TotalMonthsToFreedom, c.Snowball.Converged), Note: freedomNote},
		{Label: "Interest paid", Value: cli.FormatMoneyShort(c.Snowball.TotalInterestPaid, cur), Color: t.Interest},
		{Label: "Interest saved", Value: cli.FormatSavings(c.InterestSaved, cur), Note: savedNote, Color: savedColor},
	}, cw)

	halves := components.LayoutRow(cw, 2)
	order := components.ContentCard("Payoff order", a.payoffOrder(c, components.CardInnerWidth(halves[0])), halves[0])
	sweep := components.ContentCard("Months to freedom by extra", a.sweepChart(components.CardInnerWidth(halves[1])), halves[1])

	return metrics + "\n" + components.CardRow([]string{order, sweep})
}

func (a App) payoffOrder(c *engine.Comparison, innerW int) string {
	t := theme.Active
	cur := a.report.Currency
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	openStyle := lipgloss.NewStyle().Foreground(t.Alert).Background(t.Surface)

	nameW := max(innerW-30, 8)
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s %8s %12s", nameW, "Debt", "Paid off", "Interest")))
	for _, s := range c.Snowball.Schedules {
		b.WriteString("\n")
		if s.PaidOffMonth == 0 && len(s.Entries) > 0 {
			b.WriteString(openStyle.Render(fmt.Sprintf("%-*s %8s %12s", nameW, truncStr(s.Name, nameW), "open", cli.FormatMoneyShort(s.InterestPaid, cur))))
			continue
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %8s %12s",
			nameW, truncStr(s.Name, nameW),
			fmt.Sprintf("m%d", s.PaidOffMonth),
			cli.FormatMoneyShort(s.InterestPaid, cur))))
	}
	return b.String()
}

func (a App) sweepChart(innerW int) string {
	t := theme.Active
	cur := a.report.Currency
	switch {
	case a.plan.sweepErr != nil:
		return "Sweep failed: " + a.plan.sweepErr.Error()
	case len(a.plan.sweep) == 0:
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("computing...")
	}

	bars := make([]components.Bar, len(a.plan.sweep))
	interest := make([]float64, len(a.plan.sweep))
	for i, p := range a.plan.sweep {
		color := t.Accent
		if p.Extra == a.plan.extra {
			color = t.AccentBright
		}
		text := cli.FormatMonths(p.Months)
		if !p.Converged {
			color = t.Alert
			text = "never"
		}
		bars[i] = components.Bar{
			Label: "+" + cli.FormatMoneyShort(p.Extra, cur),
			Value: float64(p.Months),
			Text:  text,
			Color: color,
		}
		f, _ := p.InterestPaid.Decimal().Float64()
		interest[i] = f
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return components.HBarChart(bars, innerW) + "\n\n" +
		mutedStyle.Render("interest paid ") + components.Sparkline(interest, t.Interest)
}
