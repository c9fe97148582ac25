package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active
	r := a.report
	cur := r.Currency
	sum := r.Budget

	flow := a.cashFlowMetrics(cw)
	if len(sum.Evaluations) == 0 {
		return flow + components.ContentCard("Budgets", "No budget categories yet. Set one with `fincoach add budget`.", cw)
	}

	period := sum.Evaluations[0].Entry.Period
	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Spent", Value: cli.FormatMoneyShort(sum.TotalSpent, cur), Note: period},
		{Label: "Limit", Value: cli.FormatMoneyShort(sum.TotalLimit, cur)},
		{Label: "Left", Value: cli.FormatMoneyShort(sum.TotalLimit-sum.TotalSpent, cur)},
		{Label: "Used", Value: cli.FormatPercent(sum.UtilizationPercent), Color: components.ColorForAlert(sum.Alert)},
	}, cw)

	trends := spendTrends(r.History)
	inner := components.CardInnerWidth(cw)
	labelW := 14
	barW := max(inner-labelW-44, 10)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	for i, ev := range sum.Evaluations {
		if i > 0 {
			b.WriteString("\n")
		}
		note := fmt.Sprintf("%s / %s", cli.FormatMoneyShort(ev.Entry.Spent, cur), cli.FormatMoneyShort(ev.Entry.Limit, cur))
		if ev.Guarded {
			note = cli.FormatMoneyShort(ev.Entry.Spent, cur) + " / no limit"
		}
		b.WriteString(components.LabeledBar(ev.Entry.Category.Label(), ev.UtilizationPercent,
			components.ColorForAlert(ev.Alert), labelW, barW, fmt.Sprintf("%-22s", note)))
		if hist := trends[ev.Entry.Category]; len(hist) > 0 {
			f, _ := ev.Entry.Spent.Decimal().Float64()
			b.WriteString(mutedStyle.Render(" "))
			b.WriteString(components.Sparkline(append(hist, f), t.Info))
		}
	}

	return flow + metrics + "\n" + components.ContentCard("This period", b.String(), cw)
}

// cashFlowMetrics renders the month's income against bills, or nothing when
// neither is recorded.
func (a App) cashFlowMetrics(cw int) string {
	t := theme.Active
	cf := a.report.CashFlow
	cur := a.report.Currency
	if cf.Income == 0 && cf.Expenses == 0 {
		return ""
	}
	netColor := t.Good
	if cf.Net < 0 {
		netColor = t.Alert
	}
	kept := cli.FormatPercent(cf.SavingsRate) + " kept"
	if cf.Guarded {
		kept = "no income"
	}
	pending := lipgloss.Color("")
	if cf.OverdueCount > 0 {
		pending = t.Caution
	}
	return components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: cli.FormatMoneyShort(cf.Income, cur), Note: cf.Month},
		{Label: "Bills paid", Value: cli.FormatMoneyShort(cf.Paid, cur)},
		{Label: "Pending", Value: cli.FormatMoneyShort(cf.Pending, cur), Note: fmt.Sprintf("%d overdue", cf.OverdueCount), Color: pending},
		{Label: "Net", Value: cli.FormatMoneyShort(cf.Net, cur), Note: kept, Color: netColor},
	}, cw) + "\n"
}

// spendTrends returns each category's archived spend, oldest period first.
func spendTrends(history []model.PeriodSpend) map[model.Category][]float64 {
	rows := append([]model.PeriodSpend(nil), history...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	out := make(map[model.Category][]float64)
	for _, h := range rows {
		f, _ := h.Spent.Decimal().Float64()
		out[h.Category] = append(out[h.Category], f)
	}
	return out
}
