package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

type debtsState struct {
	cursor int
}

func (s *debtsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *debtsState) clamp(n int) {
	s.cursor = min(s.cursor, n-1)
	s.cursor = max(s.cursor, 0)
}

func (a App) renderDebtsTab(cw int) string {
	t := theme.Active
	r := a.report
	cur := r.Currency

	freedom := "-"
	if r.Plan != nil {
		freedom = cli.FormatHorizon(r.Plan.Snowball.TotalMonthsToFreedom, r.Plan.Snowball.Converged)
	}
	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Total debt", Value: cli.FormatMoneyShort(r.TotalDebt, cur), Note: fmt.Sprintf("%d open", len(r.Ranked))},
		{Label: "Monthly payments", Value: cli.FormatMoneyShort(r.TotalMonthly, cur)},
		{Label: "Interest if untouched", Value: cli.FormatMoneyShort(r.ProjectedInterest, cur), Color: t.Interest},
		{Label: "Debt-free in", Value: freedom, Note: "snowball, " + cli.FormatMoneyShort(a.opts.Extra, cur) + " extra"},
	}, cw)

	if len(r.Ranked) == 0 {
		return metrics + "\n" + components.ContentCard("Debts", "No open debts. Nothing to prioritize.", cw)
	}

	halves := components.LayoutRow(cw, 2)
	list := components.ContentCard("Priority", a.debtList(components.CardInnerWidth(halves[0])), halves[0])
	detail := components.ContentCard("Why this rank", a.debtDetail(r.Ranked[a.debts.cursor]), halves[1])

	return metrics + "\n" + components.CardRow([]string{list, detail})
}

func (a App) debtList(innerW int) string {
	t := theme.Active
	cur := a.report.Currency

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := max(innerW-36, 8)
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-3s %-*s %12s %12s %5s", "#", nameW, "Debt", "Balance", "Rate", "Score")))
	for i, rd := range a.report.Ranked {
		line := fmt.Sprintf("%-3d %-*s %12s %12s %5d",
			rd.Position,
			nameW, truncStr(rd.Debt.Name, nameW),
			cli.FormatMoneyShort(rd.Debt.Balance, cur),
			cli.FormatRate(rd.Debt.MonthlyRate),
			rd.Score)
		b.WriteString("\n")
		if i == a.debts.cursor {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}
	return b.String()
}

func (a App) debtDetail(rd engine.Ranked) string {
	t := theme.Active
	cur := a.report.Currency

	nameStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	horizon := cli.FormatMonths(rd.MonthsToPayoff)
	if rd.Infinite {
		horizon = "never (no payment)"
	}

	rows := [][2]string{
		{"Kind", rd.Debt.Kind.String()},
		{"Balance", cli.FormatMoney(rd.Debt.Balance, cur)},
		{"Payment", cli.FormatMoney(rd.Debt.MonthlyPayment, cur) + "/mo"},
		{"Rate", cli.FormatRate(rd.Debt.MonthlyRate)},
		{"Score", fmt.Sprintf("%d (%s)", rd.Score, cli.ScoreBadge(rd.Score))},
		{"  interest", rd.Breakdown.Interest.StringFixed(1)},
		{"  time", rd.Breakdown.Time.StringFixed(1)},
		{"  relief", rd.Breakdown.Relief.StringFixed(1)},
		{"  kind", rd.Breakdown.Kind.StringFixed(1)},
		{"Principal horizon", horizon},
		{"Paid off alone", cli.FormatHorizon(rd.Amortization.Months, rd.Amortization.Converges)},
		{"Interest alone", cli.FormatMoney(rd.Amortization.Interest, cur)},
	}
	rows = append(rows, a.creditRows(rd.Debt.ID)...)

	var b strings.Builder
	b.WriteString(nameStyle.Render(fmt.Sprintf("#%d %s", rd.Position, rd.Debt.Name)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", row[0])))
		b.WriteString(valueStyle.Render(row[1]))
	}
	return b.String()
}

// creditRows describes the card limit or loan schedule of a debt, when known.
func (a App) creditRows(id string) [][2]string {
	cur := a.report.Currency
	for _, u := range a.report.Cards {
		if u.DebtID != id {
			continue
		}
		rows := [][2]string{
			{"Limit", cli.FormatMoney(u.Limit, cur)},
			{"Available", fmt.Sprintf("%s (%s used)", cli.FormatMoney(u.Available, cur), cli.FormatPercent(u.UtilizationPercent))},
		}
		if !u.NextClosing.IsZero() {
			rows = append(rows, [2]string{"Statement closes", u.NextClosing.Format("Jan 02")})
		}
		if !u.NextDue.IsZero() {
			rows = append(rows, [2]string{"Bill due", u.NextDue.Format("Jan 02")})
		}
		return rows
	}
	for _, p := range a.report.Loans {
		if p.DebtID == id {
			return [][2]string{
				{"Installments", fmt.Sprintf("%d of %d paid (%s)", p.Paid, p.Installments, cli.FormatPercent(p.ProgressPercent))},
				{"Still scheduled", cli.FormatMoney(p.RemainingScheduled, cur)},
			}
		}
	}
	return nil
}
