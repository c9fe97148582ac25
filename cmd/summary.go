package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Household overview: debts, plan, budget, goals and top advice",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	cur := r.Currency

	title(fmt.Sprintf("FINCOACH  %s", r.Today.Format("2006-01-02")))

	pairs := [][2]string{
		{"Total debt", fmt.Sprintf("%s across %d debts", formatMoney(r.TotalDebt, cur), len(r.Ranked))},
		{"Monthly payments", formatMoney(r.TotalMonthly, cur)},
	}
	if len(r.Ranked) > 0 {
		top := r.Ranked[0]
		pairs = append(pairs, [2]string{"Pay first", fmt.Sprintf("%s (score %d, %s)", top.Debt.Name, top.Score, cli.RenderBadge(top.Score))})
	}
	if p := r.Plan; p != nil {
		pairs = append(pairs,
			[2]string{"Debt-free in", fmt.Sprintf("%s with %s extra",
				cli.FormatHorizon(p.Snowball.TotalMonthsToFreedom, p.Snowball.Converged), formatMoney(p.Extra, cur))},
			[2]string{"Interest saved", savingsLine(*p, cur)},
		)
	}

	if cf := r.CashFlow; cf.Income > 0 || cf.Expenses > 0 {
		pairs = append(pairs,
			[2]string{"Income", formatMoney(cf.Income, cur)},
			[2]string{"Bills", fmt.Sprintf("%s paid, %s pending", formatMoney(cf.Paid, cur), formatMoney(cf.Pending, cur))},
			[2]string{"Net this month", netLine(cf, cur)},
		)
		if cf.OverdueCount > 0 {
			pairs = append(pairs, [2]string{"Overdue", cli.Warn(fmt.Sprintf("%s in %d bills", formatMoney(cf.Overdue, cur), cf.OverdueCount))})
		}
	}

	b := r.Budget
	if len(b.Evaluations) > 0 {
		pairs = append(pairs, [2]string{"Budget", fmt.Sprintf("%s of %s  %s",
			formatMoney(b.TotalSpent, cur), formatMoney(b.TotalLimit, cur), cli.RenderProgressBar(b.UtilizationPercent, 20))})
	}

	if len(r.Goals) > 0 {
		counts := map[engine.GoalStatus]int{}
		for _, g := range r.Goals {
			counts[g.Status]++
		}
		pairs = append(pairs, [2]string{"Goals", fmt.Sprintf("%d on track, %d achieved, %d overdue",
			counts[engine.OnTrack], counts[engine.Achieved], counts[engine.Overdue])})
	}
	fmt.Print(cli.RenderKV(pairs))

	if len(r.Insights) > 0 {
		fmt.Println()
		for i, in := range r.Insights {
			if i == 3 {
				fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("… %d more, see `fincoach insights`", len(r.Insights)-3)))
				break
			}
			fmt.Printf("  %s %s\n", cli.RenderSeverity(in.Severity), in.Title)
		}
	}
	fmt.Println()
	return nil
}

// netLine words the month's net, with the savings rate when there is income.
func netLine(cf engine.CashFlowSummary, currency string) string {
	s := formatMoney(cf.Net, currency)
	if cf.Guarded {
		return s + cli.Muted("  (no income recorded)")
	}
	s += fmt.Sprintf("  (%s of income kept)", cli.FormatPercent(cf.SavingsRate))
	if cf.Net < 0 {
		return cli.Warn(s)
	}
	return s
}

// savingsLine words the snowball savings, flagging partial totals.
func savingsLine(c engine.Comparison, currency string) string {
	sooner := "no sooner"
	if c.MonthsSaved > 0 {
		sooner = cli.FormatMonths(c.MonthsSaved) + " sooner"
	}
	s := fmt.Sprintf("%s, %s than paying each alone", cli.FormatSavings(c.InterestSaved, currency), sooner)
	if !c.Comparable {
		s += cli.Warn("  (partial: a run hit the month limit)")
	}
	return s
}
