package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
)

var (
	flagSimSchedule  bool
	flagSimMonths    int
	flagSimSweep     bool
	flagSimSweepMax  string
	flagSimSweepStep string
)

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Aliases: []string{"plan"},
	Short:   "Simulate the snowball payoff against paying each debt alone",
	RunE:    runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagSimSchedule, "schedule", false, "Print the month-by-month balance")
	simulateCmd.Flags().IntVar(&flagSimMonths, "months", 24, "Months shown with --schedule (0 for all)")
	simulateCmd.Flags().BoolVar(&flagSimSweep, "sweep", false, "Compare a range of extra budgets")
	simulateCmd.Flags().StringVar(&flagSimSweepMax, "sweep-max", "1000", "Largest extra budget in the sweep")
	simulateCmd.Flags().StringVar(&flagSimSweepStep, "sweep-step", "100", "Step between sweep budgets")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	if r.Plan == nil {
		fmt.Println("\n  No open debts to simulate.")
		return nil
	}
	cur := r.Currency
	c := *r.Plan

	title(fmt.Sprintf("Snowball plan  +%s/mo", formatMoney(c.Extra, cur)))

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Snowball", "Each alone"},
		Rows: [][]string{
			{"Debt-free in",
				cli.FormatHorizon(c.Snowball.TotalMonthsToFreedom, c.Snowball.Converged),
				cli.FormatHorizon(c.Baseline.TotalMonthsToFreedom, c.Baseline.Converged)},
			{"Interest paid", formatMoney(c.Snowball.TotalInterestPaid, cur), formatMoney(c.Baseline.TotalInterestPaid, cur)},
			{"Total paid", formatMoney(c.Snowball.TotalPaid, cur), formatMoney(c.Baseline.TotalPaid, cur)},
		},
	}))
	fmt.Printf("\n  Savings: %s\n", savingsLine(c, cur))
	if err := c.Snowball.Err(); err != nil {
		fmt.Printf("  %s\n", cli.Warn(err.Error()))
	}

	fmt.Println()
	order := make([][]string, 0, len(c.Snowball.Schedules))
	for i, s := range c.Snowball.Schedules {
		paidOff := "open"
		if s.PaidOffMonth > 0 {
			paidOff = fmt.Sprintf("month %d", s.PaidOffMonth)
		}
		order = append(order, []string{
			fmt.Sprintf("%d", i+1), s.Name, paidOff,
			formatMoney(s.InterestPaid, cur), formatMoney(s.TotalPaid, cur),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Payoff order",
		Headers:  []string{"#", "Debt", "Paid off", "Interest", "Total paid"},
		Rows:     order,
		LeftCols: 3,
	}))

	if flagSimSchedule {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Month by month",
			Headers: []string{"Month", "Open", "Interest", "Paid", "Balance"},
			Rows:    monthRows(c.Snowball, flagSimMonths, cur),
		}))
	}

	if flagSimSweep {
		if err := printSweep(engine.Debts(r.Ranked), cur); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

// monthRows folds the per-debt schedules into one row per month.
func monthRows(res engine.SimulationResult, limit int, currency string) [][]string {
	type month struct {
		open                int
		interest, paid, end money.Money
	}
	var months []month
	for _, s := range res.Schedules {
		for _, e := range s.Entries {
			for len(months) < e.Month {
				months = append(months, month{})
			}
			m := &months[e.Month-1]
			m.open++
			m.interest += e.Interest
			m.paid += e.Scheduled + e.Extra
			m.end += e.End
		}
	}
	if limit > 0 && len(months) > limit {
		months = months[:limit]
	}
	rows := make([][]string, len(months))
	for i, m := range months {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", m.open),
			formatMoney(m.interest, currency), formatMoney(m.paid, currency), formatMoney(m.end, currency),
		}
	}
	return rows
}

// printSweep runs one snowball per extra budget on the worker pool.
func printSweep(ordered []model.Debt, currency string) error {
	extras, err := sweepExtras()
	if err != nil {
		return err
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Simulating [%d/%d]", current, total)
	}
	points, err := pipeline.Sweep(ordered, extras, progressFn)
	if !flagQuiet {
		fmt.Fprint(os.Stderr, "\r                              \r")
	}
	if err != nil {
		return err
	}

	rows := make([][]string, len(points))
	interest := make([]float64, len(points))
	for i, p := range points {
		rows[i] = []string{
			formatMoney(p.Extra, currency),
			cli.FormatHorizon(p.Months, p.Converged),
			formatMoney(p.InterestPaid, currency),
			formatMoney(p.TotalPaid, currency),
		}
		interest[i], _ = p.InterestPaid.Decimal().Float64()
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Extra budget sweep",
		Headers: []string{"Extra/mo", "Debt-free in", "Interest", "Total paid"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Interest by extra  %s\n", cli.RenderSparkline(interest))
	return nil
}

// sweepExtras parses the sweep flags into a list of budgets.
func sweepExtras() ([]money.Money, error) {
	limit, err := money.Parse(flagSimSweepMax)
	if err != nil {
		return nil, fmt.Errorf("--sweep-max: %w", err)
	}
	step, err := money.Parse(flagSimSweepStep)
	if err != nil {
		return nil, fmt.Errorf("--sweep-step: %w", err)
	}
	if step <= 0 || limit < 0 {
		return nil, fmt.Errorf("--sweep-step must be positive and --sweep-max non-negative")
	}
	extras, err := pipeline.Steps(limit, step)
	if err != nil {
		return nil, fmt.Errorf("%w; raise --sweep-step or lower --sweep-max", err)
	}
	return extras, nil
}
