package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Savings goals with the monthly contribution each needs",
	RunE:  runGoals,
}

var contributeCmd = &cobra.Command{
	Use:   "contribute <goal-id> <amount>",
	Short: "Add money to a savings goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runContribute,
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(contributeCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	if len(r.Goals) == 0 {
		fmt.Println("\n  No savings goals.")
		return nil
	}
	cur := r.Currency

	title("Savings goals")

	rows := make([][]string, 0, len(r.Goals))
	for _, g := range r.Goals {
		monthly := formatMoney(g.RecommendedMonthly, cur)
		if g.Guarded && g.Status == engine.OnTrack {
			monthly += "*"
		}
		rows = append(rows, []string{
			g.Goal.ID,
			g.Goal.Name,
			cli.RenderProgressBar(min(g.ProgressPercent, 100), 12),
			formatMoney(g.Goal.Current, cur),
			formatMoney(g.Goal.Target, cur),
			monthly,
			g.Goal.Deadline.Format("2006-01-02"),
			goalStatus(g.Status),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Goal", "Progress", "Saved", "Target", "Per month", "Deadline", "Status"},
		Rows:     rows,
		LeftCols: 3,
	}))
	for _, g := range r.Goals {
		if g.Guarded && g.Status == engine.OnTrack {
			fmt.Printf("\n  %s\n", cli.Muted("* less than a month left: the whole remainder is due now"))
			break
		}
	}
	fmt.Println()
	return nil
}

func goalStatus(s engine.GoalStatus) string {
	switch s {
	case engine.Achieved:
		return "achieved"
	case engine.Overdue:
		return cli.Warn("overdue")
	default:
		return "on track"
	}
}

func runContribute(_ *cobra.Command, args []string) error {
	amount, err := parseAmountArg("amount", args[1])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := st.Contribute(args[0], amount)
	if err != nil {
		return err
	}
	cur := st.Currency()
	p, err := engine.Project(g, rt.today)
	if err != nil {
		return err
	}
	fmt.Printf("  %s: %s of %s (%s)\n", g.Name,
		formatMoney(g.Current, cur), formatMoney(g.Target, cur), cli.FormatPercent(p.ProgressPercent))
	if p.Status == engine.OnTrack {
		fmt.Printf("  Keep %s/month until %s\n", formatMoney(p.RecommendedMonthly, cur), g.Deadline.Format("2006-01-02"))
	}
	return nil
}
