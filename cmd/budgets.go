package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

var flagBudgetHistory int

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Spend against each category limit for the open period",
	RunE:  runBudgets,
}

var spendCmd = &cobra.Command{
	Use:   "spend <category> <amount>",
	Short: "Record spending in a budget category",
	Args:  cobra.ExactArgs(2),
	RunE:  runSpend,
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover [YYYY-MM]",
	Short: "Close the budget period, archive spend and start the next one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRollover,
}

func init() {
	budgetsCmd.Flags().IntVar(&flagBudgetHistory, "history", 0, "Also show this many closed periods")
	rootCmd.AddCommand(budgetsCmd)
	rootCmd.AddCommand(spendCmd)
	rootCmd.AddCommand(rolloverCmd)
}

func runBudgets(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	b := r.Budget
	if len(b.Evaluations) == 0 {
		fmt.Println("\n  No budget categories.")
		return nil
	}
	cur := r.Currency

	title("Budget  " + b.Evaluations[0].Entry.Period)

	rows := make([][]string, 0, len(b.Evaluations)+2)
	for _, ev := range b.Evaluations {
		used := cli.RenderProgressBar(ev.UtilizationPercent, 12)
		if ev.Guarded {
			used = cli.Muted("no limit")
		}
		rows = append(rows, []string{
			ev.Entry.Category.Label(),
			formatMoney(ev.Entry.Spent, cur),
			formatMoney(ev.Entry.Limit, cur),
			formatMoney(ev.Remaining, cur),
			used,
			cli.RenderAlert(ev.Alert),
		})
	}
	rows = append(rows, cli.Separator, []string{
		"Total",
		formatMoney(b.TotalSpent, cur),
		formatMoney(b.TotalLimit, cur),
		formatMoney(b.TotalLimit-b.TotalSpent, cur),
		cli.RenderProgressBar(b.UtilizationPercent, 12),
		cli.RenderAlert(b.Alert),
	})
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Spent", "Limit", "Left", "Used", "Alert"},
		Rows:    rows,
	}))

	if flagBudgetHistory > 0 {
		if err := printHistory(flagBudgetHistory, cur); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

func printHistory(periods int, currency string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	hist, err := st.History(periods)
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		fmt.Printf("\n  %s\n", cli.Muted("No closed periods yet."))
		return nil
	}

	var cols []string
	seen := map[string]bool{}
	byCat := map[model.Category]map[string]money.Money{}
	for _, h := range hist {
		if !seen[h.Period] {
			seen[h.Period] = true
			cols = append(cols, h.Period)
		}
		if byCat[h.Category] == nil {
			byCat[h.Category] = map[string]money.Money{}
		}
		byCat[h.Category][h.Period] = h.Spent
	}
	sort.Strings(cols)

	var rows [][]string
	for _, c := range model.Categories {
		spent, ok := byCat[c]
		if !ok {
			continue
		}
		row := []string{c.Label()}
		trend := make([]float64, len(cols))
		for i, p := range cols {
			row = append(row, formatMoney(spent[p], currency))
			trend[i], _ = spent[p].Decimal().Float64()
		}
		rows = append(rows, append(row, cli.RenderSparkline(trend)))
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Closed periods",
		Headers: append(append([]string{"Category"}, cols...), "Trend"),
		Rows:    rows,
	}))
	return nil
}

func runSpend(_ *cobra.Command, args []string) error {
	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmountArg("amount", args[1])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	entry, err := st.RecordSpend(c, amount)
	if err != nil {
		return err
	}
	ev, err := engine.Evaluate(entry)
	if err != nil {
		return err
	}
	cur := st.Currency()
	fmt.Printf("  %s: %s of %s  %s\n", c.Label(),
		formatMoney(entry.Spent, cur), formatMoney(entry.Limit, cur), cli.RenderAlert(ev.Alert))
	if ev.Guarded {
		fmt.Printf("  %s\n", cli.Muted("No limit set. Add one with `fincoach add budget`."))
	}
	return nil
}

func runRollover(_ *cobra.Command, args []string) error {
	period := currentPeriod()
	if len(args) == 1 {
		period = args[0]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	res, err := st.Rollover(period)
	if err != nil {
		return err
	}
	switch {
	case res.From == res.To:
		fmt.Printf("  Period %s is already open.\n", res.To)
	case res.From == "":
		fmt.Printf("  Opened period %s.\n", res.To)
	default:
		fmt.Printf("  Closed %s (%d categories archived), opened %s.\n", res.From, res.Archived, res.To)
	}
	return nil
}
