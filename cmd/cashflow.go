package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
)

var flagExpensesAll bool

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "This month's bills with paid and pending status",
	RunE:  runExpenses,
}

var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Card limit usage and loan installment progress",
	RunE:  runCredit,
}

func init() {
	expensesCmd.Flags().BoolVar(&flagExpensesAll, "all", false, "Show bills from every month")
	expensesCmd.AddCommand(
		&cobra.Command{Use: "paid <id>", Short: "Mark a bill paid", Args: cobra.ExactArgs(1), RunE: runSettle(true)},
		&cobra.Command{Use: "unpaid <id>", Short: "Mark a bill pending again", Args: cobra.ExactArgs(1), RunE: runSettle(false)},
	)
	rootCmd.AddCommand(expensesCmd, creditCmd)
}

func expenseStatus(e model.Expense, today time.Time) string {
	switch {
	case e.Paid:
		return cli.Muted("paid")
	case engine.IsOverdue(e, today):
		return cli.Warn("overdue")
	default:
		return "pending"
	}
}

// monthExpenses keeps recurring bills and those due in the month of today.
func monthExpenses(all []model.Expense, today time.Time) []model.Expense {
	var out []model.Expense
	for _, e := range all {
		if e.Recurring || (e.DueDate.Year() == today.Year() && e.DueDate.Month() == today.Month()) {
			out = append(out, e)
		}
	}
	return out
}

func runExpenses(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	cur := r.Currency
	list := r.Expenses
	if !flagExpensesAll {
		list = monthExpenses(list, r.Today)
	}
	if len(list) == 0 {
		fmt.Println("\n  No bills. Add one with `fincoach add expense`.")
		return nil
	}

	title("Bills  " + r.CashFlow.Month)

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		due := engine.DueIn(e, r.Today).Format("Jan 02")
		if e.Recurring {
			due += " ↻"
		}
		rows = append(rows, []string{
			e.ID,
			e.Name,
			e.Category.Label(),
			due,
			string(e.Method),
			formatMoney(e.Amount, cur),
			expenseStatus(e, r.Today),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Bill", "Category", "Due", "Method", "Amount", "Status"},
		Rows:     rows,
		LeftCols: 5,
	}))

	cf := r.CashFlow
	fmt.Print(cli.RenderKV([][2]string{
		{"Paid", formatMoney(cf.Paid, cur)},
		{"Pending", formatMoney(cf.Pending, cur)},
		{"Overdue", fmt.Sprintf("%s in %d bills", formatMoney(cf.Overdue, cur), cf.OverdueCount)},
	}))
	fmt.Println()
	return nil
}

func runSettle(paid bool) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		e, err := st.SetExpensePaid(args[0], paid)
		if err != nil {
			return err
		}
		state := "pending"
		if e.Paid {
			state = "paid"
		}
		fmt.Printf("  %s (%s) is %s. %s spend adjusted.\n",
			e.Name, formatMoney(e.Amount, st.Currency()), state, e.Category.Label())
		return nil
	}
}

func runCredit(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	if len(r.Cards) == 0 && len(r.Loans) == 0 {
		fmt.Println("\n  No card limits or loan schedules recorded. Set them with `fincoach add debt --limit` or `--installments`.")
		return nil
	}
	cur := r.Currency

	if len(r.Cards) > 0 {
		title("Cards")
		rows := make([][]string, 0, len(r.Cards))
		for _, u := range r.Cards {
			rows = append(rows, []string{
				u.Name,
				formatMoney(u.Used, cur),
				formatMoney(u.Limit, cur),
				formatMoney(u.Available, cur),
				cli.RenderProgressBar(u.UtilizationPercent, 12),
				formatDay(u.NextClosing),
				formatDay(u.NextDue),
				cli.RenderAlert(u.Alert),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Card", "Used", "Limit", "Available", "Usage", "Closes", "Due", "Alert"},
			Rows:    rows,
		}))
	}

	if len(r.Loans) > 0 {
		title("Loans")
		rows := make([][]string, 0, len(r.Loans))
		for _, p := range r.Loans {
			rows = append(rows, []string{
				p.Name,
				fmt.Sprintf("%d/%d", p.Paid, p.Installments),
				cli.RenderProgressBar(p.ProgressPercent, 12),
				fmt.Sprintf("%d", p.Remaining),
				formatMoney(p.RemainingScheduled, cur),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Loan", "Paid", "Progress", "Left", "Still scheduled"},
			Rows:    rows,
		}))
	}
	fmt.Println()
	return nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 02")
}
