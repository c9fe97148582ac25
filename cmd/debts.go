package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
)

var flagDebtsDetail bool

var debtsCmd = &cobra.Command{
	Use:   "debts",
	Short: "Debts ranked by repayment priority",
	RunE:  runDebts,
}

func init() {
	debtsCmd.Flags().BoolVar(&flagDebtsDetail, "detail", false, "Show the score breakdown")
	rootCmd.AddCommand(debtsCmd)
}

func runDebts(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	if len(r.Ranked) == 0 {
		fmt.Println("\n  No open debts.")
		return nil
	}
	cur := r.Currency

	title("Debt priority")

	headers := []string{"#", "Debt", "Kind", "Balance", "Payment", "Rate", "Score", "Priority", "Alone"}
	if flagDebtsDetail {
		headers = append(headers, "Int", "Time", "Relief", "Kind")
	}

	rows := make([][]string, 0, len(r.Ranked)+2)
	for _, rd := range r.Ranked {
		row := []string{
			fmt.Sprintf("%d", rd.Position),
			rd.Debt.Name,
			rd.Debt.Kind.String(),
			formatMoney(rd.Debt.Balance, cur),
			formatMoney(rd.Debt.MonthlyPayment, cur),
			cli.FormatRate(rd.Debt.MonthlyRate),
			fmt.Sprintf("%d", rd.Score),
			cli.ScoreBadge(rd.Score),
			cli.FormatHorizon(rd.Amortization.Months, rd.Amortization.Converges),
		}
		if flagDebtsDetail {
			b := rd.Breakdown
			row = append(row, b.Interest.StringFixed(0), b.Time.StringFixed(0), b.Relief.StringFixed(0), b.Kind.StringFixed(0))
		}
		rows = append(rows, row)
	}
	rows = append(rows, cli.Separator)
	total := []string{"", "Total", "", formatMoney(r.TotalDebt, cur), formatMoney(r.TotalMonthly, cur), "", "", "", ""}
	if flagDebtsDetail {
		total = append(total, "", "", "", "")
	}
	rows = append(rows, total)

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows, LeftCols: 3}))
	fmt.Printf("\n  %s\n\n", cli.Muted(fmt.Sprintf(
		"Interest if each is paid alone at its scheduled payment: %s", formatMoney(r.ProjectedInterest, cur))))
	return nil
}
