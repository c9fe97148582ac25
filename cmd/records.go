package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/source"
)

var (
	flagImportSample      bool
	flagImportForce       bool
	flagImportPrintSample bool
)

var importCmd = &cobra.Command{
	Use:   "import [household.toml]",
	Short: "Replace all records with the contents of a household file",
	Long: "Replace debts, goals, budgets, spend history, incomes and bills with a household TOML file.\n" +
		"Recorded payments are kept. Use --print-sample to see the file format.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var payCmd = &cobra.Command{
	Use:   "pay <debt-id> <amount>",
	Short: "Record a payment against a debt",
	Args:  cobra.ExactArgs(2),
	RunE:  runPay,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a debt, goal, budget limit, income or bill",
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a debt, goal, income or bill",
}

var (
	flagDebtID      string
	flagDebtName    string
	flagDebtKind    string
	flagDebtBalance string
	flagDebtPayment string
	flagDebtRate    string

	flagDebtLimit            string
	flagDebtDueDay           int
	flagDebtClosingDay       int
	flagDebtInstallments     int
	flagDebtPaidInstallments int

	flagGoalID       string
	flagGoalName     string
	flagGoalTarget   string
	flagGoalCurrent  string
	flagGoalDeadline string
	flagGoalCategory string

	flagBudgetLimit string

	flagIncomeName      string
	flagIncomeAmount    string
	flagIncomeDate      string
	flagIncomeSource    string
	flagIncomeRecurring bool

	flagExpenseName      string
	flagExpenseAmount    string
	flagExpenseDue       string
	flagExpenseCategory  string
	flagExpenseMethod    string
	flagExpensePaid      bool
	flagExpenseRecurring bool
)

func init() {
	importCmd.Flags().BoolVar(&flagImportSample, "sample", false, "Import the built-in sample household")
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Replace existing records")
	importCmd.Flags().BoolVar(&flagImportPrintSample, "print-sample", false, "Print the sample household file and exit")

	addDebt := &cobra.Command{Use: "debt", Short: "Add or update a debt", Args: cobra.NoArgs, RunE: runAddDebt}
	addDebt.Flags().StringVar(&flagDebtID, "id", "", "Debt id (new id when empty; an existing id updates)")
	addDebt.Flags().StringVar(&flagDebtName, "name", "", "Display name")
	addDebt.Flags().StringVar(&flagDebtKind, "kind", "", "card or loan")
	addDebt.Flags().StringVar(&flagDebtBalance, "balance", "", "Outstanding balance")
	addDebt.Flags().StringVar(&flagDebtPayment, "payment", "", "Scheduled monthly payment")
	addDebt.Flags().StringVar(&flagDebtRate, "rate", "", "Monthly interest rate in percent, e.g. 13.99")
	addDebt.Flags().StringVar(&flagDebtLimit, "limit", "", "Card credit limit")
	addDebt.Flags().IntVar(&flagDebtDueDay, "due-day", 0, "Day of month the bill is due")
	addDebt.Flags().IntVar(&flagDebtClosingDay, "closing-day", 0, "Day of month the card statement closes")
	addDebt.Flags().IntVar(&flagDebtInstallments, "installments", 0, "Loan installment count")
	addDebt.Flags().IntVar(&flagDebtPaidInstallments, "paid-installments", 0, "Loan installments already paid")

	addGoal := &cobra.Command{Use: "goal", Short: "Add or update a savings goal", Args: cobra.NoArgs, RunE: runAddGoal}
	addGoal.Flags().StringVar(&flagGoalID, "id", "", "Goal id (new id when empty; an existing id updates)")
	addGoal.Flags().StringVar(&flagGoalName, "name", "", "Display name")
	addGoal.Flags().StringVar(&flagGoalTarget, "target", "", "Target amount")
	addGoal.Flags().StringVar(&flagGoalCurrent, "current", "", "Amount already saved")
	addGoal.Flags().StringVar(&flagGoalDeadline, "deadline", "", "Deadline YYYY-MM-DD")
	addGoal.Flags().StringVar(&flagGoalCategory, "category", "", "Optional label")

	addBudget := &cobra.Command{Use: "budget <category>", Short: "Set a budget category limit", Args: cobra.ExactArgs(1), RunE: runAddBudget}
	addBudget.Flags().StringVar(&flagBudgetLimit, "limit", "", "Monthly limit")

	addIncome := &cobra.Command{Use: "income", Short: "Record money coming in", Args: cobra.NoArgs, RunE: runAddIncome}
	addIncome.Flags().StringVar(&flagIncomeName, "name", "", "Description")
	addIncome.Flags().StringVar(&flagIncomeAmount, "amount", "", "Amount received")
	addIncome.Flags().StringVar(&flagIncomeDate, "date", "", "Date received YYYY-MM-DD (default today)")
	addIncome.Flags().StringVar(&flagIncomeSource, "source", "salary", "salary, freelance, investments, rent or other")
	addIncome.Flags().BoolVar(&flagIncomeRecurring, "recurring", false, "Counts every month")

	addExpense := &cobra.Command{Use: "expense", Short: "Add a bill to the expense ledger", Args: cobra.NoArgs, RunE: runAddExpense}
	addExpense.Flags().StringVar(&flagExpenseName, "name", "", "Description")
	addExpense.Flags().StringVar(&flagExpenseAmount, "amount", "", "Amount due")
	addExpense.Flags().StringVar(&flagExpenseDue, "due", "", "Due date YYYY-MM-DD (default today)")
	addExpense.Flags().StringVar(&flagExpenseCategory, "category", "other", "Budget category")
	addExpense.Flags().StringVar(&flagExpenseMethod, "method", "cash", "cash, debit, credit, pix or transfer")
	addExpense.Flags().BoolVar(&flagExpensePaid, "paid", false, "Already paid; counts toward the category spend")
	addExpense.Flags().BoolVar(&flagExpenseRecurring, "recurring", false, "Due every month on the same day")

	addCmd.AddCommand(addDebt, addGoal, addBudget, addIncome, addExpense)

	removeCmd.AddCommand(
		&cobra.Command{Use: "debt <id>", Short: "Remove a debt", Args: cobra.ExactArgs(1), RunE: runRemove("debt")},
		&cobra.Command{Use: "goal <id>", Short: "Remove a goal", Args: cobra.ExactArgs(1), RunE: runRemove("goal")},
		&cobra.Command{Use: "income <id>", Short: "Remove an income", Args: cobra.ExactArgs(1), RunE: runRemove("income")},
		&cobra.Command{Use: "expense <id>", Short: "Remove a bill", Args: cobra.ExactArgs(1), RunE: runRemove("expense")},
	)

	rootCmd.AddCommand(importCmd, payCmd, addCmd, removeCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	if flagImportPrintSample {
		_, err := os.Stdout.Write(source.SampleTOML())
		return err
	}

	var doc source.Document
	switch {
	case flagImportSample && len(args) == 0:
		doc = source.Sample()
	case !flagImportSample && len(args) == 1:
		var err error
		if doc, err = source.ParseFile(args[0]); err != nil {
			return err
		}
	default:
		return errors.New("give a household file or --sample, not both")
	}
	period := doc.Period
	if period == "" {
		period = currentPeriod()
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if !flagImportForce {
		existing, err := st.Snapshot(0)
		if err != nil {
			return err
		}
		n := len(existing.Debts) + len(existing.Goals) + len(existing.Budgets) + len(existing.Incomes) + len(existing.Expenses)
		if n > 0 {
			return fmt.Errorf("store already has %d records; pass --force to replace them", n)
		}
	}

	h := doc.Household
	if err := st.ReplaceHousehold(h, period); err != nil {
		return err
	}
	fmt.Printf("  Imported %d debts, %d goals, %d budgets, %d history rows, %d incomes and %d bills (period %s)\n",
		len(h.Debts), len(h.Goals), len(h.Budgets), len(h.History), len(h.Incomes), len(h.Expenses), period)
	fmt.Printf("  Database: %s\n", dbPath())
	return nil
}

func runPay(_ *cobra.Command, args []string) error {
	amount, err := parseAmountArg("amount", args[1])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	res, err := st.ApplyPayment(args[0], amount, rt.today)
	if err != nil {
		return err
	}
	cur := st.Currency()
	if res.Removed {
		fmt.Printf("  Paid %s. Debt %s is paid off!\n", formatMoney(res.Applied, cur), args[0])
		return nil
	}
	fmt.Printf("  Paid %s. Remaining balance: %s\n", formatMoney(res.Applied, cur), formatMoney(res.Remaining, cur))
	if res.Applied < amount {
		fmt.Printf("  Only the balance was applied; %s was not used.\n", formatMoney(amount-res.Applied, cur))
	}
	if d, err := st.GetDebt(args[0]); err == nil && d.Installments > 0 {
		fmt.Printf("  Installments: %d of %d paid\n", res.InstallmentsPaid, d.Installments)
	}
	if total, err := st.PaymentsTotal(args[0]); err == nil {
		fmt.Printf("  Paid to date: %s\n", formatMoney(total, cur))
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validAmount(s string) error {
	m, err := money.Parse(s)
	if err != nil {
		return errors.New("not an amount")
	}
	if m < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validRate(s string) error {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return errors.New("not a number")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("want YYYY-MM-DD")
	}
	return nil
}

func runAddDebt(_ *cobra.Command, _ []string) error {
	if flagDebtKind == "" {
		flagDebtKind = "card"
	}
	if flagDebtName == "" || flagDebtBalance == "" || flagDebtPayment == "" || flagDebtRate == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&flagDebtName).Validate(required("name")),
			huh.NewSelect[string]().Title("Kind").
				Options(huh.NewOption("Credit card", "card"), huh.NewOption("Installment loan", "loan")).
				Value(&flagDebtKind),
			huh.NewInput().Title("Balance").Value(&flagDebtBalance).Validate(validAmount),
			huh.NewInput().Title("Monthly payment").Value(&flagDebtPayment).Validate(validAmount),
			huh.NewInput().Title("Monthly rate (%)").Value(&flagDebtRate).Validate(validRate),
		)).Run()
		if err != nil {
			return err
		}
	}

	kind, err := model.ParseKind(flagDebtKind)
	if err != nil {
		return err
	}
	balance, err := money.Parse(flagDebtBalance)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	payment, err := money.Parse(flagDebtPayment)
	if err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	if err := validRate(flagDebtRate); err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	d := model.Debt{
		ID:             flagDebtID,
		Name:           strings.TrimSpace(flagDebtName),
		Kind:           kind,
		Balance:        balance,
		MonthlyPayment: payment,
		MonthlyRate:    decimal.RequireFromString(strings.TrimSuffix(strings.TrimSpace(flagDebtRate), "%")),

		DueDay:           flagDebtDueDay,
		ClosingDay:       flagDebtClosingDay,
		Installments:     flagDebtInstallments,
		PaidInstallments: flagDebtPaidInstallments,
	}
	if flagDebtLimit != "" {
		if d.CreditLimit, err = money.Parse(flagDebtLimit); err != nil {
			return fmt.Errorf("limit: %w", err)
		}
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := engine.ValidateDebt(d); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if d, err = st.PutDebt(d); err != nil {
		return err
	}
	a := engine.Score(d, d.MonthlyPayment, rt.weights)
	fmt.Printf("  Saved debt %s (%s). Score on its own: %d\n", d.Name, d.ID, a.Score)
	return nil
}

func runAddGoal(_ *cobra.Command, _ []string) error {
	if flagGoalCurrent == "" {
		flagGoalCurrent = "0"
	}
	if flagGoalName == "" || flagGoalTarget == "" || flagGoalDeadline == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&flagGoalName).Validate(required("name")),
			huh.NewInput().Title("Target").Value(&flagGoalTarget).Validate(validAmount),
			huh.NewInput().Title("Saved so far").Value(&flagGoalCurrent).Validate(validAmount),
			huh.NewInput().Title("Deadline").Placeholder("YYYY-MM-DD").Value(&flagGoalDeadline).Validate(validDate),
		)).Run()
		if err != nil {
			return err
		}
	}

	target, err := money.Parse(flagGoalTarget)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	current, err := money.Parse(flagGoalCurrent)
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}
	deadline, err := time.Parse("2006-01-02", strings.TrimSpace(flagGoalDeadline))
	if err != nil {
		return fmt.Errorf("deadline: want YYYY-MM-DD, got %q", flagGoalDeadline)
	}
	g := model.Goal{
		ID:       flagGoalID,
		Name:     strings.TrimSpace(flagGoalName),
		Target:   target,
		Current:  current,
		Deadline: deadline,
		Category: flagGoalCategory,
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	p, err := engine.Project(g, rt.today)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if g, err = st.PutGoal(g); err != nil {
		return err
	}
	fmt.Printf("  Saved goal %s (%s). Set aside %s/month.\n", g.Name, g.ID, formatMoney(p.RecommendedMonthly, st.Currency()))
	return nil
}

func runAddBudget(_ *cobra.Command, args []string) error {
	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	if flagBudgetLimit == "" {
		err := huh.NewInput().
			Title(fmt.Sprintf("Monthly limit for %s", c.Label())).
			Value(&flagBudgetLimit).
			Validate(validAmount).
			Run()
		if err != nil {
			return err
		}
	}
	limit, err := money.Parse(flagBudgetLimit)
	if err != nil {
		return fmt.Errorf("limit: %w", err)
	}
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %s", limit)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.SetLimit(c, limit); err != nil {
		return err
	}
	fmt.Printf("  %s limit set to %s\n", c.Label(), formatMoney(limit, st.Currency()))
	return nil
}

// dateFlag parses a YYYY-MM-DD flag value, defaulting to today.
func dateFlag(name, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return rt.today, nil
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return d, fmt.Errorf("%s: want YYYY-MM-DD, got %q", name, s)
	}
	return d, nil
}

func runAddIncome(_ *cobra.Command, _ []string) error {
	if flagIncomeName == "" || flagIncomeAmount == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Description").Value(&flagIncomeName).Validate(required("description")),
			huh.NewInput().Title("Amount").Value(&flagIncomeAmount).Validate(validAmount),
			huh.NewConfirm().Title("Every month?").Value(&flagIncomeRecurring),
		)).Run()
		if err != nil {
			return err
		}
	}
	amount, err := parseAmountArg("amount", flagIncomeAmount)
	if err != nil {
		return err
	}
	src, err := model.ParseIncomeSource(flagIncomeSource)
	if err != nil {
		return err
	}
	received, err := dateFlag("date", flagIncomeDate)
	if err != nil {
		return err
	}
	in := model.Income{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(flagIncomeName),
		Amount:    amount,
		Received:  received,
		Source:    src,
		Recurring: flagIncomeRecurring,
	}
	if err := engine.ValidateIncome(in); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if in, err = st.PutIncome(in); err != nil {
		return err
	}
	fmt.Printf("  Saved income %s (%s): %s\n", in.Name, in.ID, formatMoney(in.Amount, st.Currency()))
	return nil
}

func runAddExpense(_ *cobra.Command, _ []string) error {
	if flagExpenseName == "" || flagExpenseAmount == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Description").Value(&flagExpenseName).Validate(required("description")),
			huh.NewInput().Title("Amount").Value(&flagExpenseAmount).Validate(validAmount),
			huh.NewInput().Title("Due date").Placeholder("YYYY-MM-DD").Value(&flagExpenseDue).Validate(validDate),
			huh.NewSelect[string]().Title("Payment method").
				Options(huh.NewOption("Cash", "cash"), huh.NewOption("Debit card", "debit"),
					huh.NewOption("Credit card", "credit"), huh.NewOption("PIX", "pix"),
					huh.NewOption("Bank transfer", "transfer")).
				Value(&flagExpenseMethod),
			huh.NewConfirm().Title("Already paid?").Value(&flagExpensePaid),
		)).Run()
		if err != nil {
			return err
		}
	}
	amount, err := parseAmountArg("amount", flagExpenseAmount)
	if err != nil {
		return err
	}
	c, err := model.ParseCategory(flagExpenseCategory)
	if err != nil {
		return err
	}
	method, err := model.ParsePaymentMethod(flagExpenseMethod)
	if err != nil {
		return err
	}
	due, err := dateFlag("due", flagExpenseDue)
	if err != nil {
		return err
	}
	e := model.Expense{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(flagExpenseName),
		Amount:    amount,
		DueDate:   due,
		Category:  c,
		Method:    method,
		Recurring: flagExpenseRecurring,
	}
	if err := engine.ValidateExpense(e); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if e, err = st.PutExpense(e); err != nil {
		return err
	}
	// Paying through SetExpensePaid keeps the category spend in step.
	if flagExpensePaid {
		if e, err = st.SetExpensePaid(e.ID, true); err != nil {
			return err
		}
	}
	status := "pending"
	if e.Paid {
		status = "paid"
	}
	fmt.Printf("  Saved bill %s (%s): %s due %s, %s\n", e.Name, e.ID,
		formatMoney(e.Amount, st.Currency()), e.DueDate.Format("2006-01-02"), status)
	return nil
}

func runRemove(kind string) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		switch kind {
		case "debt":
			err = st.DeleteDebt(args[0])
		case "goal":
			err = st.DeleteGoal(args[0])
		case "income":
			err = st.DeleteIncome(args[0])
		case "expense":
			err = st.DeleteExpense(args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("  Removed %s %s\n", kind, args[0])
		return nil
	}
}
