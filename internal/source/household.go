// Package source reads household files: the TOML description of a user's
// debts, goals, budgets, archived spend, incomes and bills.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// ErrNoRecords is returned for a household file without a single record.
var ErrNoRecords = errors.New("household file has no records")

// Document is a parsed household file.
type Document struct {
	Household model.Household
	// Period is the open budget period (YYYY-MM). Empty when the file
	// does not name one.
	Period string
}

type fileLayout struct {
	Currency string       `toml:"currency"`
	Period   string       `toml:"period"`
	Debts    []debtRow    `toml:"debt"`
	Goals    []goalRow    `toml:"goal"`
	Budgets  []budgetRow  `toml:"budget"`
	History  []historyRow `toml:"history"`
	Incomes  []incomeRow  `toml:"income"`
	Expenses []expenseRow `toml:"expense"`
}

type debtRow struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Balance Amount `toml:"balance"`
	Payment Amount `toml:"payment"`
	Rate    Rate   `toml:"rate"`

	Limit            Amount `toml:"limit"`
	DueDay           int    `toml:"due_day"`
	ClosingDay       int    `toml:"closing_day"`
	Installments     int    `toml:"installments"`
	PaidInstallments int    `toml:"paid_installments"`
}

type goalRow struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Target   Amount `toml:"target"`
	Current  Amount `toml:"current"`
	Deadline Date   `toml:"deadline"`
	Category string `toml:"category"`
}

type budgetRow struct {
	Category string `toml:"category"`
	Limit    Amount `toml:"limit"`
	Spent    Amount `toml:"spent"`
}

type incomeRow struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Amount    Amount `toml:"amount"`
	Date      Date   `toml:"date"`
	Source    string `toml:"source"`
	Recurring bool   `toml:"recurring"`
}

type expenseRow struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Amount    Amount `toml:"amount"`
	Due       Date   `toml:"due"`
	Category  string `toml:"category"`
	Method    string `toml:"method"`
	Paid      bool   `toml:"paid"`
	Recurring bool   `toml:"recurring"`
}

type historyRow struct {
	Period   string `toml:"period"`
	Category string `toml:"category"`
	Spent    Amount `toml:"spent"`
}

// Amount decodes a money value written as a string ("1850.00"), an integer
// (1850) or a float (1850.5). Integers are whole currency units.
type Amount struct{ money.Money }

// UnmarshalTOML implements toml.Unmarshaler.
func (a *Amount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		m, err := money.Parse(x)
		if err != nil {
			return err
		}
		a.Money = m
	case int64:
		if x > money.MaxAmount.Cents()/100 || x < -money.MaxAmount.Cents()/100 {
			return fmt.Errorf("amount %d out of range", x)
		}
		a.Money = money.FromCents(x * 100)
	case float64:
		d := decimal.NewFromFloat(x)
		if d.Abs().GreaterThan(money.MaxAmount.Decimal()) {
			return fmt.Errorf("amount %v out of range", x)
		}
		a.Money = money.FromDecimal(d)
	default:
		return fmt.Errorf("amount: unsupported value %T", v)
	}
	return nil
}

// Rate decodes a monthly percentage rate from a number or a string.
type Rate struct{ decimal.Decimal }

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Rate) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		if err != nil {
			return fmt.Errorf("rate %q: %w", x, err)
		}
		r.Decimal = d
	case int64:
		r.Decimal = decimal.NewFromInt(x)
	case float64:
		r.Decimal = decimal.NewFromFloat(x)
	default:
		return fmt.Errorf("rate: unsupported value %T", v)
	}
	return nil
}

// Date decodes a TOML local date or a "YYYY-MM-DD" string as a UTC civil date.
type Date struct{ time.Time }

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Date) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case time.Time:
		d.Time = time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
	case string:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(x))
		if err != nil {
			return fmt.Errorf("date %q: want YYYY-MM-DD", x)
		}
		d.Time = t
	default:
		return fmt.Errorf("date: unsupported value %T", v)
	}
	return nil
}

// ParseFile reads and validates the household file at path.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a household file. Records without an id are
// given a fresh one.
func Parse(r io.Reader) (Document, error) {
	var raw fileLayout
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return Document{}, fmt.Errorf("decoding household: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if len(raw.Debts)+len(raw.Goals)+len(raw.Budgets)+len(raw.History)+len(raw.Incomes)+len(raw.Expenses) == 0 {
		return Document{}, ErrNoRecords
	}
	if raw.Period != "" {
		if _, err := time.Parse("2006-01", raw.Period); err != nil {
			return Document{}, fmt.Errorf("period %q: want YYYY-MM", raw.Period)
		}
	}

	doc := Document{Period: raw.Period}
	h := &doc.Household
	h.Currency = strings.ToUpper(strings.TrimSpace(raw.Currency))

	seen := make(map[string]bool)
	for i, row := range raw.Debts {
		d, err := row.debt()
		if err != nil {
			return Document{}, fmt.Errorf("debt #%d (%s): %w", i+1, row.Name, err)
		}
		if seen[d.ID] {
			return Document{}, fmt.Errorf("debt #%d (%s): duplicate id %q", i+1, row.Name, d.ID)
		}
		seen[d.ID] = true
		h.Debts = append(h.Debts, d)
	}

	for i, row := range raw.Goals {
		g, err := row.goal()
		if err != nil {
			return Document{}, fmt.Errorf("goal #%d (%s): %w", i+1, row.Name, err)
		}
		h.Goals = append(h.Goals, g)
	}

	budgeted := make(map[model.Category]bool)
	for i, row := range raw.Budgets {
		c, err := model.ParseCategory(row.Category)
		if err != nil {
			return Document{}, fmt.Errorf("budget #%d: %w", i+1, err)
		}
		if budgeted[c] {
			return Document{}, fmt.Errorf("budget #%d: category %s listed twice", i+1, c)
		}
		if row.Limit.Money < 0 || row.Spent.Money < 0 {
			return Document{}, fmt.Errorf("budget #%d (%s): negative amount", i+1, c)
		}
		budgeted[c] = true
		h.Budgets = append(h.Budgets, model.BudgetEntry{
			Category: c,
			Limit:    row.Limit.Money,
			Spent:    row.Spent.Money,
			Period:   raw.Period,
		})
	}

	for i, row := range raw.History {
		c, err := model.ParseCategory(row.Category)
		if err != nil {
			return Document{}, fmt.Errorf("history #%d: %w", i+1, err)
		}
		if _, err := time.Parse("2006-01", row.Period); err != nil {
			return Document{}, fmt.Errorf("history #%d: period %q: want YYYY-MM", i+1, row.Period)
		}
		if row.Spent.Money < 0 {
			return Document{}, fmt.Errorf("history #%d (%s): negative amount", i+1, c)
		}
		h.History = append(h.History, model.PeriodSpend{Period: row.Period, Category: c, Spent: row.Spent.Money})
	}

	for i, row := range raw.Incomes {
		in, err := row.income()
		if err != nil {
			return Document{}, fmt.Errorf("income #%d (%s): %w", i+1, row.Name, err)
		}
		h.Incomes = append(h.Incomes, in)
	}

	for i, row := range raw.Expenses {
		e, err := row.expense()
		if err != nil {
			return Document{}, fmt.Errorf("expense #%d (%s): %w", i+1, row.Name, err)
		}
		h.Expenses = append(h.Expenses, e)
	}

	return doc, nil
}

func (row debtRow) debt() (model.Debt, error) {
	if strings.TrimSpace(row.Name) == "" {
		return model.Debt{}, errors.New("missing name")
	}
	kind, err := model.ParseKind(row.Kind)
	if err != nil {
		return model.Debt{}, err
	}
	d := model.Debt{
		ID:             row.ID,
		Name:           row.Name,
		Kind:           kind,
		Balance:        row.Balance.Money,
		MonthlyPayment: row.Payment.Money,
		MonthlyRate:    row.Rate.Decimal,

		CreditLimit:      row.Limit.Money,
		DueDay:           row.DueDay,
		ClosingDay:       row.ClosingDay,
		Installments:     row.Installments,
		PaidInstallments: row.PaidInstallments,
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := engine.ValidateDebt(d); err != nil {
		return model.Debt{}, err
	}
	return d, nil
}

func (row goalRow) goal() (model.Goal, error) {
	switch {
	case strings.TrimSpace(row.Name) == "":
		return model.Goal{}, errors.New("missing name")
	case row.Deadline.IsZero():
		return model.Goal{}, errors.New("missing deadline")
	case row.Target.Money < 0 || row.Current.Money < 0:
		return model.Goal{}, errors.New("negative amount")
	}
	g := model.Goal{
		ID:       row.ID,
		Name:     row.Name,
		Target:   row.Target.Money,
		Current:  row.Current.Money,
		Deadline: row.Deadline.Time,
		Category: row.Category,
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return g, nil
}

func (row incomeRow) income() (model.Income, error) {
	if strings.TrimSpace(row.Name) == "" {
		return model.Income{}, errors.New("missing name")
	}
	src := model.OtherIncome
	if row.Source != "" {
		var err error
		if src, err = model.ParseIncomeSource(row.Source); err != nil {
			return model.Income{}, err
		}
	}
	in := model.Income{
		ID:        row.ID,
		Name:      row.Name,
		Amount:    row.Amount.Money,
		Received:  row.Date.Time,
		Source:    src,
		Recurring: row.Recurring,
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if err := engine.ValidateIncome(in); err != nil {
		return model.Income{}, err
	}
	return in, nil
}

// expense defaults a missing category to other and a missing method to cash.
func (row expenseRow) expense() (model.Expense, error) {
	if strings.TrimSpace(row.Name) == "" {
		return model.Expense{}, errors.New("missing name")
	}
	e := model.Expense{
		ID:        row.ID,
		Name:      row.Name,
		Amount:    row.Amount.Money,
		DueDate:   row.Due.Time,
		Category:  model.Other,
		Method:    model.Cash,
		Paid:      row.Paid,
		Recurring: row.Recurring,
	}
	var err error
	if row.Category != "" {
		if e.Category, err = model.ParseCategory(row.Category); err != nil {
			return model.Expense{}, err
		}
	}
	if row.Method != "" {
		if e.Method, err = model.ParsePaymentMethod(row.Method); err != nil {
			return model.Expense{}, err
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := engine.ValidateExpense(e); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}
