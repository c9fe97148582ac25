package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

func parseString(t *testing.T, s string) (Document, error) {
	t.Helper()
	return Parse(strings.NewReader(s))
}

func TestParse_AmountForms(t *testing.T) {
	doc, err := parseString(t, `
[[debt]]
id = "a"
name = "String"
kind = "card"
balance = "1850.005"
payment = 185
rate = "13.99%"

[[debt]]
id = "b"
name = "Float"
kind = "empréstimo"
balance = 9000.5
payment = "500,00"
rate = 2
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	debts := doc.Household.Debts
	if len(debts) != 2 {
		t.Fatalf("debts = %d, want 2", len(debts))
	}

	cases := []struct {
		got, want money.Money
		what      string
	}{
		{debts[0].Balance, 185001, "string balance (half-up)"},
		{debts[0].MonthlyPayment, 18500, "integer payment"},
		{debts[1].Balance, 900050, "float balance"},
		{debts[1].MonthlyPayment, 50000, "comma payment"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %d cents, want %d", c.what, c.got, c.want)
		}
	}
	if debts[0].MonthlyRate.String() != "13.99" {
		t.Errorf("rate = %s, want 13.99", debts[0].MonthlyRate)
	}
	if debts[1].Kind != model.InstallmentLoan {
		t.Errorf("kind = %v, want loan", debts[1].Kind)
	}
}

func TestParse_Dates(t *testing.T) {
	doc, err := parseString(t, `
[[goal]]
name = "Local date"
target = 100
current = 0
deadline = 2026-06-30

[[goal]]
name = "String date"
target = 100
current = 0
deadline = "2026-12-31"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []time.Time{
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, g := range doc.Household.Goals {
		if !g.Deadline.Equal(want[i]) || g.Deadline.Location() != time.UTC {
			t.Errorf("goal %d deadline = %v, want %v", i, g.Deadline, want[i])
		}
		if g.ID == "" {
			t.Errorf("goal %d has no id", i)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"negative balance", `
[[debt]]
name = "Bad"
kind = "card"
balance = -1
payment = 10
rate = 1`, "debt #1 (Bad)"},
		{"unknown kind", `
[[debt]]
name = "Odd"
kind = "mortgage"
balance = 1
payment = 1
rate = 1`, "unknown debt kind"},
		{"duplicate id", `
[[debt]]
id = "x"
name = "One"
kind = "card"
balance = 1
payment = 1
rate = 1
[[debt]]
id = "x"
name = "Two"
kind = "card"
balance = 1
payment = 1
rate = 1`, "duplicate id"},
		{"missing deadline", `
[[goal]]
name = "Someday"
target = 100`, "missing deadline"},
		{"unknown category", `
[[budget]]
category = "pets"
limit = 100`, "unknown category"},
		{"duplicate budget", `
[[budget]]
category = "food"
limit = 100
[[budget]]
category = "alimentação"
limit = 200`, "listed twice"},
		{"bad period", `
period = "January"
[[budget]]
category = "food"
limit = 100`, "want YYYY-MM"},
		{"unknown key", `
[[debt]]
name = "Typo"
kind = "card"
balanse = 100`, "unknown key"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parseString(t, c.in)
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("error = %q, want it to mention %q", err, c.want)
			}
		})
	}
}

func TestParse_NegativeBalanceIsInvalidInput(t *testing.T) {
	_, err := parseString(t, `
[[debt]]
name = "Bad"
kind = "card"
balance = 1
payment = -10
rate = 1`)
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := parseString(t, `currency = "BRL"`); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("error = %v, want ErrNoRecords", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.toml")
	if err := os.WriteFile(path, SampleTOML(), 0o600); err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(doc.Household.Debts) != 5 {
		t.Fatalf("debts = %d, want 5", len(doc.Household.Debts))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v, want ErrNotExist", err)
	}
}

func TestSample(t *testing.T) {
	doc := Sample()
	h := doc.Household

	if h.Currency != "BRL" || doc.Period != "2026-01" {
		t.Fatalf("currency/period = %s/%s, want BRL/2026-01", h.Currency, doc.Period)
	}
	if got := h.TotalDebt(); got != money.MustParse("41700") {
		t.Errorf("TotalDebt = %s, want 41700.00", got)
	}
	if got := h.TotalMonthlyPayments(); got != money.MustParse("2170") {
		t.Errorf("TotalMonthlyPayments = %s, want 2170.00", got)
	}
	if len(h.Goals) != 3 || len(h.Budgets) != 7 || len(h.History) != 3 {
		t.Errorf("goals/budgets/history = %d/%d/%d, want 3/7/3", len(h.Goals), len(h.Budgets), len(h.History))
	}
	for _, b := range h.Budgets {
		if b.Period != "2026-01" {
			t.Errorf("budget %s period = %q, want 2026-01", b.Category, b.Period)
		}
	}

	if len(h.Incomes) != 1 || len(h.Expenses) != 6 {
		t.Errorf("incomes/expenses = %d/%d, want 1/6", len(h.Incomes), len(h.Expenses))
	}
	if h.Debts[0].CreditLimit != money.MustParse("5000") || h.Debts[1].Installments != 30 {
		t.Errorf("credit fields not read: %+v %+v", h.Debts[0], h.Debts[1])
	}

	ranked, err := engine.Rank(h.Debts, engine.DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if ranked[0].Debt.ID != "nubank" {
		t.Errorf("top priority = %s, want nubank", ranked[0].Debt.ID)
	}
}

func TestParse_IncomeAndExpense(t *testing.T) {
	doc, err := parseString(t, `
[[income]]
name = "Freela"
amount = "1200,00"
date = 2026-01-20
source = "freelance"

[[expense]]
name = "Aluguel"
amount = 1800
due = "2026-01-10"
category = "moradia"
method = "transferência"
recurring = true

[[expense]]
name = "Padaria"
amount = 20
due = 2026-01-11
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h := doc.Household
	if len(h.Incomes) != 1 || h.Incomes[0].Amount != money.MustParse("1200") || h.Incomes[0].Source != model.Freelance {
		t.Fatalf("Incomes = %+v", h.Incomes)
	}
	rent, bakery := h.Expenses[0], h.Expenses[1]
	if rent.Category != model.Housing || rent.Method != model.Transfer || !rent.Recurring {
		t.Fatalf("rent = %+v", rent)
	}
	if bakery.Category != model.Other || bakery.Method != model.Cash || bakery.ID == "" {
		t.Fatalf("defaults not applied: %+v", bakery)
	}
}

func TestParse_CashFlowErrors(t *testing.T) {
	cases := map[string]string{
		"income without date":  "[[income]]\nname = \"x\"\namount = 1",
		"unknown source":       "[[income]]\nname = \"x\"\namount = 1\ndate = 2026-01-01\nsource = \"lottery\"",
		"expense without due":  "[[expense]]\nname = \"x\"\namount = 1",
		"unknown method":       "[[expense]]\nname = \"x\"\namount = 1\ndue = 2026-01-01\nmethod = \"cheque\"",
		"loan with limit":      "[[debt]]\nname = \"x\"\nkind = \"loan\"\nbalance = 1\npayment = 1\nrate = 1\nlimit = 100",
		"overpaid installment": "[[debt]]\nname = \"x\"\nkind = \"loan\"\nbalance = 1\npayment = 1\nrate = 1\ninstallments = 2\npaid_installments = 3",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseString(t, body); err == nil {
				t.Fatalf("Parse succeeded, want error")
			}
		})
	}
}
