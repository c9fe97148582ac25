package coach

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
)

func TestAnswerRouting(t *testing.T) {
	in := fixture(t)
	cases := []struct {
		input    string
		expected Intent
	}{
		{"Como posso economizar mais?", IntentSave},
		{"which debt should I pay first?", IntentDebt},
		{"Qual dívida devo pagar?", IntentDebt},
		{"how is my goal progress", IntentGoal},
		{"como estão minhas metas", IntentGoal},
		{"budget status", IntentBudget},
		{"what if I pay 300 extra?", IntentWhatIf},
		{"e se eu pagar 1.500 a mais", IntentWhatIf},
		{"what if I pay more?", IntentDebt},
		{"quanto sobra da minha renda?", IntentCash},
		{"are my bills overdue", IntentCash},
		{"hello", IntentHelp},
	}
	for _, c := range cases {
		got := Answer(c.input, in, nil)
		if got.Intent != c.expected {
			t.Fatalf("Answer(%q).Intent = %s, want %s", c.input, got.Intent, c.expected)
		}
		if got.Text == "" {
			t.Fatalf("Answer(%q) returned empty text", c.input)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input    string
		expected money.Money
	}{
		{"what if i pay 300 extra", money.MustParse("300")},
		{"extra 1,500 per month", money.MustParse("1500")},
		{"extra 12,5", money.MustParse("12.5")},
		{"extra 99.90", money.MustParse("99.90")},
		{"e se eu pagar 1.500,00 a mais", money.MustParse("1500")},
		{"e se pagar 1.250.000 a mais", money.MustParse("1250000")},
		{"extra 2.345,5", money.MustParse("2345.5")},
		{"pay 300 extra on the 2nd debt", money.MustParse("300")},
		{"extra 1,500.50 then 20", money.MustParse("1500.50")},
		{"no numbers", 0},
	}
	for _, c := range cases {
		if got := parseAmount(c.input); got != c.expected {
			t.Fatalf("parseAmount(%q) = %s, want %s", c.input, got, c.expected)
		}
	}
}

func TestAnswerWhatIfReadsBrazilianAmount(t *testing.T) {
	var asked money.Money
	whatIf := func(extra money.Money) (engine.Comparison, error) {
		asked = extra
		return engine.Comparison{Extra: extra}, nil
	}
	reply := Answer("E se eu pagar R$ 1.500,00 a mais?", Input{Currency: "BRL"}, whatIf)
	if reply.Intent != IntentWhatIf {
		t.Fatalf("intent = %s, want what-if", reply.Intent)
	}
	if asked != money.MustParse("1500") {
		t.Fatalf("what-if extra = %s, want 1500.00", asked)
	}
}

func TestAnswerWhatIfRunsSimulation(t *testing.T) {
	in := fixture(t)
	var asked money.Money
	whatIf := func(extra money.Money) (engine.Comparison, error) {
		asked = extra
		return engine.Compare(engine.Debts(in.Ranked), extra)
	}
	got := Answer("what if I pay 1000 extra", in, whatIf)
	if asked != money.MustParse("1000") {
		t.Fatalf("simulated extra = %s, want 1000.00", asked)
	}
	if !strings.Contains(got.Text, "debt-free in") {
		t.Fatalf("Text = %q", got.Text)
	}

	failing := func(money.Money) (engine.Comparison, error) { return engine.Comparison{}, errors.New("boom") }
	got = Answer("what if I pay 1000 extra", in, failing)
	if !strings.Contains(got.Text, "boom") {
		t.Fatalf("Text = %q, want the simulation error", got.Text)
	}
}

func TestAnswerDebtListsOrder(t *testing.T) {
	got := Answer("which debt first?", fixture(t), nil)
	if !strings.Contains(got.Text, "1. Nubank, 2. Personal loan") {
		t.Fatalf("Text = %q", got.Text)
	}
}

func TestAnswerCashFlow(t *testing.T) {
	in := Input{Currency: "BRL", CashFlow: engine.CashFlowSummary{
		Income:       money.MustParse("8500"),
		Expenses:     money.MustParse("671.32"),
		DebtService:  money.MustParse("2170"),
		Net:          money.MustParse("5658.68"),
		Overdue:      money.MustParse("248"),
		OverdueCount: 1,
	}}
	got := Answer("how are my bills?", in, nil)
	if got.Intent != IntentCash {
		t.Fatalf("Intent = %s, want cash-flow", got.Intent)
	}
	if !strings.Contains(got.Text, "R$ 5,658.68") || !strings.Contains(got.Text, "overdue") {
		t.Fatalf("Text = %q", got.Text)
	}
	if got := Answer("minhas contas", Input{}, nil); !strings.Contains(got.Text, "fincoach add income") {
		t.Fatalf("empty cash flow reply = %q", got.Text)
	}
}
