package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func fixture(t *testing.T) Input {
	t.Helper()
	debts := []model.Debt{
		{ID: "a", Name: "Nubank", Kind: model.RevolvingCard, Balance: money.MustParse("1850"),
			MonthlyPayment: money.MustParse("185"), MonthlyRate: decimal.RequireFromString("13.99")},
		{ID: "b", Name: "Personal loan", Kind: model.InstallmentLoan, Balance: money.MustParse("9000"),
			MonthlyPayment: money.MustParse("500"), MonthlyRate: decimal.RequireFromString("1.99")},
	}
	ranked, err := engine.Rank(debts, engine.DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	plan, err := engine.Compare(engine.Debts(ranked), money.MustParse("1000"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	budget, err := engine.EvaluateAll([]model.BudgetEntry{
		{Category: model.Housing, Limit: money.MustParse("2000"), Spent: money.MustParse("1700")},
		{Category: model.Food, Limit: money.MustParse("800"), Spent: money.MustParse("890")},
		{Category: model.Leisure, Limit: money.MustParse("500"), Spent: money.MustParse("100")},
		{Category: model.Other, Limit: 0, Spent: money.MustParse("60")},
	})
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	today := mustDate(t, "2026-01-01")
	goals, err := engine.ProjectAll([]model.Goal{
		{ID: "g1", Name: "Emergency fund", Target: money.MustParse("15000"), Current: money.MustParse("8900"),
			Deadline: today.AddDate(0, 0, 180)},
		{ID: "g2", Name: "Notebook", Target: money.MustParse("5000"), Current: money.MustParse("5000"),
			Deadline: today.AddDate(0, 0, 30)},
		{ID: "g3", Name: "Trip", Target: money.MustParse("12000"), Current: money.MustParse("3200"),
			Deadline: today.AddDate(0, 0, -10)},
	}, today)
	if err != nil {
		t.Fatalf("ProjectAll: %v", err)
	}
	return Input{
		Currency: "BRL",
		Ranked:   ranked,
		Plan:     &plan,
		Budget:   budget,
		History: []model.PeriodSpend{
			{Period: "2025-09", Category: model.Food, Spent: money.MustParse("100")},
			{Period: "2025-10", Category: model.Food, Spent: money.MustParse("700")},
			{Period: "2025-11", Category: model.Food, Spent: money.MustParse("720")},
			{Period: "2025-12", Category: model.Food, Spent: money.MustParse("740")},
		},
		Goals: goals,
	}
}

func rulesOf(insights []model.Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Rule
	}
	return out
}

func find(t *testing.T, insights []model.Insight, rule string) model.Insight {
	t.Helper()
	for _, in := range insights {
		if in.Rule == rule {
			return in
		}
	}
	t.Fatalf("no %s insight in %v", rule, rulesOf(insights))
	return model.Insight{}
}

func TestGenerateOrder(t *testing.T) {
	got := rulesOf(Generate(fixture(t)))
	want := []string{
		"under-budget",
		"category-over",
		"category-approaching",
		"above-average",
		"limit-missing",
		"priority-debt",
		"snowball-savings",
		"never-paid-off",
		"goal-achieved",
		"goal-overdue",
		"goal-on-track",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("rules = %v\nwant    %v", got, want)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	in := fixture(t)
	a, b := Generate(in), Generate(in)
	if len(a) != len(b) {
		t.Fatalf("lengths %d and %d differ", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("insight %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAboveAverageUsesRecentPeriods(t *testing.T) {
	ins := find(t, Generate(fixture(t)), "above-average")
	if ins.Severity != model.Warning || ins.ActionTag != "view-details" {
		t.Fatalf("severity %s, action %q", ins.Severity, ins.ActionTag)
	}
	// 890 against the 720 average of the last three months; the older 100 is ignored.
	if ins.Title != "Food spending is 23% above average" {
		t.Fatalf("Title = %q", ins.Title)
	}
	if !strings.Contains(ins.Body, "R$ 720.00") || !strings.Contains(ins.Body, "R$ 890.00") {
		t.Fatalf("Body = %q", ins.Body)
	}
}

func TestUnderBudget(t *testing.T) {
	ins := find(t, Generate(fixture(t)), "under-budget")
	if ins.Severity != model.Success {
		t.Fatalf("Severity = %s, want success", ins.Severity)
	}
	// 550 left of 3300.
	if ins.Title != "You are 16% under budget this month" {
		t.Fatalf("Title = %q", ins.Title)
	}
}

func TestUnderBudgetNeedsMargin(t *testing.T) {
	in := Input{Budget: engine.BudgetSummary{TotalLimit: money.MustParse("1000"), TotalSpent: money.MustParse("851")}}
	if got := rulesOf(Generate(in)); len(got) != 0 {
		t.Fatalf("rules = %v, want none at 14.9%% under", got)
	}
	in.Budget.TotalSpent = money.MustParse("850")
	if got := rulesOf(Generate(in)); len(got) != 1 || got[0] != "under-budget" {
		t.Fatalf("rules = %v, want [under-budget] at 15%% under", got)
	}
}

func TestPriorityDebt(t *testing.T) {
	ins := find(t, Generate(fixture(t)), "priority-debt")
	if ins.Title != "Pay Nubank first" {
		t.Fatalf("Title = %q", ins.Title)
	}
	if ins.ActionTag != "simulate" {
		t.Fatalf("ActionTag = %q, want simulate", ins.ActionTag)
	}
}

func TestSnowballSavingsAgainstUnfinishedBaseline(t *testing.T) {
	ins := find(t, Generate(fixture(t)), "snowball-savings")
	if !strings.Contains(ins.Body, "never finishes") {
		t.Fatalf("Body = %q, want mention of the unfinished baseline", ins.Body)
	}
}

func TestPlanUnconverged(t *testing.T) {
	in := fixture(t)
	plan, err := engine.Compare(engine.Debts(in.Ranked), 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	in.Plan = &plan
	got := Generate(in)
	find(t, got, "plan-unconverged")
	for _, r := range rulesOf(got) {
		if r == "snowball-savings" {
			t.Fatal("snowball-savings fired for an unconverged plan")
		}
	}
}

func TestNoInsightsForEmptyInput(t *testing.T) {
	if got := Generate(Input{}); len(got) != 0 {
		t.Fatalf("Generate(empty) = %v, want none", rulesOf(got))
	}
}

func TestCashFlowRules(t *testing.T) {
	in := Input{Currency: "BRL", CashFlow: engine.CashFlowSummary{
		Income:       money.MustParse("3000"),
		Expenses:     money.MustParse("2800"),
		DebtService:  money.MustParse("500"),
		Net:          money.MustParse("-300"),
		SavingsRate:  -10,
		Overdue:      money.MustParse("248"),
		OverdueCount: 1,
	}}
	got := Generate(in)
	if r := rulesOf(got); strings.Join(r, ",") != "negative-cash-flow,bills-overdue" {
		t.Fatalf("rules = %v", r)
	}
	if ins := find(t, got, "negative-cash-flow"); ins.Title != "You are spending R$ 300.00 more than you earn" {
		t.Fatalf("Title = %q", ins.Title)
	}
	if ins := find(t, got, "bills-overdue"); ins.Title != "1 bill is overdue" {
		t.Fatalf("Title = %q", ins.Title)
	}

	in.CashFlow = engine.CashFlowSummary{Income: money.MustParse("8500"), Net: money.MustParse("2125"), SavingsRate: 25}
	if ins := find(t, Generate(in), "savings-rate"); ins.Title != "You keep 25% of your income" {
		t.Fatalf("Title = %q", ins.Title)
	}

	// Without income the savings rate is a fallback and stays silent.
	in.CashFlow = engine.CashFlowSummary{Expenses: money.MustParse("100"), Net: money.MustParse("-100"), Guarded: true}
	if r := rulesOf(Generate(in)); len(r) != 0 {
		t.Fatalf("rules = %v, want none without income", r)
	}
}

func TestCardUtilizationRule(t *testing.T) {
	card := model.Debt{ID: "c", Name: "Itaú", Kind: model.RevolvingCard, Balance: money.MustParse("850"),
		MonthlyPayment: money.MustParse("85"), MonthlyRate: decimal.RequireFromString("12.5"),
		CreditLimit: money.MustParse("1000"), DueDay: 20}
	low := card
	low.ID, low.Name, low.Balance = "n", "Nubank", money.MustParse("100")
	cards, err := engine.CardUsages([]model.Debt{card, low}, mustDate(t, "2026-01-05"))
	if err != nil {
		t.Fatalf("CardUsages: %v", err)
	}
	got := Generate(Input{Currency: "BRL", Cards: cards})
	if r := rulesOf(got); len(r) != 1 || r[0] != "card-utilization" {
		t.Fatalf("rules = %v, want one card-utilization", r)
	}
	ins := got[0]
	if ins.Title != "Itaú is using 85% of its limit" || !strings.Contains(ins.Body, "2026-01-20") {
		t.Fatalf("insight = %q / %q", ins.Title, ins.Body)
	}
}
