package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

func mustDate(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func testDebt(id string, kind model.DebtKind, balance, payment, rate string) model.Debt {
	return model.Debt{
		ID:             id,
		Name:           id,
		Kind:           kind,
		Balance:        money.MustParse(balance),
		MonthlyPayment: money.MustParse(payment),
		MonthlyRate:    decimal.RequireFromString(rate),
	}
}

func testHousehold(t testing.TB) model.Household {
	return model.Household{
		Currency: "BRL",
		Debts: []model.Debt{
			testDebt("personal-loan", model.InstallmentLoan, "9000", "500", "1.99"),
			testDebt("nubank", model.RevolvingCard, "1850", "185", "13.99"),
			testDebt("paid", model.RevolvingCard, "0", "50", "10"),
		},
		Goals: []model.Goal{
			{ID: "g", Name: "Emergency fund", Target: money.MustParse("15000"), Current: money.MustParse("8900"),
				Deadline: mustDate(t, "2026-06-30")},
		},
		Budgets: []model.BudgetEntry{
			{Category: model.Food, Limit: money.MustParse("800"), Spent: money.MustParse("890")},
			{Category: model.Housing, Limit: money.MustParse("2000"), Spent: money.MustParse("1000")},
		},
	}
}

func TestAnalyze(t *testing.T) {
	r, err := Analyze(testHousehold(t), Options{Today: mustDate(t, "2026-01-01"), Extra: money.MustParse("1000")})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(r.Ranked) != 2 {
		t.Fatalf("ranked %d debts, want 2 (paid-off excluded)", len(r.Ranked))
	}
	if r.Ranked[0].Debt.ID != "nubank" {
		t.Fatalf("top debt = %s, want nubank", r.Ranked[0].Debt.ID)
	}
	if r.TotalDebt != money.MustParse("10850") {
		t.Fatalf("TotalDebt = %s, want 10850.00", r.TotalDebt)
	}
	if r.TotalMonthly != money.MustParse("685") {
		t.Fatalf("TotalMonthly = %s, want 685.00", r.TotalMonthly)
	}
	if r.Plan == nil || !r.Plan.Snowball.Converged {
		t.Fatal("plan missing or unconverged with 1000 extra")
	}
	if len(r.Goals) != 1 || r.Goals[0].Status != engine.OnTrack {
		t.Fatalf("goals = %+v", r.Goals)
	}
	if len(r.Insights) == 0 {
		t.Fatal("no insights generated")
	}

	hl := r.Headline()
	if hl.TopDebt != "nubank" || hl.MonthsToFreedom != r.Plan.Snowball.TotalMonthsToFreedom {
		t.Fatalf("headline = %+v", hl)
	}
	if hl.Warnings == 0 {
		t.Fatal("headline counts no warnings; food is over budget")
	}
}

func TestAnalyzeNoDebts(t *testing.T) {
	h := testHousehold(t)
	h.Debts = nil
	r, err := Analyze(h, Options{Today: mustDate(t, "2026-01-01")})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Plan != nil {
		t.Fatal("plan set without debts")
	}
	if !r.Headline().Converged {
		t.Fatal("headline not converged without debts")
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	h := testHousehold(t)
	h.Debts[0].Balance = -1
	if _, err := Analyze(h, Options{Today: mustDate(t, "2026-01-01")}); !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSweepMatchesSimulate(t *testing.T) {
	h := testHousehold(t)
	ranked, err := engine.Rank(h.Debts, engine.DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	ordered := engine.Debts(ranked)
	extras, err := Steps(money.MustParse("2000"), money.MustParse("250"))
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}
	if len(extras) != 9 {
		t.Fatalf("Steps = %d points, want 9", len(extras))
	}

	var calls atomic.Int64
	points, err := Sweep(ordered, extras, func(current, total int) {
		calls.Add(1)
		if total != len(extras) || current < 1 || current > total {
			t.Errorf("progress(%d, %d) out of range", current, total)
		}
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if int(calls.Load()) != len(extras) {
		t.Fatalf("progress called %d times, want %d", calls.Load(), len(extras))
	}
	for i, p := range points {
		if p.Extra != extras[i] {
			t.Fatalf("point %d extra = %s, want %s", i, p.Extra, extras[i])
		}
		r, err := engine.Simulate(ordered, extras[i])
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if p.Months != r.TotalMonthsToFreedom || p.InterestPaid != r.TotalInterestPaid || p.Converged != r.Converged {
			t.Fatalf("point %d = %+v, simulate says %d months %s interest", i, p, r.TotalMonthsToFreedom, r.TotalInterestPaid)
		}
	}
}

func TestSweepPropagatesInvalidInput(t *testing.T) {
	d := testDebt("d", model.InstallmentLoan, "100", "10", "1")
	_, err := Sweep([]model.Debt{d}, []money.Money{0, -1}, nil)
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMemoKeysOnExactInput(t *testing.T) {
	m := NewMemo(8)
	d := testDebt("d", model.InstallmentLoan, "1000", "100", "1")

	a, err := m.Compare([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	b, err := m.Compare([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("hits/misses = %d/%d, want 1/1", hits, misses)
	}
	if a.Snowball.TotalInterestPaid != b.Snowball.TotalInterestPaid {
		t.Fatal("cached result differs")
	}

	// A different rate is a different key even though decimals hide their fields.
	d.MonthlyRate = decimal.RequireFromString("2")
	c, err := m.Compare([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if _, misses := m.Stats(); misses != 2 {
		t.Fatalf("misses = %d, want 2 after rate change", misses)
	}
	if c.Snowball.TotalInterestPaid <= a.Snowball.TotalInterestPaid {
		t.Fatal("higher rate did not raise interest; stale cache entry served")
	}
}

func TestMemoHandsOutIndependentCopies(t *testing.T) {
	m := NewMemo(8)
	ordered := []model.Debt{
		testDebt("card", model.RevolvingCard, "1850", "185", "13.99"),
		testDebt("loan", model.InstallmentLoan, "9000", "500", "1.99"),
	}

	first, err := m.Compare(ordered, money.MustParse("300"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	wantEnd := first.Snowball.Schedules[0].Entries[0].End
	wantName := first.Baseline.Schedules[1].Name

	first.Snowball.Schedules[0].Entries[0].End = 0
	first.Baseline.Schedules[1].Name = "changed"
	first.Snowball.Schedules = first.Snowball.Schedules[:1]

	second, err := m.Compare(ordered, money.MustParse("300"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if hits, _ := m.Stats(); hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if len(second.Snowball.Schedules) != 2 {
		t.Fatalf("cached schedules = %d, want 2", len(second.Snowball.Schedules))
	}
	if got := second.Snowball.Schedules[0].Entries[0].End; got != wantEnd {
		t.Fatalf("cached month 1 end = %s, want %s", got, wantEnd)
	}
	if got := second.Baseline.Schedules[1].Name; got != wantName {
		t.Fatalf("cached baseline name = %q, want %q", got, wantName)
	}

	second.Snowball.Schedules[0].Entries[0].Interest = -1
	third, err := m.Compare(ordered, money.MustParse("300"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if third.Snowball.Schedules[0].Entries[0].Interest < 0 {
		t.Fatal("mutating a cache hit changed the cached value")
	}
}

func TestMemoResetsAtLimit(t *testing.T) {
	m := NewMemo(2)
	d := testDebt("d", model.InstallmentLoan, "1000", "100", "1")
	for _, extra := range []money.Money{0, 100, 200} {
		if _, err := m.Compare([]model.Debt{d}, extra); err != nil {
			t.Fatalf("Compare: %v", err)
		}
	}
	m.mu.Lock()
	size := m.size
	m.mu.Unlock()
	if size != 1 {
		t.Fatalf("size = %d, want 1 after reset", size)
	}
}

func TestStepsRejectsOversizedGridBeforeAllocating(t *testing.T) {
	limit := money.MustParse("100000000")
	step := money.MustParse("0.01")
	if n := StepCount(limit, step); n != 10_000_000_001 {
		t.Fatalf("StepCount = %d, want 10000000001", n)
	}
	extras, err := Steps(limit, step)
	if !errors.Is(err, ErrSweepTooLarge) {
		t.Fatalf("err = %v, want ErrSweepTooLarge", err)
	}
	if extras != nil {
		t.Fatalf("Steps returned %d budgets with an error", len(extras))
	}

	extras, err = Steps(money.Money(MaxSweepPoints-1), 1)
	if err != nil {
		t.Fatalf("Steps at the cap: %v", err)
	}
	if len(extras) != MaxSweepPoints {
		t.Fatalf("Steps = %d points, want %d", len(extras), MaxSweepPoints)
	}
}

func TestAnalyzeCashFlowAndCredit(t *testing.T) {
	h := testHousehold(t)
	h.Debts[0].Installments, h.Debts[0].PaidInstallments = 30, 12
	h.Debts[1].CreditLimit, h.Debts[1].DueDay = money.MustParse("5000"), 15
	h.Incomes = []model.Income{{ID: "salary", Name: "Salary", Amount: money.MustParse("8500"),
		Received: mustDate(t, "2025-06-05"), Source: model.Salary, Recurring: true}}
	h.Expenses = []model.Expense{{ID: "power", Name: "Power", Amount: money.MustParse("248"),
		DueDate: mustDate(t, "2025-12-20"), Category: model.Utilities, Recurring: true}}

	r, err := Analyze(h, Options{Today: mustDate(t, "2026-01-21")})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// 8500 - 248 - 685 in debt payments.
	if r.CashFlow.Net != money.MustParse("7567") || r.CashFlow.OverdueCount != 1 {
		t.Fatalf("CashFlow = %+v", r.CashFlow)
	}
	if len(r.Cards) != 1 || r.Cards[0].UtilizationPercent != 37 {
		t.Fatalf("Cards = %+v", r.Cards)
	}
	if len(r.Loans) != 1 || r.Loans[0].Remaining != 18 {
		t.Fatalf("Loans = %+v", r.Loans)
	}
	hl := r.Headline()
	if hl.Net != r.CashFlow.Net || hl.Overdue != 1 {
		t.Fatalf("headline = %+v", hl)
	}
	var overdue bool
	for _, in := range r.Insights {
		overdue = overdue || in.Rule == "bills-overdue"
	}
	if !overdue {
		t.Fatal("no bills-overdue insight for an unpaid past-due bill")
	}
}
