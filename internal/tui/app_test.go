package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/tui/components"
)

var today = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func testHousehold() model.Household {
	return model.Household{
		Currency: "BRL",
		Debts: []model.Debt{
			{ID: "card", Name: "Card", Kind: model.RevolvingCard, Balance: money.MustParse("2800"),
				MonthlyPayment: money.MustParse("280"), MonthlyRate: decimal.RequireFromString("13.99")},
			{ID: "loan", Name: "Loan", Kind: model.InstallmentLoan, Balance: money.MustParse("6000"),
				MonthlyPayment: money.MustParse("500"), MonthlyRate: decimal.RequireFromString("2.5")},
		},
		Goals: []model.Goal{
			{ID: "trip", Name: "Trip", Target: money.MustParse("6000"), Current: money.MustParse("1500"),
				Deadline: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
		Budgets: []model.BudgetEntry{
			{Category: model.Food, Limit: money.MustParse("800"), Spent: money.MustParse("890"), Period: "2026-01"},
		},
		History: []model.PeriodSpend{
			{Period: "2025-12", Category: model.Food, Spent: money.MustParse("700")},
		},
	}
}

// loadedApp runs the initial load synchronously and returns the ready app.
func loadedApp(t *testing.T, h model.Household) App {
	t.Helper()
	a := NewApp(Options{
		Load:  func() (model.Household, error) { return h, nil },
		Today: today,
		Extra: money.MustParse("100"),
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)
	msg := loadDataCmd(a.load, a.opts)()
	m, _ = a.Update(msg)
	a = m.(App)
	if a.report == nil {
		t.Fatalf("report not loaded: %v", a.loadErr)
	}
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2
			if i != active {
				w += 2 // "[" and "]"
			}
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Fatalf("x past the last tab = %d, want -1", got)
		}
	}
}

func TestTabKeysSwitchTabs(t *testing.T) {
	a := loadedApp(t, testHousehold())
	for key, want := range map[string]int{"p": tabPlan, "g": tabGoals, "b": tabBudgets, "c": tabCoach, "d": tabDebts} {
		a = press(t, a, key)
		if a.activeTab != want {
			t.Fatalf("after %q activeTab = %d, want %d", key, a.activeTab, want)
		}
	}
}

func TestPlanExtraKeys(t *testing.T) {
	a := press(t, loadedApp(t, testHousehold()), "p")
	if a.plan.comparison == nil {
		t.Fatal("no plan after load")
	}
	base := a.plan.comparison.Snowball.TotalMonthsToFreedom

	a = press(t, a, "+", "+")
	if a.plan.extra != money.MustParse("300") {
		t.Fatalf("extra = %s, want 300.00", a.plan.extra)
	}
	if got := a.plan.comparison.Snowball.TotalMonthsToFreedom; got > base {
		t.Fatalf("more extra took longer: %d > %d", got, base)
	}

	a = press(t, a, "-", "-", "-", "-")
	if a.plan.extra != 0 {
		t.Fatalf("extra = %s, want floor at 0", a.plan.extra)
	}

	a = press(t, a, "0")
	if a.plan.extra != money.MustParse("100") {
		t.Fatalf("reset extra = %s, want 100.00", a.plan.extra)
	}
}

func TestDebtCursorClamps(t *testing.T) {
	a := loadedApp(t, testHousehold())
	a = press(t, a, "j", "j", "j")
	if a.debts.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.debts.cursor)
	}
	a = press(t, a, "k", "k", "k")
	if a.debts.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.debts.cursor)
	}
}

func TestCoachRoutesQuestions(t *testing.T) {
	a := press(t, loadedApp(t, testHousehold()), "c", "enter")
	if !a.coach.typing {
		t.Fatal("enter on coach tab did not focus the input")
	}
	// Tab shortcuts are text while typing.
	a = press(t, a, "what if I pay 300 extra?", "enter")
	if a.activeTab != tabCoach {
		t.Fatalf("typing switched tab to %d", a.activeTab)
	}
	if len(a.coach.exchanges) != 1 {
		t.Fatalf("exchanges = %d, want 1", len(a.coach.exchanges))
	}
	if got := a.coach.exchanges[0].reply.Intent; got != coach.IntentWhatIf {
		t.Fatalf("intent = %q, want %q", got, coach.IntentWhatIf)
	}
	if _, misses := a.memo.Stats(); misses < 2 {
		t.Fatalf("memo misses = %d, want the what-if to run a fresh plan", misses)
	}

	a = press(t, a, "esc")
	if a.coach.typing {
		t.Fatal("esc did not leave the input")
	}
}

func TestRefreshErrorKeepsReport(t *testing.T) {
	a := loadedApp(t, testHousehold())
	prev := a.report
	m, _ := a.Update(DataLoadedMsg{Err: errors.New("db locked")})
	a = m.(App)
	if a.report != prev {
		t.Fatal("failed refresh replaced the report")
	}
	if !strings.Contains(a.statusState(), "db locked") {
		t.Fatalf("status = %q, want the error", a.statusState())
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	for _, h := range []model.Household{testHousehold(), {Currency: "USD"}} {
		a := loadedApp(t, h)
		for i := range components.Tabs {
			a.activeTab = i
			if out := a.View(); out == "" {
				t.Fatalf("tab %d rendered nothing", i)
			}
		}
		a.showHelp = true
		if !strings.Contains(a.View(), "Keyboard Shortcuts") {
			t.Fatal("help overlay missing")
		}
	}
}

func TestSweepLimit(t *testing.T) {
	if got := sweepLimit(money.MustParse("2170")); got != money.MustParse("2200") {
		t.Fatalf("sweepLimit = %s, want 2200.00", got)
	}
	if got := sweepLimit(money.MustParse("50")); got != money.MustParse("1000") {
		t.Fatalf("sweepLimit = %s, want 1000.00", got)
	}
	limit := sweepLimit(money.MustParse("1000000"))
	if limit != money.MustParse("49900") {
		t.Fatalf("sweepLimit = %s, want 49900.00", limit)
	}
	if _, err := pipeline.Steps(limit, extraStep); err != nil {
		t.Fatalf("Steps at the clamped limit: %v", err)
	}
}

func TestSetupValidators(t *testing.T) {
	if ValidateCurrency("brl") != nil || ValidateCurrency("R$") == nil || ValidateCurrency("US1") == nil {
		t.Fatal("ValidateCurrency mismatch")
	}
	if ValidateExtra("150,50") != nil || ValidateExtra("-1") == nil || ValidateExtra("abc") == nil {
		t.Fatal("ValidateExtra mismatch")
	}
}

func TestCashFlowAndCreditDetail(t *testing.T) {
	h := testHousehold()
	h.Debts[0].CreditLimit, h.Debts[0].DueDay = money.MustParse("5000"), 20
	h.Debts[1].Installments, h.Debts[1].PaidInstallments = 30, 12
	h.Incomes = []model.Income{{ID: "salary", Name: "Salary", Amount: money.MustParse("8500"),
		Received: today, Source: model.Salary, Recurring: true}}
	a := loadedApp(t, h)

	card := a.creditRows("card")
	if len(card) != 3 || card[0][0] != "Limit" || card[2][1] != "Jan 20" {
		t.Fatalf("card rows = %v", card)
	}
	loan := a.creditRows("loan")
	if len(loan) != 2 || !strings.Contains(loan[0][1], "12 of 30") {
		t.Fatalf("loan rows = %v", loan)
	}
	if got := a.cashFlowMetrics(120); !strings.Contains(got, "Income") {
		t.Fatal("cash flow metrics missing with income recorded")
	}

	a = loadedApp(t, testHousehold())
	if got := a.cashFlowMetrics(120); got != "" {
		t.Fatalf("cash flow metrics without records = %q, want empty", got)
	}
}
