package engine

import (
	"errors"
	"testing"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

func TestSimulateSingleDebtNoInterest(t *testing.T) {
	d := debt("d", model.InstallmentLoan, "1000", "100", "0")
	r, err := Simulate([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !r.Converged {
		t.Fatal("Converged = false, want true")
	}
	if r.TotalMonthsToFreedom != 10 {
		t.Fatalf("months = %d, want 10", r.TotalMonthsToFreedom)
	}
	if r.TotalInterestPaid != 0 {
		t.Fatalf("interest = %s, want 0", r.TotalInterestPaid)
	}
	if r.Schedules[0].PaidOffMonth != 10 {
		t.Fatalf("PaidOffMonth = %d, want 10", r.Schedules[0].PaidOffMonth)
	}
	if r.TotalPaid != money.MustParse("1000") {
		t.Fatalf("TotalPaid = %s, want 1000.00", r.TotalPaid)
	}
}

func TestSimulateReleasesPaymentNextMonth(t *testing.T) {
	small := debt("small", model.InstallmentLoan, "100", "50", "0")
	large := debt("large", model.InstallmentLoan, "1000", "100", "0")

	r, err := Simulate([]model.Debt{small, large}, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if r.Schedules[0].PaidOffMonth != 2 {
		t.Fatalf("small paid off in month %d, want 2", r.Schedules[0].PaidOffMonth)
	}
	// Month 2 pays only the scheduled 100; the released 50 starts in month 3.
	e := r.Schedules[1].Entries
	if e[1].Extra != 0 {
		t.Fatalf("month 2 extra = %s, want 0", e[1].Extra)
	}
	if e[2].Extra != money.MustParse("50") {
		t.Fatalf("month 3 extra = %s, want 50.00", e[2].Extra)
	}
	if r.TotalMonthsToFreedom != 8 {
		t.Fatalf("months = %d, want 8", r.TotalMonthsToFreedom)
	}
}

func TestSimulatePoolCascades(t *testing.T) {
	a := debt("a", model.InstallmentLoan, "100", "10", "0")
	b := debt("b", model.InstallmentLoan, "100", "10", "0")

	r, err := Simulate([]model.Debt{a, b}, money.MustParse("500"))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if r.TotalMonthsToFreedom != 1 {
		t.Fatalf("months = %d, want 1", r.TotalMonthsToFreedom)
	}
	for _, s := range r.Schedules {
		if s.Entries[0].Extra != money.MustParse("90") {
			t.Fatalf("%s extra = %s, want 90.00", s.DebtID, s.Entries[0].Extra)
		}
	}
}

func TestSimulateFrozenOrder(t *testing.T) {
	// The pool goes to the first debt in the given order even when a later
	// debt would be cheaper to clear.
	first := debt("first", model.InstallmentLoan, "1000", "10", "0")
	second := debt("second", model.InstallmentLoan, "50", "10", "0")

	r, err := Simulate([]model.Debt{first, second}, money.MustParse("100"))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if r.Schedules[1].Entries[0].Extra != 0 {
		t.Fatalf("second got extra %s in month 1, want 0", r.Schedules[1].Entries[0].Extra)
	}
	if r.Schedules[0].Entries[0].Extra != money.MustParse("100") {
		t.Fatalf("first got extra %s in month 1, want 100.00", r.Schedules[0].Entries[0].Extra)
	}
}

func TestSimulateInterestReconciles(t *testing.T) {
	ranked, err := Rank(householdDebts(), DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, extra := range []string{"0", "300", "1500"} {
		r, err := Simulate(Debts(ranked), money.MustParse(extra))
		if err != nil {
			t.Fatalf("Simulate(%s): %v", extra, err)
		}
		reconcile(t, r)
	}
}

func TestSimulateHouseholdConvergesWithExtra(t *testing.T) {
	ranked, err := Rank(householdDebts(), DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	r, err := Simulate(Debts(ranked), money.MustParse("1500"))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !r.Converged {
		t.Fatalf("Converged = false: %v", r.Err())
	}
	last := 0
	for _, s := range r.Schedules {
		if s.PaidOffMonth > last {
			last = s.PaidOffMonth
		}
	}
	if last != r.TotalMonthsToFreedom {
		t.Fatalf("last payoff month %d != TotalMonthsToFreedom %d", last, r.TotalMonthsToFreedom)
	}
}

func TestSimulateMonotonicInExtra(t *testing.T) {
	ranked, err := Rank(householdDebts(), DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	prev := MaxMonths + 1
	for extra := int64(0); extra <= 4000; extra += 250 {
		r, err := Simulate(Debts(ranked), money.FromCents(extra*100))
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if r.TotalMonthsToFreedom > prev {
			t.Fatalf("extra %d took %d months, more than %d with less", extra, r.TotalMonthsToFreedom, prev)
		}
		prev = r.TotalMonthsToFreedom
	}
}

func TestSimulateUnconverged(t *testing.T) {
	d := debt("nubank", model.RevolvingCard, "1850", "185", "13.99")
	r, err := Simulate([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if r.Converged {
		t.Fatal("Converged = true, want false")
	}
	if r.TotalMonthsToFreedom != MaxMonths {
		t.Fatalf("months = %d, want %d", r.TotalMonthsToFreedom, MaxMonths)
	}
	if n := len(r.Schedules[0].Entries); n != MaxMonths {
		t.Fatalf("partial schedule has %d months, want %d", n, MaxMonths)
	}
	if !errors.Is(r.Err(), ErrUnconverged) {
		t.Fatalf("Err = %v, want ErrUnconverged", r.Err())
	}
	for _, e := range r.Schedules[0].Entries {
		if e.End < 0 || e.End > money.MaxAmount {
			t.Fatalf("month %d balance %s outside [0, MaxAmount]", e.Month, e.End)
		}
	}
	reconcile(t, r)
}

func TestSimulateRunawayRateStaysBounded(t *testing.T) {
	d := debt("runaway", model.RevolvingCard, "1000000", "1", "900")
	r, err := Simulate([]model.Debt{d}, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if r.Converged {
		t.Fatal("Converged = true, want false")
	}
	entries := r.Schedules[0].Entries
	last := entries[len(entries)-1]
	if last.End > money.MaxAmount || last.End <= 0 {
		t.Fatalf("final balance %s outside (0, MaxAmount]", last.End)
	}
	reconcile(t, r)
}

func TestSimulateRejectsInvalid(t *testing.T) {
	d := debt("d", model.InstallmentLoan, "100", "10", "1")
	if _, err := Simulate([]model.Debt{d}, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative extra: err = %v, want ErrInvalidInput", err)
	}
	d.Balance = -5
	if _, err := Simulate([]model.Debt{d}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative balance: err = %v, want ErrInvalidInput", err)
	}
}

func TestSimulateDoesNotMutateInput(t *testing.T) {
	debts := householdDebts()
	before := debts[0].Balance
	if _, err := Simulate(debts, money.MustParse("500")); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if debts[0].Balance != before {
		t.Fatalf("input balance changed from %s to %s", before, debts[0].Balance)
	}
}

func TestCompare(t *testing.T) {
	small := debt("small", model.InstallmentLoan, "100", "50", "0")
	large := debt("large", model.InstallmentLoan, "1000", "100", "0")

	c, err := Compare([]model.Debt{small, large}, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !c.Comparable {
		t.Fatal("Comparable = false, want true")
	}
	if c.Baseline.TotalMonthsToFreedom != 10 {
		t.Fatalf("baseline months = %d, want 10", c.Baseline.TotalMonthsToFreedom)
	}
	if c.MonthsSaved != 2 {
		t.Fatalf("MonthsSaved = %d, want 2", c.MonthsSaved)
	}
	if c.InterestSaved != 0 {
		t.Fatalf("InterestSaved = %s, want 0", c.InterestSaved)
	}
}

func TestCompareSavesInterest(t *testing.T) {
	ranked, err := Rank(householdDebts(), DefaultWeights())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	c, err := Compare(Debts(ranked), money.MustParse("1500"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if c.Baseline.Converged {
		t.Fatal("baseline converged; the cards should never amortize on their own")
	}
	if c.Comparable {
		t.Fatal("Comparable = true with an unconverged baseline")
	}
	if c.InterestSaved <= 0 {
		t.Fatalf("InterestSaved = %s, want positive", c.InterestSaved)
	}
}
