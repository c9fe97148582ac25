package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

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

func debt(id string, kind model.DebtKind, balance, payment, rate string) model.Debt {
	return model.Debt{
		ID:             id,
		Name:           id,
		Kind:           kind,
		Balance:        money.MustParse(balance),
		MonthlyPayment: money.MustParse(payment),
		MonthlyRate:    decimal.RequireFromString(rate),
	}
}

// householdDebts mirrors a typical dashboard: three cards with double-digit
// monthly rates and two loans.
func householdDebts() []model.Debt {
	return []model.Debt{
		debt("nubank", model.RevolvingCard, "1850", "185", "13.99"),
		debt("personal-loan", model.InstallmentLoan, "9000", "500", "1.99"),
		debt("car", model.InstallmentLoan, "28000", "1200", "1.49"),
		debt("itau", model.RevolvingCard, "2100", "210", "12.50"),
		debt("inter", model.RevolvingCard, "750", "75", "11.99"),
	}
}

func reconcile(t *testing.T, r SimulationResult) {
	t.Helper()
	var perDebt, perEntry money.Money
	for _, s := range r.Schedules {
		perDebt += s.InterestPaid
		for _, e := range s.Entries {
			perEntry += e.Interest
			if e.End != e.Start+e.Interest-e.Scheduled-e.Extra {
				t.Fatalf("%s month %d does not balance: %+v", s.DebtID, e.Month, e)
			}
		}
	}
	if perDebt != r.TotalInterestPaid || perEntry != r.TotalInterestPaid {
		t.Fatalf("interest: total %s, per debt %s, per entry %s", r.TotalInterestPaid, perDebt, perEntry)
	}
}
