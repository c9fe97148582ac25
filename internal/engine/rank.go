package engine

import (
	"sort"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Ranked is a debt with its assessment and 1-based repayment position.
type Ranked struct {
	Position int        `json:"position"`
	Debt     model.Debt `json:"debt"`
	Assessment
}

// Rank orders the open debts by impact score, highest first. Debts with a zero
// balance are left out. Ties fall to the higher rate, then the lower balance,
// then the id, so the order is total and ranking a ranked list is a no-op.
func Rank(debts []model.Debt, w Weights) ([]Ranked, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := validateDebts(debts); err != nil {
		return nil, err
	}

	var obligation money.Money
	for _, d := range debts {
		if d.Balance > 0 {
			obligation += d.MonthlyPayment
		}
	}

	ranked := make([]Ranked, 0, len(debts))
	for _, d := range debts {
		if d.Balance == 0 {
			continue
		}
		ranked = append(ranked, Ranked{Debt: d, Assessment: Score(d, obligation, w)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranksBefore(ranked[i], ranked[j])
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}
	return ranked, nil
}

func ranksBefore(a, b Ranked) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if c := a.Debt.MonthlyRate.Cmp(b.Debt.MonthlyRate); c != 0 {
		return c > 0
	}
	if a.Debt.Balance != b.Debt.Balance {
		return a.Debt.Balance < b.Debt.Balance
	}
	return a.Debt.ID < b.Debt.ID
}

// Debts returns the ranked debts in order, ready for Simulate.
func Debts(ranked []Ranked) []model.Debt {
	out := make([]model.Debt, len(ranked))
	for i, r := range ranked {
		out[i] = r.Debt
	}
	return out
}
