package engine

import (
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Baseline amortizes every debt on its own at its scheduled payment, with no
// pool and no extra budget. Months is the slowest payoff.
func Baseline(debts []model.Debt) (SimulationResult, error) {
	if err := validateDebts(debts); err != nil {
		return SimulationResult{}, err
	}
	res := SimulationResult{Converged: true}
	for _, d := range debts {
		solo := simulate([]model.Debt{d}, 0)
		res.Schedules = append(res.Schedules, solo.Schedules...)
		res.TotalInterestPaid += solo.TotalInterestPaid
		res.TotalPaid += solo.TotalPaid
		if solo.TotalMonthsToFreedom > res.TotalMonthsToFreedom {
			res.TotalMonthsToFreedom = solo.TotalMonthsToFreedom
		}
		if !solo.Converged {
			res.Converged = false
		}
	}
	return res, nil
}

// Comparison sets the snowball plan against paying each debt independently.
type Comparison struct {
	Extra         money.Money      `json:"extra_cents"`
	Snowball      SimulationResult `json:"snowball"`
	Baseline      SimulationResult `json:"baseline"`
	InterestSaved money.Money      `json:"interest_saved_cents"`
	MonthsSaved   int              `json:"months_saved"`
	// Comparable is false when either run hit the month ceiling, in which
	// case the savings figures compare partial totals.
	Comparable bool `json:"comparable"`
}

// Clone returns a deep copy that shares no slices with c.
func (c Comparison) Clone() Comparison {
	out := c
	out.Snowball = c.Snowball.Clone()
	out.Baseline = c.Baseline.Clone()
	return out
}

// Compare simulates ordered with extra and the independent baseline.
func Compare(ordered []model.Debt, extra money.Money) (Comparison, error) {
	snow, err := Simulate(ordered, extra)
	if err != nil {
		return Comparison{}, err
	}
	base, err := Baseline(ordered)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Extra:         extra,
		Snowball:      snow,
		Baseline:      base,
		InterestSaved: base.TotalInterestPaid - snow.TotalInterestPaid,
		MonthsSaved:   base.TotalMonthsToFreedom - snow.TotalMonthsToFreedom,
		Comparable:    snow.Converged && base.Converged,
	}, nil
}
