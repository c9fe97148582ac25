package engine

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Breakdown holds the four sub-scores, each clamped to [0,100] before weighting.
type Breakdown struct {
	Interest decimal.Decimal `json:"interest"`
	Time     decimal.Decimal `json:"time"`
	Relief   decimal.Decimal `json:"relief"`
	Kind     decimal.Decimal `json:"kind"`
}

// Amortization is the standalone payoff of one debt at its scheduled payment.
type Amortization struct {
	Months    int         `json:"months"`
	Interest  money.Money `json:"interest_cents"`
	Converges bool        `json:"converges"`
}

// Assessment is everything the engine derives for a single debt.
type Assessment struct {
	DebtID    string    `json:"debt_id"`
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`

	// MonthsToPayoff is the principal horizon ceil(balance/payment) used by the
	// time term. Infinite is set when the payment is zero.
	MonthsToPayoff int  `json:"months_to_payoff"`
	Infinite       bool `json:"infinite,omitempty"`

	Amortization Amortization `json:"amortization"`
}

// Score computes the impact score of d. totalObligation is the sum of monthly
// payments across every debt being ranked; pass d.MonthlyPayment to score a
// debt on its own.
func Score(d model.Debt, totalObligation money.Money, w Weights) Assessment {
	a := Assessment{DebtID: d.ID}

	a.Breakdown.Interest = clampScore(d.MonthlyRate.Mul(hundred).Div(decimal.NewFromInt(RateCeilingPercent)))

	switch {
	case d.Balance == 0:
		a.MonthsToPayoff = 0
	case d.MonthlyPayment == 0:
		a.Infinite = true
	default:
		a.MonthsToPayoff = int(d.Balance.DivCeil(d.MonthlyPayment.Cents()).Cents())
	}
	if a.Infinite {
		a.Breakdown.Time = zero
	} else {
		elapsed := decimal.NewFromInt(int64(a.MonthsToPayoff) * 100).Div(decimal.NewFromInt(FreedomHorizonMonths))
		a.Breakdown.Time = clampScore(hundred.Sub(elapsed))
	}

	if totalObligation > 0 {
		a.Breakdown.Relief = clampScore(
			decimal.NewFromInt(d.MonthlyPayment.Cents()).Mul(hundred).Div(decimal.NewFromInt(totalObligation.Cents())))
	} else {
		a.Breakdown.Relief = zero
	}

	if d.Kind == model.RevolvingCard {
		a.Breakdown.Kind = decimal.NewFromInt(CardKindScore)
	} else {
		a.Breakdown.Kind = decimal.NewFromInt(LoanKindScore)
	}

	total := w.Interest.Mul(a.Breakdown.Interest).
		Add(w.Time.Mul(a.Breakdown.Time)).
		Add(w.Relief.Mul(a.Breakdown.Relief)).
		Add(w.Kind.Mul(a.Breakdown.Kind))
	a.Score = int(clampScore(total.Add(decimal.New(5, -1)).Floor()).IntPart())

	solo := simulate([]model.Debt{d}, 0)
	a.Amortization = Amortization{
		Months:    solo.TotalMonthsToFreedom,
		Interest:  solo.TotalInterestPaid,
		Converges: solo.Converged,
	}
	return a
}
