// Package pipeline runs one decision cycle over a household snapshot and
// fans out what-if simulations.
package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Options controls one Analyze call.
type Options struct {
	Today   time.Time
	Extra   money.Money
	Weights *engine.Weights // nil means engine.DefaultWeights
	// Memo, when set, serves the plan comparison.
	Memo *Memo
}

// Report is the full output of one decision cycle.
type Report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Today       time.Time               `json:"today"`
	Currency    string                  `json:"currency"`
	Ranked      []engine.Ranked         `json:"ranked"`
	Plan        *engine.Comparison      `json:"plan,omitempty"`
	Goals       []engine.GoalProjection `json:"goals"`
	Budget      engine.BudgetSummary    `json:"budget"`
	History     []model.PeriodSpend     `json:"-"`
	Insights    []model.Insight         `json:"insights"`

	CashFlow engine.CashFlowSummary      `json:"cash_flow"`
	Cards    []engine.CreditUsage         `json:"cards,omitempty"`
	Loans    []engine.InstallmentProgress `json:"loans,omitempty"`
	Expenses []model.Expense              `json:"-"`

	TotalDebt         money.Money `json:"total_debt_cents"`
	TotalMonthly      money.Money `json:"total_monthly_cents"`
	ProjectedInterest money.Money `json:"projected_interest_cents"`
}

// Analyze ranks the debts, compares the snowball plan against the baseline,
// projects goals, evaluates the budget, sums the month's cash flow and
// generates insights. Every step reads the same snapshot h.
func Analyze(h model.Household, opts Options) (*Report, error) {
	w := engine.DefaultWeights()
	if opts.Weights != nil {
		w = *opts.Weights
	}
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}

	ranked, err := engine.Rank(h.Debts, w)
	if err != nil {
		return nil, fmt.Errorf("ranking debts: %w", err)
	}

	r := &Report{
		GeneratedAt: time.Now(),
		Today:       opts.Today,
		Currency:    h.Currency,
		Ranked:      ranked,
		History:     h.History,
		Expenses:    h.Expenses,
	}
	for _, rd := range ranked {
		r.TotalDebt += rd.Debt.Balance
		r.TotalMonthly += rd.Debt.MonthlyPayment
		r.ProjectedInterest += rd.Amortization.Interest
	}

	if len(ranked) > 0 {
		ordered := engine.Debts(ranked)
		var plan engine.Comparison
		if opts.Memo != nil {
			plan, err = opts.Memo.Compare(ordered, opts.Extra)
		} else {
			plan, err = engine.Compare(ordered, opts.Extra)
		}
		if err != nil {
			return nil, fmt.Errorf("simulating plan: %w", err)
		}
		r.Plan = &plan
	}

	if r.Goals, err = engine.ProjectAll(h.Goals, opts.Today); err != nil {
		return nil, fmt.Errorf("projecting goals: %w", err)
	}
	if r.Budget, err = engine.EvaluateAll(h.Budgets); err != nil {
		return nil, fmt.Errorf("evaluating budget: %w", err)
	}
	if r.CashFlow, err = engine.CashFlow(h.Incomes, h.Expenses, h.Debts, opts.Today); err != nil {
		return nil, fmt.Errorf("summing cash flow: %w", err)
	}
	if r.Cards, err = engine.CardUsages(h.Debts, opts.Today); err != nil {
		return nil, fmt.Errorf("reading card usage: %w", err)
	}
	if r.Loans, err = engine.LoanProgresses(h.Debts); err != nil {
		return nil, fmt.Errorf("reading loan progress: %w", err)
	}

	r.Insights = coach.Generate(r.CoachInput())
	return r, nil
}

// CoachInput returns the report in the shape the coach reads.
func (r *Report) CoachInput() coach.Input {
	return coach.Input{
		Currency: r.Currency,
		Ranked:   r.Ranked,
		Plan:     r.Plan,
		Budget:   r.Budget,
		History:  r.History,
		Goals:    r.Goals,
		CashFlow: r.CashFlow,
		Cards:    r.Cards,
	}
}

// Headline is the compact state the daemon diffs between refreshes.
type Headline struct {
	Currency        string      `json:"currency"`
	TotalDebt       money.Money `json:"total_debt_cents"`
	TotalMonthly    money.Money `json:"total_monthly_cents"`
	MonthsToFreedom int         `json:"months_to_freedom"`
	Converged       bool        `json:"converged"`
	BudgetSpent     money.Money `json:"budget_spent_cents"`
	BudgetLimit     money.Money `json:"budget_limit_cents"`
	Warnings        int         `json:"warnings"`
	TopDebt         string      `json:"top_debt,omitempty"`
	Net             money.Money `json:"net_cents"`
	Overdue         int         `json:"overdue"`
}

// Headline summarizes the report.
func (r *Report) Headline() Headline {
	hl := Headline{
		Currency:     r.Currency,
		TotalDebt:    r.TotalDebt,
		TotalMonthly: r.TotalMonthly,
		BudgetSpent:  r.Budget.TotalSpent,
		BudgetLimit:  r.Budget.TotalLimit,
		Net:          r.CashFlow.Net,
		Overdue:      r.CashFlow.OverdueCount,
		Converged:    true,
	}
	if r.Plan != nil {
		hl.MonthsToFreedom = r.Plan.Snowball.TotalMonthsToFreedom
		hl.Converged = r.Plan.Snowball.Converged
	}
	if len(r.Ranked) > 0 {
		hl.TopDebt = r.Ranked[0].Debt.Name
	}
	for _, in := range r.Insights {
		if in.Severity == model.Warning {
			hl.Warnings++
		}
	}
	return hl
}
