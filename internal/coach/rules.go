package coach

import (
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

const dateLayout = "2006-01-02"

// Rules is the ordered insight table.
var Rules = []Rule{
	newRule("under-budget", model.Success, "",
		`You are {{.Percent}}% under budget this month`,
		`{{money .Left}} of your {{money .Limit}} budget is still free. Moving it to savings keeps your goals ahead of schedule.`,
		matchUnderBudget),
	newRule("category-over", model.Warning, "view-details",
		`{{.Category}} is over budget`,
		`Spent {{money .Spent}} of a {{money .Limit}} limit ({{printf "%.0f" .Percent}}%).`,
		matchAlert(engine.AlertOver)),
	newRule("category-approaching", model.Warning, "",
		`{{.Category}} is at {{printf "%.0f" .Percent}}% of its limit`,
		`{{money .Remaining}} left in {{lower .Category}} for the rest of the period.`,
		matchAlert(engine.AlertApproaching)),
	newRule("above-average", model.Warning, "view-details",
		`{{.Category}} spending is {{.Percent}}% above average`,
		`You spent {{money .Spent}} on {{lower .Category}} against a {{.Periods}}-month average of {{money .Average}}.`,
		matchAboveAverage),
	newRule("limit-missing", model.Info, "",
		`No limit set for {{.Category}}`,
		`{{money .Spent}} spent with no monthly limit. Set one to get alerts for this category.`,
		matchLimitMissing),
	newRule("negative-cash-flow", model.Warning, "view-details",
		`You are spending {{money .Deficit}} more than you earn`,
		`Income of {{money .Income}} against {{money .Expenses}} in bills and {{money .DebtService}} in debt payments this month.`,
		matchNegativeCashFlow),
	newRule("bills-overdue", model.Warning, "view-details",
		`{{.Count}} {{if eq .Count 1}}bill is{{else}}bills are{{end}} overdue`,
		`{{money .Amount}} is past its due date and still unpaid.`,
		matchOverdueBills),
	newRule("savings-rate", model.Success, "",
		`You keep {{printf "%.0f" .Rate}}% of your income`,
		`{{money .Net}} left this month after bills and debt payments.`,
		matchSavingsRate),
	newRule("priority-debt", model.Info, "simulate",
		`Pay {{.Name}} first`,
		`Impact score {{.Score}} of 100 at {{.Rate}}% a month on {{money .Balance}}. Point every extra payment here until it clears.`,
		matchPriorityDebt),
	newRule("snowball-savings", model.Success, "",
		`The snowball plan saves {{money .Saved}} in interest`,
		`Debt-free in {{.Months}} months{{if .Comparable}}, {{.MonthsSaved}} months sooner than paying each debt on its own{{else}}, while paying each debt on its own never finishes{{end}}.`,
		matchSnowballSavings),
	newRule("plan-unconverged", model.Warning, "simulate",
		`Your payoff plan never finishes`,
		`With {{money .Extra}} extra a month, debt is still open after {{.Months}} months. Try a larger extra budget.`,
		matchPlanUnconverged),
	newRule("never-paid-off", model.Warning, "simulate",
		`{{.Name}} is never paid off at current terms`,
		`The {{money .Payment}} monthly payment does not amortize a balance accruing {{money .Interest}} of interest a month.`,
		matchNeverPaidOff),
	newRule("card-utilization", model.Warning, "",
		`{{.Name}} is using {{printf "%.0f" .Percent}}% of its limit`,
		`{{money .Available}} available of {{money .Limit}}.{{if .Due}} Next bill due {{.Due}}.{{end}}`,
		matchCardUtilization),
	newRule("goal-achieved", model.Success, "",
		`{{.Name}} reached`,
		`Saved {{money .Current}} of {{money .Target}}.`,
		matchGoals(engine.Achieved)),
	newRule("goal-overdue", model.Warning, "",
		`{{.Name}} is past its deadline`,
		`{{money .Remaining}} still missing since {{.Deadline}}.`,
		matchGoals(engine.Overdue)),
	newRule("goal-on-track", model.Info, "",
		`Save {{money .Monthly}} a month for {{.Name}}`,
		`{{money .Remaining}} to go over {{.Months}} months, due {{.Deadline}}.`,
		matchGoals(engine.OnTrack)),
}

func matchUnderBudget(in Input) []any {
	limit, spent := in.Budget.TotalLimit, in.Budget.TotalSpent
	left := limit - spent
	if limit <= 0 || left.Cents()*100 < limit.Cents()*UnderBudgetPercent {
		return nil
	}
	return []any{struct {
		Percent     int64
		Left, Limit money.Money
	}{left.Cents() * 100 / limit.Cents(), left, limit}}
}

type categoryView struct {
	Category  string
	Spent     money.Money
	Limit     money.Money
	Remaining money.Money
	Percent   float64
}

func matchAlert(level engine.AlertLevel) func(Input) []any {
	return func(in Input) []any {
		var out []any
		for _, ev := range in.Budget.Evaluations {
			if ev.Guarded || ev.Alert != level {
				continue
			}
			out = append(out, categoryView{
				Category:  ev.Entry.Category.Label(),
				Spent:     ev.Entry.Spent,
				Limit:     ev.Entry.Limit,
				Remaining: ev.Remaining,
				Percent:   ev.UtilizationPercent,
			})
		}
		return out
	}
}

func matchAboveAverage(in Input) []any {
	var out []any
	for _, ev := range in.Budget.Evaluations {
		spent := ev.Entry.Spent
		sum, n := recentAverage(in.History, ev.Entry.Category)
		if n == 0 || sum <= 0 {
			continue
		}
		// spent > avg * (1 + p/100), kept in integer cents
		if spent.Cents()*int64(n)*100 <= sum.Cents()*(100+AboveAveragePercent) {
			continue
		}
		avg := money.FromCents((sum.Cents()*2 + int64(n)) / (2 * int64(n)))
		out = append(out, struct {
			Category       string
			Spent, Average money.Money
			Percent        int64
			Periods        int
		}{
			Category: ev.Entry.Category.Label(),
			Spent:    spent,
			Average:  avg,
			Percent:  (spent.Cents()*int64(n) - sum.Cents()) * 100 / sum.Cents(),
			Periods:  n,
		})
	}
	return out
}

func matchLimitMissing(in Input) []any {
	var out []any
	for _, ev := range in.Budget.Evaluations {
		if ev.Guarded && ev.Entry.Spent > 0 {
			out = append(out, categoryView{Category: ev.Entry.Category.Label(), Spent: ev.Entry.Spent})
		}
	}
	return out
}

func matchNegativeCashFlow(in Input) []any {
	cf := in.CashFlow
	if cf.Guarded || cf.Net >= 0 {
		return nil
	}
	return []any{struct {
		Deficit, Income, Expenses, DebtService money.Money
	}{-cf.Net, cf.Income, cf.Expenses, cf.DebtService}}
}

func matchOverdueBills(in Input) []any {
	if in.CashFlow.OverdueCount == 0 {
		return nil
	}
	return []any{struct {
		Count  int
		Amount money.Money
	}{in.CashFlow.OverdueCount, in.CashFlow.Overdue}}
}

func matchSavingsRate(in Input) []any {
	cf := in.CashFlow
	if cf.Guarded || cf.SavingsRate < HealthySavingsPercent {
		return nil
	}
	return []any{struct {
		Rate float64
		Net  money.Money
	}{cf.SavingsRate, cf.Net}}
}

func matchCardUtilization(in Input) []any {
	var out []any
	for _, u := range in.Cards {
		if u.Guarded || u.Alert == engine.AlertOk {
			continue
		}
		v := struct {
			Name             string
			Percent          float64
			Available, Limit money.Money
			Due              string
		}{Name: u.Name, Percent: u.UtilizationPercent, Available: u.Available, Limit: u.Limit}
		if !u.NextDue.IsZero() {
			v.Due = u.NextDue.Format(dateLayout)
		}
		out = append(out, v)
	}
	return out
}

func matchPriorityDebt(in Input) []any {
	if len(in.Ranked) == 0 {
		return nil
	}
	top := in.Ranked[0]
	return []any{struct {
		Name    string
		Score   int
		Rate    string
		Balance money.Money
	}{top.Debt.Name, top.Score, top.Debt.MonthlyRate.StringFixed(2), top.Debt.Balance}}
}

func matchSnowballSavings(in Input) []any {
	p := in.Plan
	if p == nil || !p.Snowball.Converged || p.InterestSaved <= 0 {
		return nil
	}
	return []any{struct {
		Saved       money.Money
		Months      int
		MonthsSaved int
		Comparable  bool
	}{p.InterestSaved, p.Snowball.TotalMonthsToFreedom, p.MonthsSaved, p.Comparable}}
}

func matchPlanUnconverged(in Input) []any {
	p := in.Plan
	if p == nil || p.Snowball.Converged {
		return nil
	}
	return []any{struct {
		Extra  money.Money
		Months int
	}{p.Extra, p.Snowball.TotalMonthsToFreedom}}
}

func matchNeverPaidOff(in Input) []any {
	var out []any
	for _, r := range in.Ranked {
		if r.Amortization.Converges {
			continue
		}
		out = append(out, struct {
			Name              string
			Payment, Interest money.Money
		}{r.Debt.Name, r.Debt.MonthlyPayment, r.Debt.Balance.MulPercent(r.Debt.MonthlyRate)})
	}
	return out
}

func matchGoals(status engine.GoalStatus) func(Input) []any {
	return func(in Input) []any {
		var out []any
		for _, p := range in.Goals {
			if p.Status != status {
				continue
			}
			out = append(out, struct {
				Name                       string
				Current, Target, Remaining money.Money
				Monthly                    money.Money
				Months                     int
				Deadline                   string
			}{
				Name:      p.Goal.Name,
				Current:   p.Goal.Current,
				Target:    p.Goal.Target,
				Remaining: p.Remaining,
				Monthly:   p.RecommendedMonthly,
				Months:    p.MonthsRemaining,
				Deadline:  p.Goal.Deadline.Format(dateLayout),
			})
		}
		return out
	}
}
