// Package coach turns engine results into insight records and answers short
// chat questions from a keyword table.
//
// Insights come from Rules, an ordered list of predicate/template pairs. The
// output for a given Input is fully determined by that order.
package coach

import (
	"sort"
	"strings"
	"text/template"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Rule thresholds.
const (
	// UnderBudgetPercent is how much of the total budget must be left unspent
	// to earn the under-budget praise.
	UnderBudgetPercent = 15
	// AboveAveragePercent is how far a category may exceed its recent average
	// before it is flagged.
	AboveAveragePercent = 10
	// HistoryPeriods is how many closed periods make up the recent average.
	HistoryPeriods = 3
	// HealthySavingsPercent is the share of income kept that earns praise.
	HealthySavingsPercent = 20
)

// Input is everything one decision cycle hands to the coach.
type Input struct {
	Currency string
	Ranked   []engine.Ranked
	// Plan is the snowball comparison for the ranked debts; nil without debts.
	Plan    *engine.Comparison
	Budget  engine.BudgetSummary
	History []model.PeriodSpend
	Goals   []engine.GoalProjection
	// CashFlow is the month's income against bills; Cards has one entry per
	// card with a known limit.
	CashFlow engine.CashFlowSummary
	Cards    []engine.CreditUsage
}

// Rule is one predicate/template pair. Match returns one value per insight to
// emit; Title and Body are executed against each value.
type Rule struct {
	Name      string
	Severity  model.Severity
	ActionTag string
	Title     *template.Template
	Body      *template.Template
	Match     func(Input) []any
}

// Generate applies every rule in order and collects the insights.
func Generate(in Input) []model.Insight {
	funcs := templateFuncs(in.Currency)
	var out []model.Insight
	for _, r := range Rules {
		for _, v := range r.Match(in) {
			out = append(out, model.Insight{
				Rule:      r.Name,
				Severity:  r.Severity,
				Title:     execute(r.Title, funcs, v),
				Body:      execute(r.Body, funcs, v),
				ActionTag: r.ActionTag,
			})
		}
	}
	return out
}

func execute(t *template.Template, funcs template.FuncMap, v any) string {
	c := template.Must(t.Clone()).Funcs(funcs)
	var b strings.Builder
	if err := c.Execute(&b, v); err != nil {
		// Templates are fixed at init and only see values built by Match.
		panic("coach: template " + t.Name() + ": " + err.Error())
	}
	return b.String()
}

func templateFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(m money.Money) string { return m.Format(currency) },
		"lower": strings.ToLower,
	}
}

func newRule(name string, sev model.Severity, action, title, body string, match func(Input) []any) Rule {
	placeholder := templateFuncs("")
	return Rule{
		Name:      name,
		Severity:  sev,
		ActionTag: action,
		Title:     template.Must(template.New(name + ".title").Funcs(placeholder).Parse(title)),
		Body:      template.Must(template.New(name + ".body").Funcs(placeholder).Parse(body)),
		Match:     match,
	}
}

// recentAverage returns the sum and count of the latest HistoryPeriods closed
// periods for one category.
func recentAverage(history []model.PeriodSpend, c model.Category) (money.Money, int) {
	var rows []model.PeriodSpend
	for _, h := range history {
		if h.Category == c {
			rows = append(rows, h)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period > rows[j].Period })
	if len(rows) > HistoryPeriods {
		rows = rows[:HistoryPeriods]
	}
	var sum money.Money
	for _, r := range rows {
		sum += r.Spent
	}
	return sum, len(rows)
}
