package engine

import (
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// AlertLevel is the budget state of one category.
type AlertLevel int

const (
	AlertOk AlertLevel = iota
	AlertApproaching
	AlertOver
)

func (l AlertLevel) String() string {
	switch l {
	case AlertApproaching:
		return "approaching"
	case AlertOver:
		return "over"
	default:
		return "ok"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l AlertLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *AlertLevel) UnmarshalText(b []byte) error {
	for _, v := range []AlertLevel{AlertOk, AlertApproaching, AlertOver} {
		if v.String() == string(b) {
			*l = v
			return nil
		}
	}
	return invalidf("unknown alert level %q", b)
}

// BudgetEvaluation is the utilization of one budget entry.
type BudgetEvaluation struct {
	Entry              model.BudgetEntry `json:"entry"`
	UtilizationPercent float64           `json:"utilization_percent"`
	Alert              AlertLevel        `json:"alert"`
	Remaining          money.Money       `json:"remaining_cents"`
	// Guarded is set when the limit is zero: utilization is reported as 0
	// and the alert as Ok regardless of spend.
	Guarded bool `json:"guarded,omitempty"`
}

// Evaluate computes utilization and the alert level for entry. The thresholds
// are compared in integer cents: Ok below ApproachingPercent, Approaching up to
// and including OverPercent, Over above it.
func Evaluate(entry model.BudgetEntry) (BudgetEvaluation, error) {
	switch {
	case entry.Limit < 0:
		return BudgetEvaluation{}, invalidf("budget %s: negative limit %s", entry.Category, entry.Limit)
	case entry.Spent < 0:
		return BudgetEvaluation{}, invalidf("budget %s: negative spend %s", entry.Category, entry.Spent)
	case entry.Limit > money.MaxAmount || entry.Spent > money.MaxAmount:
		return BudgetEvaluation{}, invalidf("budget %s: amount out of range", entry.Category)
	}

	ev := BudgetEvaluation{
		Entry:     entry,
		Remaining: entry.Limit - entry.Spent,
		Alert:     alertFor(entry.Spent, entry.Limit),
	}
	if entry.Limit == 0 {
		ev.Guarded = true
		return ev, nil
	}
	ev.UtilizationPercent = entry.Spent.Percent(entry.Limit)
	return ev, nil
}

func alertFor(spent, limit money.Money) AlertLevel {
	switch {
	case limit == 0:
		return AlertOk
	case spent.Cents()*100 < limit.Cents()*ApproachingPercent:
		return AlertOk
	case spent.Cents()*100 > limit.Cents()*OverPercent:
		return AlertOver
	default:
		return AlertApproaching
	}
}

// BudgetSummary aggregates the evaluations of a whole budget.
type BudgetSummary struct {
	Evaluations        []BudgetEvaluation `json:"evaluations"`
	TotalLimit         money.Money        `json:"total_limit_cents"`
	TotalSpent         money.Money        `json:"total_spent_cents"`
	UtilizationPercent float64            `json:"utilization_percent"`
	Alert              AlertLevel         `json:"alert"`
}

// EvaluateAll evaluates every entry and the budget as a whole.
func EvaluateAll(entries []model.BudgetEntry) (BudgetSummary, error) {
	var sum BudgetSummary
	for _, e := range entries {
		ev, err := Evaluate(e)
		if err != nil {
			return BudgetSummary{}, err
		}
		sum.Evaluations = append(sum.Evaluations, ev)
		sum.TotalLimit += e.Limit
		sum.TotalSpent += e.Spent
	}
	sum.UtilizationPercent = sum.TotalSpent.Percent(sum.TotalLimit)
	sum.Alert = alertFor(sum.TotalSpent, sum.TotalLimit)
	return sum, nil
}
