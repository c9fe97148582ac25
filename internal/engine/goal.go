package engine

import (
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// GoalStatus is where a goal stands relative to its deadline.
type GoalStatus int

const (
	OnTrack GoalStatus = iota
	Overdue
	Achieved
)

func (s GoalStatus) String() string {
	switch s {
	case Overdue:
		return "overdue"
	case Achieved:
		return "achieved"
	default:
		return "on-track"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s GoalStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// GoalProjection is the outlook for one goal on a given day.
type GoalProjection struct {
	Goal               model.Goal  `json:"goal"`
	Remaining          money.Money `json:"remaining_cents"`
	DaysRemaining      int         `json:"days_remaining"`
	MonthsRemaining    int         `json:"months_remaining"`
	RecommendedMonthly money.Money `json:"recommended_monthly_cents"`
	Status             GoalStatus  `json:"status"`
	ProgressPercent    float64     `json:"progress_percent"`
	// Guarded marks a fallback value: a recommendation spread over a single
	// month because fewer than DaysPerMonth days remain, or a 100% progress
	// reported for a zero target.
	Guarded bool `json:"guarded,omitempty"`
}

// Project computes the remaining amount and the monthly contribution that
// reaches the target by the deadline. Months are counted as whole periods of
// DaysPerMonth days and the contribution is rounded up to the cent, so paying
// it every month never falls short.
func Project(g model.Goal, today time.Time) (GoalProjection, error) {
	switch {
	case g.Target < 0:
		return GoalProjection{}, invalidf("goal %q: negative target %s", g.ID, g.Target)
	case g.Current < 0:
		return GoalProjection{}, invalidf("goal %q: negative current amount %s", g.ID, g.Current)
	case g.Deadline.IsZero():
		return GoalProjection{}, invalidf("goal %q: missing deadline", g.ID)
	case today.IsZero():
		return GoalProjection{}, invalidf("missing reference date")
	}

	p := GoalProjection{
		Goal:          g,
		Remaining:     money.Max(0, g.Target-g.Current),
		DaysRemaining: DaysBetween(today, g.Deadline),
	}
	if g.Target == 0 {
		p.ProgressPercent = 100
		p.Guarded = true
	} else {
		p.ProgressPercent = g.Current.Percent(g.Target)
	}

	switch {
	case p.Remaining == 0:
		p.Status = Achieved
	case p.DaysRemaining < 0:
		p.Status = Overdue
		p.RecommendedMonthly = p.Remaining
	default:
		p.Status = OnTrack
		p.MonthsRemaining = p.DaysRemaining / DaysPerMonth
		if p.MonthsRemaining < 1 {
			p.MonthsRemaining = 1
			p.Guarded = true
		}
		p.RecommendedMonthly = p.Remaining.DivCeil(int64(p.MonthsRemaining))
	}
	return p, nil
}

// ProjectAll projects every goal, stopping at the first invalid one.
func ProjectAll(goals []model.Goal, today time.Time) ([]GoalProjection, error) {
	out := make([]GoalProjection, 0, len(goals))
	for _, g := range goals {
		p, err := Project(g, today)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DaysBetween returns the number of calendar days from a to b, comparing the
// dates as written and ignoring clock time and zone offsets.
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
