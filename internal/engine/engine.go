// Package engine ranks debts, simulates snowball repayment, projects savings
// goals and evaluates budgets.
//
// Every function is a pure computation over the records passed in. Nothing
// here performs I/O, logs, or keeps state between calls, so all of it is safe
// to call concurrently.
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Calibration constants. They shape the scores and alerts, not the algorithms.
const (
	// RateCeilingPercent is the monthly rate that earns the full interest-pressure term.
	RateCeilingPercent = 15
	// FreedomHorizonMonths is the payoff horizon at which the time term reaches zero.
	FreedomHorizonMonths = 60
	// CardKindScore and LoanKindScore feed the kind term.
	CardKindScore = 100
	LoanKindScore = 40

	// MaxMonths bounds every payoff simulation.
	MaxMonths = 600

	// ApproachingPercent and OverPercent are the budget alert thresholds.
	ApproachingPercent = 80
	OverPercent        = 100

	// DaysPerMonth converts a goal's remaining days into contribution months.
	DaysPerMonth = 30
)

var (
	// ErrInvalidInput marks records outside their documented domain.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnconverged marks a payoff simulation that hit MaxMonths with debt still open.
	ErrUnconverged = errors.New("payoff did not converge")
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func clampScore(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(zero) {
		return zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
