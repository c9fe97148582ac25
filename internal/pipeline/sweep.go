package pipeline

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// ProgressFunc is called as sweep points complete.
// current is the number of points done so far, total is the total count.
type ProgressFunc func(current, total int)

// SweepPoint is the headline of one snowball run.
type SweepPoint struct {
	Extra        money.Money `json:"extra_cents"`
	Months       int         `json:"months"`
	InterestPaid money.Money `json:"interest_paid_cents"`
	TotalPaid    money.Money `json:"total_paid_cents"`
	Converged    bool        `json:"converged"`
}

// Sweep simulates the same ordered debts once per extra budget.
// It uses a bounded worker pool; points come back in the order of extras.
func Sweep(ordered []model.Debt, extras []money.Money, progressFn ProgressFunc) ([]SweepPoint, error) {
	if len(extras) == 0 {
		return nil, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(extras) {
		numWorkers = len(extras)
	}

	work := make(chan int, len(extras))
	points := make([]SweepPoint, len(extras))
	errs := make([]error, len(extras))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range extras {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				r, err := engine.Simulate(ordered, extras[idx])
				if err != nil {
					errs[idx] = err
				} else {
					points[idx] = SweepPoint{
						Extra:        extras[idx],
						Months:       r.TotalMonthsToFreedom,
						InterestPaid: r.TotalInterestPaid,
						TotalPaid:    r.TotalPaid,
						Converged:    r.Converged,
					}
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(extras))
				}
			}
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// MaxSweepPoints caps the number of budgets one sweep may simulate.
const MaxSweepPoints = 500

// ErrSweepTooLarge is returned by Steps when the grid exceeds MaxSweepPoints.
var ErrSweepTooLarge = errors.New("sweep too large")

// StepCount is the number of points Steps(limit, step) would produce.
func StepCount(limit, step money.Money) int64 {
	if step <= 0 || limit < 0 {
		return 1
	}
	return int64(limit/step) + 1
}

// Steps returns 0, step, 2*step ... up to and including limit. The size is
// checked before anything is allocated.
func Steps(limit, step money.Money) ([]money.Money, error) {
	n := StepCount(limit, step)
	if n > MaxSweepPoints {
		return nil, fmt.Errorf("%w: %d budgets, at most %d", ErrSweepTooLarge, n, MaxSweepPoints)
	}
	if step <= 0 || limit < 0 {
		return []money.Money{0}, nil
	}
	out := make([]money.Money, 0, n)
	for v := money.Money(0); v <= limit; v += step {
		out = append(out, v)
	}
	return out, nil
}
