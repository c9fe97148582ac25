package engine

import "github.com/shopspring/decimal"

// Weights sets how much each sub-score contributes to the impact score.
type Weights struct {
	Interest decimal.Decimal
	Time     decimal.Decimal
	Relief   decimal.Decimal
	Kind     decimal.Decimal
}

// DefaultWeights returns 0.45 interest, 0.25 time, 0.20 relief, 0.10 kind.
func DefaultWeights() Weights {
	return Weights{
		Interest: decimal.New(45, -2),
		Time:     decimal.New(25, -2),
		Relief:   decimal.New(20, -2),
		Kind:     decimal.New(10, -2),
	}
}

// Validate checks that every weight lies in [0,1] and that they sum to 1.
func (w Weights) Validate() error {
	one := decimal.NewFromInt(1)
	named := []struct {
		name string
		v    decimal.Decimal
	}{
		{"interest", w.Interest},
		{"time", w.Time},
		{"relief", w.Relief},
		{"kind", w.Kind},
	}
	for _, n := range named {
		if n.v.IsNegative() || n.v.GreaterThan(one) {
			return invalidf("%s weight %s outside [0,1]", n.name, n.v)
		}
	}
	if sum := w.Interest.Add(w.Time).Add(w.Relief).Add(w.Kind); !sum.Equal(one) {
		return invalidf("weights sum to %s, want 1", sum)
	}
	return nil
}
