package pipeline

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Memo caches plan comparisons keyed strictly on their inputs. Entries never
// go stale because a changed input is a different key; the cache only clears
// when it reaches its size limit. Callers get their own copy of every result,
// so mutating one never changes what the cache serves next.
type Memo struct {
	mu      sync.Mutex
	limit   int
	entries map[uint64][]memoEntry
	size    int
	hits    int64
	misses  int64
}

type memoEntry struct {
	key   planKey
	value engine.Comparison
}

// planKey is a hashable copy of the simulation inputs. Decimal rates are kept
// as strings because hashstructure only sees exported fields.
type planKey struct {
	Debts []debtKey
	Extra int64
}

type debtKey struct {
	ID      string
	Name    string
	Kind    int
	Balance int64
	Payment int64
	Rate    string
}

// NewMemo returns a cache holding at most limit comparisons.
func NewMemo(limit int) *Memo {
	if limit < 1 {
		limit = 256
	}
	return &Memo{limit: limit, entries: make(map[uint64][]memoEntry)}
}

// Compare returns engine.Compare(ordered, extra), computing it at most once
// per distinct input.
func (m *Memo) Compare(ordered []model.Debt, extra money.Money) (engine.Comparison, error) {
	key := newPlanKey(ordered, extra)
	h, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		return engine.Comparison{}, fmt.Errorf("hashing plan inputs: %w", err)
	}

	m.mu.Lock()
	for _, e := range m.entries[h] {
		if reflect.DeepEqual(e.key, key) {
			m.hits++
			m.mu.Unlock()
			return e.value.Clone(), nil
		}
	}
	m.misses++
	m.mu.Unlock()

	c, err := engine.Compare(ordered, extra)
	if err != nil {
		return engine.Comparison{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.size >= m.limit {
		m.entries = make(map[uint64][]memoEntry)
		m.size = 0
	}
	m.entries[h] = append(m.entries[h], memoEntry{key: key, value: c.Clone()})
	m.size++
	return c, nil
}

// Stats reports cache hits and misses.
func (m *Memo) Stats() (hits, misses int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

func newPlanKey(ordered []model.Debt, extra money.Money) planKey {
	k := planKey{Debts: make([]debtKey, len(ordered)), Extra: extra.Cents()}
	for i, d := range ordered {
		k.Debts[i] = debtKey{
			ID:      d.ID,
			Name:    d.Name,
			Kind:    int(d.Kind),
			Balance: d.Balance.Cents(),
			Payment: d.MonthlyPayment.Cents(),
			Rate:    d.MonthlyRate.String(),
		}
	}
	return k
}
