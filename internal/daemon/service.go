// Package daemon provides the long-running household monitor: it re-runs the
// decision cycle on a cron schedule, rolls the budget period over each month
// and serves the latest report over HTTP and SSE.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr           string
	Refresh        string // cron spec for re-running the analysis
	Rollover       string // cron spec for closing the budget period
	EventsBuffer   int
	Extra          money.Money
	Weights        *engine.Weights
	HistoryPeriods int
	// Now overrides the wall clock.
	Now func() time.Time
}

// Records is the part of the record store the daemon reads and rolls over.
type Records interface {
	Snapshot(historyPeriods int) (model.Household, error)
	Rollover(period string) (store.RolloverResult, error)
}

// Delta captures headline changes between refreshes.
type Delta struct {
	TotalDebt       money.Money `json:"total_debt_cents"`
	TotalMonthly    money.Money `json:"total_monthly_cents"`
	MonthsToFreedom int         `json:"months_to_freedom"`
	BudgetSpent     money.Money `json:"budget_spent_cents"`
	Warnings        int         `json:"warnings"`
	Net             money.Money `json:"net_cents"`
	Overdue         int         `json:"overdue"`
	TopChanged      bool        `json:"top_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.TotalDebt == 0 &&
		d.TotalMonthly == 0 &&
		d.MonthsToFreedom == 0 &&
		d.BudgetSpent == 0 &&
		d.Warnings == 0 &&
		d.Net == 0 &&
		d.Overdue == 0 &&
		!d.TopChanged
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "household_delta"
	EventRollover = "period_rollover"
)

// Event is emitted whenever the household state changes.
type Event struct {
	ID        int64                 `json:"id"`
	Type      string                `json:"type"`
	Timestamp time.Time             `json:"timestamp"`
	Headline  pipeline.Headline     `json:"headline"`
	Delta     *Delta                `json:"delta,omitempty"`
	Rollover  *store.RolloverResult `json:"rollover,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time         `json:"started_at"`
	LastRefreshAt   time.Time         `json:"last_refresh_at"`
	RefreshCount    int64             `json:"refresh_count"`
	RefreshSpec     string            `json:"refresh_spec"`
	RolloverSpec    string            `json:"rollover_spec"`
	Extra           money.Money       `json:"extra_cents"`
	Headline        pipeline.Headline `json:"headline"`
	LastError       string            `json:"last_error,omitempty"`
	EventCount      int               `json:"event_count"`
	SubscriberCount int               `json:"subscriber_count"`
	MemoHits        int64             `json:"memo_hits"`
	MemoMisses      int64             `json:"memo_misses"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	records Records
	log     logrus.FieldLogger
	memo    *pipeline.Memo

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastError     string
	report        *pipeline.Report
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from records. A nil logger
// discards logs.
func New(cfg Config, records Records, log logrus.FieldLogger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Refresh == "" {
		cfg.Refresh = "@every 1m"
	}
	if cfg.Rollover == "" {
		cfg.Rollover = "@monthly"
	}
	if cfg.HistoryPeriods < 1 {
		cfg.HistoryPeriods = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Service{
		cfg:       cfg,
		records:   records,
		log:       log.WithField("component", "daemon"),
		memo:      pipeline.NewMemo(0),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and the refresh and rollover schedules until ctx
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(s.log))))
	if _, err := sched.AddFunc(s.cfg.Refresh, s.Refresh); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", s.cfg.Refresh, err)
	}
	if _, err := sched.AddFunc(s.cfg.Rollover, s.RolloverNow); err != nil {
		return fmt.Errorf("rollover schedule %q: %w", s.cfg.Rollover, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed the first report so status is useful immediately.
	s.Refresh()
	sched.Start()
	s.log.WithFields(logrus.Fields{"addr": s.cfg.Addr, "refresh": s.cfg.Refresh, "rollover": s.cfg.Rollover}).Info("daemon started")

	defer func() { <-sched.Stop().Done() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Refresh re-reads the household and re-runs the decision cycle, publishing
// an event when the headline changed.
func (s *Service) Refresh() {
	now := s.cfg.Now()
	report, err := s.analyze(now)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastRefreshAt = now
		s.refreshCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("refresh failed")
		return
	}
	curr := report.Headline()

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.report
	s.report = report
	s.lastRefreshAt = now
	s.refreshCount++
	s.lastError = ""

	if prev == nil {
		ev = Event{Type: EventSnapshot, Timestamp: now, Headline: curr}
		publish = true
	} else if delta := diffHeadlines(prev.Headline(), curr); !delta.isZero() {
		ev = Event{Type: EventDelta, Timestamp: now, Headline: curr, Delta: &delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) analyze(now time.Time) (*pipeline.Report, error) {
	h, err := s.records.Snapshot(s.cfg.HistoryPeriods)
	if err != nil {
		return nil, fmt.Errorf("reading household: %w", err)
	}
	return pipeline.Analyze(h, pipeline.Options{
		Today:   now,
		Extra:   s.cfg.Extra,
		Weights: s.cfg.Weights,
		Memo:    s.memo,
	})
}

// RolloverNow closes the budget period when the calendar month has moved on,
// then refreshes.
func (s *Service) RolloverNow() {
	now := s.cfg.Now()
	res, err := s.records.Rollover(now.Format("2006-01"))
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.WithError(err).Warn("rollover failed")
		return
	}
	if res.From != res.To {
		s.mu.RLock()
		var hl pipeline.Headline
		if s.report != nil {
			hl = s.report.Headline()
		}
		s.mu.RUnlock()
		s.publishEvent(Event{Type: EventRollover, Timestamp: now, Headline: hl, Rollover: &res})
	}
	s.Refresh()
}

func diffHeadlines(prev, curr pipeline.Headline) Delta {
	return Delta{
		TotalDebt:       curr.TotalDebt - prev.TotalDebt,
		TotalMonthly:    curr.TotalMonthly - prev.TotalMonthly,
		MonthsToFreedom: curr.MonthsToFreedom - prev.MonthsToFreedom,
		BudgetSpent:     curr.BudgetSpent - prev.BudgetSpent,
		Warnings:        curr.Warnings - prev.Warnings,
		Net:             curr.Net - prev.Net,
		Overdue:         curr.Overdue - prev.Overdue,
		TopChanged:      curr.TopDebt != prev.TopDebt,
	}
}

// publishEvent assigns the next id, appends to the ring buffer and fans out
// to subscribers without blocking.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) currentReport() *pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

func (s *Service) snapshotStatus() Status {
	hits, misses := s.memo.Stats()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastRefreshAt:   s.lastRefreshAt,
		RefreshCount:    s.refreshCount,
		RefreshSpec:     s.cfg.Refresh,
		RolloverSpec:    s.cfg.Rollover,
		Extra:           s.cfg.Extra,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
		MemoHits:        hits,
		MemoMisses:      misses,
	}
	if s.report != nil {
		st.Headline = s.report.Headline()
	}
	return st
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
