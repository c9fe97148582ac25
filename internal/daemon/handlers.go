package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
)

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/debts", s.withReport(func(rep *pipeline.Report) any { return rep.Ranked })).Methods(http.MethodGet)
	v1.HandleFunc("/goals", s.withReport(func(rep *pipeline.Report) any { return rep.Goals })).Methods(http.MethodGet)
	v1.HandleFunc("/budgets", s.withReport(func(rep *pipeline.Report) any { return rep.Budget })).Methods(http.MethodGet)
	v1.HandleFunc("/insights", s.withReport(func(rep *pipeline.Report) any { return rep.Insights })).Methods(http.MethodGet)
	v1.HandleFunc("/cashflow", s.withReport(func(rep *pipeline.Report) any { return rep.CashFlow })).Methods(http.MethodGet)
	v1.HandleFunc("/credit", s.withReport(func(rep *pipeline.Report) any { return creditView{Cards: rep.Cards, Loans: rep.Loans} })).Methods(http.MethodGet)
	v1.HandleFunc("/plan", s.handlePlan).Methods(http.MethodGet)
	v1.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)
	v1.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// payload tags a view of the report with the currency its amounts are in.
type payload struct {
	Currency string `json:"currency"`
	Data     any    `json:"data"`
}

type creditView struct {
	Cards []engine.CreditUsage         `json:"cards"`
	Loans []engine.InstallmentProgress `json:"loans"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// withReport serves one view of the current report, or 503 before the first
// successful refresh.
func (s *Service) withReport(view func(*pipeline.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rep := s.currentReport()
		if rep == nil {
			writeError(w, http.StatusServiceUnavailable, "no report yet")
			return
		}
		writeJSON(w, http.StatusOK, payload{Currency: rep.Currency, Data: view(rep)})
	}
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		writeError(w, http.StatusServiceUnavailable, "no report yet")
		return
	}

	extra := s.cfg.Extra
	if q := r.URL.Query().Get("extra"); q != "" {
		m, err := money.Parse(q)
		if err != nil || m < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid extra %q", q))
			return
		}
		extra = m
	}

	plan, err := s.memo.Compare(engine.Debts(rep.Ranked), extra)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload{Currency: rep.Currency, Data: plan})
}

type askRequest struct {
	Message string `json:"message"`
}

func (s *Service) handleAsk(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		writeError(w, http.StatusServiceUnavailable, "no report yet")
		return
	}

	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ordered := engine.Debts(rep.Ranked)
	whatIf := func(extra money.Money) (engine.Comparison, error) {
		return s.memo.Compare(ordered, extra)
	}
	writeJSON(w, http.StatusOK, coach.Answer(req.Message, rep.CoachInput(), whatIf))
}

func (s *Service) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	s.Refresh()
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Headline:  s.snapshotStatus().Headline,
	})
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		case <-keepalive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
