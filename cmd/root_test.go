package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/store"
)

func resetFlags(t *testing.T) {
	t.Helper()
	prevLevel, prevQuiet := flagLogLevel, flagQuiet
	t.Cleanup(func() { flagLogLevel, flagQuiet = prevLevel, prevQuiet })
	flagLogLevel, flagQuiet = "", false
}

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		daemon     bool
		flag       string
		quiet      bool
		want       logrus.Level
	}{
		{"interactive default", "debug", false, "", false, logrus.WarnLevel},
		{"daemon uses config", "debug", true, "", false, logrus.DebugLevel},
		{"flag wins", "info", true, "error", false, logrus.ErrorLevel},
		{"quiet", "info", false, "", true, logrus.ErrorLevel},
		{"quiet with explicit flag", "info", false, "debug", true, logrus.DebugLevel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resetFlags(t)
			flagLogLevel, flagQuiet = c.flag, c.quiet
			log, err := newLogger(c.configured, c.daemon, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("newLogger: %v", err)
			}
			if log.GetLevel() != c.want {
				t.Fatalf("level = %v, want %v", log.GetLevel(), c.want)
			}
		})
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	resetFlags(t)
	flagLogLevel = "loud"
	if _, err := newLogger("info", false, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewLoggerDaemonWritesJSON(t *testing.T) {
	resetFlags(t)
	var buf bytes.Buffer
	log, err := newLogger("info", true, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.WithField("debt_id", "inter").Info("refreshed")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"debt_id":"inter"`) {
		t.Fatalf("daemon log line = %q, want JSON", buf.String())
	}
}

func TestParseAmountArg(t *testing.T) {
	got, err := parseAmountArg("amount", "150,5")
	if err != nil {
		t.Fatalf("parseAmountArg: %v", err)
	}
	if got != money.MustParse("150.50") {
		t.Fatalf("parseAmountArg = %s, want 150.50", got)
	}
	for _, in := range []string{"0", "-10", "ten"} {
		if _, err := parseAmountArg("amount", in); err == nil {
			t.Fatalf("parseAmountArg(%q) succeeded, want error", in)
		}
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	if strings.Join(got, " ") != "serve --addr :9000" {
		t.Fatalf("filterDetachArg = %v", got)
	}
}

func TestHouseholdStoreCurrencyFallback(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	st, err := store.Open(filepath.Join(t.TempDir(), "fincoach.db"), log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	hs := householdStore{Store: st, currency: "USD"}
	if got := hs.Currency(); got != "USD" {
		t.Fatalf("Currency = %q, want USD fallback", got)
	}
	h, err := hs.Snapshot(3)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if h.Currency != "USD" {
		t.Fatalf("Snapshot currency = %q, want USD", h.Currency)
	}

	if err := st.SetCurrency("BRL"); err != nil {
		t.Fatalf("SetCurrency: %v", err)
	}
	if got := hs.Currency(); got != "BRL" {
		t.Fatalf("Currency = %q, want stored BRL", got)
	}
	if _, err := st.PutDebt(model.Debt{Name: "Card", Kind: model.RevolvingCard, Balance: money.MustParse("100"), MonthlyPayment: money.MustParse("10")}); err != nil {
		t.Fatalf("PutDebt: %v", err)
	}
	h, err = hs.Snapshot(3)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if h.Currency != "BRL" || len(h.Debts) != 1 {
		t.Fatalf("Snapshot = %q with %d debts, want BRL with 1", h.Currency, len(h.Debts))
	}
}

func TestSweepExtrasRejectsHugeGrid(t *testing.T) {
	prevMax, prevStep := flagSimSweepMax, flagSimSweepStep
	t.Cleanup(func() { flagSimSweepMax, flagSimSweepStep = prevMax, prevStep })

	flagSimSweepMax, flagSimSweepStep = "100000000", "0.01"
	if _, err := sweepExtras(); !errors.Is(err, pipeline.ErrSweepTooLarge) {
		t.Fatalf("sweepExtras err = %v, want ErrSweepTooLarge", err)
	}

	flagSimSweepMax, flagSimSweepStep = "1000", "100"
	extras, err := sweepExtras()
	if err != nil {
		t.Fatalf("sweepExtras: %v", err)
	}
	if len(extras) != 11 {
		t.Fatalf("sweepExtras = %d budgets, want 11", len(extras))
	}
}

func TestDateFlag(t *testing.T) {
	prev := rt.today
	t.Cleanup(func() { rt.today = prev })
	rt.today = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	if got, err := dateFlag("due", ""); err != nil || !got.Equal(rt.today) {
		t.Fatalf("dateFlag(empty) = %v, %v; want today", got, err)
	}
	if got, err := dateFlag("due", "2026-02-10"); err != nil || got.Day() != 10 {
		t.Fatalf("dateFlag = %v, %v", got, err)
	}
	if _, err := dateFlag("due", "10/02/2026"); err == nil {
		t.Fatal("dateFlag accepted a non-ISO date")
	}
}

func TestMonthExpenses(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	all := []model.Expense{
		{ID: "rent", DueDate: day("2025-06-10"), Recurring: true},
		{ID: "power", DueDate: day("2026-01-12")},
		{ID: "old", DueDate: day("2025-12-12")},
	}
	got := monthExpenses(all, day("2026-01-20"))
	if len(got) != 2 || got[0].ID != "rent" || got[1].ID != "power" {
		t.Fatalf("monthExpenses = %+v, want rent and power", got)
	}
}
