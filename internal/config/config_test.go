package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"FINCOACH_DB", "FINCOACH_CURRENCY", "FINCOACH_LOG_LEVEL", "FINCOACH_EXTRA", "FINCOACH_ADDR"} {
		t.Setenv(k, "")
	}
}

func ptr(f float64) *float64 { return &f }

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Currency != "BRL" {
		t.Fatalf("Currency = %q, want BRL", cfg.General.Currency)
	}
	if cfg.Daemon.Addr != "127.0.0.1:8788" || cfg.Daemon.EventsBuffer != 200 {
		t.Fatalf("Daemon = %+v, want defaults", cfg.Daemon)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Currency = "USD"
	cfg.Plan.ExtraMonthly = "1500"
	cfg.Scoring.Interest = ptr(0.55)
	cfg.Scoring.Kind = ptr(0)
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config mode = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Currency != "USD" || got.Plan.ExtraMonthly != "1500" {
		t.Fatalf("loaded %+v", got.General)
	}
	if got.Scoring.Interest == nil || *got.Scoring.Interest != 0.55 {
		t.Fatalf("Scoring.Interest = %v, want 0.55", got.Scoring.Interest)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FINCOACH_CURRENCY", "eur")
	t.Setenv("FINCOACH_EXTRA", "250.50")
	t.Setenv("FINCOACH_DB", "/tmp/x.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Currency != "EUR" {
		t.Fatalf("Currency = %q, want EUR", cfg.General.Currency)
	}
	if cfg.General.DBPath != "/tmp/x.db" {
		t.Fatalf("DBPath = %q, want /tmp/x.db", cfg.General.DBPath)
	}
	extra, err := cfg.Extra()
	if err != nil {
		t.Fatalf("Extra: %v", err)
	}
	if extra != money.MustParse("250.50") {
		t.Fatalf("Extra = %s, want 250.50", extra)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FINCOACH_ADDR=0.0.0.0:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	_ = os.Unsetenv("FINCOACH_ADDR")

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg, _ := Load()
	if cfg.Daemon.Addr != "0.0.0.0:9000" {
		t.Fatalf("Addr = %q, want 0.0.0.0:9000", cfg.Daemon.Addr)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv without .env = %v, want nil", err)
	}
}

func TestExtraRejectsNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plan.ExtraMonthly = "-10"
	if _, err := cfg.Extra(); err == nil {
		t.Fatal("negative extra accepted")
	}
}

func TestWeights(t *testing.T) {
	cfg := DefaultConfig()
	w, err := cfg.Weights()
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if !w.Interest.Equal(engine.DefaultWeights().Interest) {
		t.Fatalf("default Interest = %s", w.Interest)
	}

	cfg.Scoring.Interest = ptr(0.55)
	cfg.Scoring.Kind = ptr(0)
	w, err = cfg.Weights()
	if err != nil {
		t.Fatalf("Weights with overrides: %v", err)
	}
	if w.Interest.String() != "0.55" || !w.Kind.IsZero() {
		t.Fatalf("Weights = %+v, want interest 0.55 kind 0", w)
	}

	cfg.Scoring.Kind = ptr(0.3)
	if _, err := cfg.Weights(); !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("unbalanced weights error = %v, want ErrInvalidInput", err)
	}
}
