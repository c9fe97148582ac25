// Package config loads fincoach settings from the TOML config file, a .env
// file and FINCOACH_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
)

// Config holds all fincoach configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plan       PlanConfig       `toml:"plan"`
	Scoring    ScoringConfig    `toml:"scoring"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
	DBPath   string `toml:"db_path,omitempty"`
	LogLevel string `toml:"log_level"`
}

// PlanConfig holds payoff planning defaults.
type PlanConfig struct {
	// ExtraMonthly is the default what-if budget, as decimal text.
	ExtraMonthly string `toml:"extra_monthly"`
}

// ScoringConfig overrides individual priority weights. Unset weights keep
// their defaults; the resulting set must still sum to 1.
type ScoringConfig struct {
	Interest *float64 `toml:"interest,omitempty"`
	Time     *float64 `toml:"time,omitempty"`
	Relief   *float64 `toml:"relief,omitempty"`
	Kind     *float64 `toml:"kind,omitempty"`
}

// DaemonConfig holds settings for fincoach serve.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Refresh      string `toml:"refresh"`
	Rollover     string `toml:"rollover"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "BRL",
			LogLevel: "info",
		},
		Plan: PlanConfig{
			ExtraMonthly: "0",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			Refresh:      "@every 1m",
			Rollover:     "@monthly",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincoach")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fincoach")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadEnv loads a .env file from the working directory when present.
// Variables already set in the environment are not overwritten.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FINCOACH_DB"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("FINCOACH_CURRENCY"); v != "" {
		cfg.General.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("FINCOACH_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("FINCOACH_EXTRA"); v != "" {
		cfg.Plan.ExtraMonthly = v
	}
	if v := os.Getenv("FINCOACH_ADDR"); v != "" {
		cfg.Daemon.Addr = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Extra parses the configured default what-if budget.
func (c Config) Extra() (money.Money, error) {
	if strings.TrimSpace(c.Plan.ExtraMonthly) == "" {
		return 0, nil
	}
	m, err := money.Parse(c.Plan.ExtraMonthly)
	if err != nil {
		return 0, fmt.Errorf("plan.extra_monthly: %w", err)
	}
	if m < 0 {
		return 0, fmt.Errorf("plan.extra_monthly: %s is negative", m)
	}
	return m, nil
}

// Weights returns the engine defaults with any configured overrides applied.
func (c Config) Weights() (engine.Weights, error) {
	w := engine.DefaultWeights()
	override := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}
	override(&w.Interest, c.Scoring.Interest)
	override(&w.Time, c.Scoring.Time)
	override(&w.Relief, c.Scoring.Relief)
	override(&w.Kind, c.Scoring.Kind)

	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("scoring: %w", err)
	}
	return w, nil
}
