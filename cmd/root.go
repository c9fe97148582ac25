// Package cmd implements the fincoach CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/store"
)

var (
	flagDB       string
	flagToday    string
	flagExtra    string
	flagQuiet    bool
	flagLogLevel string
)

// rt is resolved once per invocation by the root pre-run hook.
var rt struct {
	cfg     config.Config
	log     *logrus.Logger
	today   time.Time
	extra   money.Money
	weights engine.Weights
}

var rootCmd = &cobra.Command{
	Use:           "fincoach",
	Short:         "Debt prioritization and budget coach",
	Long:          "Rank your debts, plan a snowball payoff, track goals and budgets, and get plain-language advice.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,

	PersistentPreRunE: setupRuntime,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config or XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Reference date YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().StringVar(&flagExtra, "extra", "", "Extra monthly budget for debts (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setupRuntime loads .env and config, then resolves the flags against them.
func setupRuntime(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rt.cfg = cfg

	log, err := newLogger(cfg.General.LogLevel, cmd.Name() == serveCmd.Name(), os.Stderr)
	if err != nil {
		return err
	}
	rt.log = log

	rt.today = time.Now()
	if flagToday != "" {
		d, err := time.ParseInLocation("2006-01-02", flagToday, time.Local)
		if err != nil {
			return fmt.Errorf("--today: want YYYY-MM-DD, got %q", flagToday)
		}
		rt.today = d
	}

	if flagExtra != "" {
		rt.cfg.Plan.ExtraMonthly = flagExtra
	}
	if rt.extra, err = rt.cfg.Extra(); err != nil {
		return err
	}
	if rt.weights, err = rt.cfg.Weights(); err != nil {
		return err
	}
	return nil
}

// newLogger builds the process logger. The daemon logs JSON; interactive
// commands log text and stay at warn unless asked, so their output is not
// interleaved with record-keeping chatter.
func newLogger(configured string, daemon bool, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	level := "warn"
	switch {
	case flagLogLevel != "":
		level = flagLogLevel
	case daemon:
		level = configured
	}
	if flagQuiet && flagLogLevel == "" {
		level = "error"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)

	if daemon {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log, nil
}

func dbPath() string {
	switch {
	case flagDB != "":
		return flagDB
	case rt.cfg.General.DBPath != "":
		return rt.cfg.General.DBPath
	default:
		return dbPathDefault()
	}
}

func dbPathDefault() string {
	return store.DefaultPath()
}

// householdStore fills in the configured currency when the store has none.
type householdStore struct {
	*store.Store
	currency string
}

// Snapshot implements daemon.Records.
func (s householdStore) Snapshot(historyPeriods int) (model.Household, error) {
	h, err := s.Store.Snapshot(historyPeriods)
	if err == nil && h.Currency == "" {
		h.Currency = s.currency
	}
	return h, err
}

// Currency returns the stored currency or the configured default.
func (s householdStore) Currency() string {
	if c, err := s.Store.Currency(); err == nil && c != "" {
		return c
	}
	return s.currency
}

func openStore() (householdStore, error) {
	st, err := store.Open(dbPath(), rt.log)
	if err != nil {
		return householdStore{}, err
	}
	return householdStore{Store: st, currency: rt.cfg.General.Currency}, nil
}

// analyzeOptions returns the pipeline options for this invocation.
func analyzeOptions(memo *pipeline.Memo) pipeline.Options {
	w := rt.weights
	return pipeline.Options{
		Today:   rt.today,
		Extra:   rt.extra,
		Weights: &w,
		Memo:    memo,
	}
}

// loadReport is the shared data loading path used by the reporting commands.
func loadReport() (*pipeline.Report, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	h, err := st.Snapshot(coach.HistoryPeriods)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && len(h.Debts)+len(h.Goals)+len(h.Budgets) == 0 {
		fmt.Fprintln(os.Stderr, "  No records yet. Try `fincoach import --sample` or `fincoach add debt`.")
	}
	return pipeline.Analyze(h, analyzeOptions(nil))
}

// parseAmountArg parses a positive amount argument.
func parseAmountArg(name, s string) (money.Money, error) {
	m, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if m <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, m)
	}
	return m, nil
}

// todayOverride is the --today date, or zero to follow the wall clock.
func todayOverride() time.Time {
	if flagToday == "" {
		return time.Time{}
	}
	return rt.today
}

func currentPeriod() string {
	return rt.today.Format("2006-01")
}

func formatMoney(m money.Money, currency string) string {
	return cli.FormatMoney(m, currency)
}

func title(s string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(s)))
	fmt.Println()
}
