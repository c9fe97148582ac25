// Package store provides the SQLite-backed household record store.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

const (
	keyCurrency = "currency"
	keyPeriod   = "period"

	dateLayout   = "2006-01-02"
	periodLayout = "2006-01"
)

// Store is the household record store.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Open opens or creates the database at dbPath. A nil logger discards logs.
func Open(dbPath string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, log: log.WithField("component", "store")}, nil
}

// DefaultPath returns the XDG-compliant database location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincoach", "fincoach.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fincoach", "fincoach.db")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func getSetting(q queryer, key string) (string, error) {
	var v string
	err := q.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func putSetting(q queryer, key, value string) error {
	_, err := q.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

// Currency returns the household currency code, empty if never set.
func (s *Store) Currency() (string, error) {
	return getSetting(s.db, keyCurrency)
}

// SetCurrency stores the household currency code.
func (s *Store) SetCurrency(code string) error {
	return putSetting(s.db, keyCurrency, code)
}

// Period returns the open budget period (YYYY-MM), empty if never set.
func (s *Store) Period() (string, error) {
	return getSetting(s.db, keyPeriod)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func parsePeriod(p string) (time.Time, error) {
	t, err := time.Parse(periodLayout, p)
	if err != nil {
		return t, fmt.Errorf("period %q: want YYYY-MM", p)
	}
	return t, nil
}
