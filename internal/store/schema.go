package store

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    kind                 TEXT NOT NULL CHECK (kind IN ('card', 'loan')),
    balance_cents        INTEGER NOT NULL CHECK (balance_cents >= 0),
    payment_cents        INTEGER NOT NULL CHECK (payment_cents >= 0),
    monthly_rate         TEXT NOT NULL,
    credit_limit_cents   INTEGER NOT NULL DEFAULT 0,
    due_day              INTEGER NOT NULL DEFAULT 0,
    closing_day          INTEGER NOT NULL DEFAULT 0,
    installments         INTEGER NOT NULL DEFAULT 0,
    paid_installments    INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    debt_id              TEXT NOT NULL,
    amount_cents         INTEGER NOT NULL CHECK (amount_cents > 0),
    paid_at              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    target_cents         INTEGER NOT NULL CHECK (target_cents >= 0),
    current_cents        INTEGER NOT NULL CHECK (current_cents >= 0),
    deadline             TEXT NOT NULL,
    category             TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    category             TEXT PRIMARY KEY,
    limit_cents          INTEGER NOT NULL CHECK (limit_cents >= 0),
    spent_cents          INTEGER NOT NULL DEFAULT 0 CHECK (spent_cents >= 0)
);

CREATE TABLE IF NOT EXISTS spend_history (
    period               TEXT NOT NULL,
    category             TEXT NOT NULL,
    spent_cents          INTEGER NOT NULL CHECK (spent_cents >= 0),
    PRIMARY KEY (period, category)
);

CREATE TABLE IF NOT EXISTS incomes (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount_cents         INTEGER NOT NULL CHECK (amount_cents >= 0),
    received             TEXT NOT NULL,
    source               TEXT NOT NULL,
    recurring            INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount_cents         INTEGER NOT NULL CHECK (amount_cents >= 0),
    due_date             TEXT NOT NULL,
    category             TEXT NOT NULL,
    method               TEXT NOT NULL,
    paid                 INTEGER NOT NULL DEFAULT 0,
    recurring            INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_debt ON payments(debt_id);
CREATE INDEX IF NOT EXISTS idx_history_category ON spend_history(category, period);
CREATE INDEX IF NOT EXISTS idx_expenses_due ON expenses(due_date);
`

// columnMigrations add columns that databases created by older versions lack.
var columnMigrations = []struct{ table, column, ddl string }{
	{"debts", "credit_limit_cents", "ALTER TABLE debts ADD COLUMN credit_limit_cents INTEGER NOT NULL DEFAULT 0"},
	{"debts", "due_day", "ALTER TABLE debts ADD COLUMN due_day INTEGER NOT NULL DEFAULT 0"},
	{"debts", "closing_day", "ALTER TABLE debts ADD COLUMN closing_day INTEGER NOT NULL DEFAULT 0"},
	{"debts", "installments", "ALTER TABLE debts ADD COLUMN installments INTEGER NOT NULL DEFAULT 0"},
	{"debts", "paid_installments", "ALTER TABLE debts ADD COLUMN paid_installments INTEGER NOT NULL DEFAULT 0"},
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return err
	}
	for _, m := range columnMigrations {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", m.table, m.column).Scan(&n); err != nil {
			return fmt.Errorf("inspecting %s: %w", m.table, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.Exec(m.ddl); err != nil {
			return fmt.Errorf("adding %s.%s: %w", m.table, m.column, err)
		}
	}
	return nil
}
