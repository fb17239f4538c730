package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Ledger table. Nested collections and descriptive fields live in the
-- payload column as the record's canonical JSON form; the scalar columns
-- exist for lookup and ordering. position 0 is the front of the ledger.
CREATE TABLE IF NOT EXISTS ledger (
    id TEXT PRIMARY KEY,
    doc_number TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN (
        'DRAFT', 'INITIATED', 'FEASIBILITY', 'REVIEW', 'CUSTOMER_APP',
        'IMPLEMENTATION', 'TRIAL', 'COMPLETED', 'REJECTED'
    )),
    apply_date TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_doc_number ON ledger(doc_number);
CREATE INDEX IF NOT EXISTS idx_ledger_position ON ledger(position);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
