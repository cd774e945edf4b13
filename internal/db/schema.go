// Package db persists audit sessions in SQLite.
package db

import (
	"database/sql"
	"fmt"
)

const sessionMetaTableDDL = `
CREATE TABLE IF NOT EXISTS session_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    context TEXT NOT NULL,
    audit_log TEXT NOT NULL,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    rule_count INTEGER DEFAULT 0,
    event_count INTEGER DEFAULT 0,
    total_permissions INTEGER DEFAULT 0,
    used_permissions INTEGER DEFAULT 0
);
`

const rulesTableDDL = `
CREATE TABLE IF NOT EXISTS rules (
    id INTEGER PRIMARY KEY,
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    class TEXT NOT NULL,
    permissions TEXT NOT NULL,
    raw TEXT NOT NULL
);
`

const eventsTableDDL = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    time INTEGER NOT NULL,
    decision TEXT NOT NULL,
    permissions TEXT NOT NULL,
    pid INTEGER NOT NULL,
    comm TEXT NOT NULL,
    path TEXT NOT NULL,
    scontext TEXT NOT NULL,
    tcontext TEXT NOT NULL,
    tclass TEXT NOT NULL,
    permissive INTEGER NOT NULL
);
`

const usedPermsTableDDL = `
CREATE TABLE IF NOT EXISTS used_perms (
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    class TEXT NOT NULL,
    perm TEXT NOT NULL,
    PRIMARY KEY (source, target, class, perm)
);
`

const rulesClassIndexDDL = `CREATE INDEX IF NOT EXISTS idx_rules_class ON rules(class);`
const eventsClassIndexDDL = `CREATE INDEX IF NOT EXISTS idx_events_tclass ON events(tclass);`

// InitSchema creates all tables in the database.
func InitSchema(db *sql.DB) error {
	ddls := []string{
		sessionMetaTableDDL,
		rulesTableDDL,
		eventsTableDDL,
		usedPermsTableDDL,
		rulesClassIndexDDL,
		eventsClassIndexDDL,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// ApplyWritePragmas configures SQLite for session capture.
func ApplyWritePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// ApplyReadPragmas configures SQLite for read-only report sessions.
func ApplyReadPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA query_only = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// Finalize prepares the database for read-only access.
func Finalize(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize: %w", err)
	}

	// Switch from WAL to DELETE for better portability
	if _, err := db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	return nil
}
