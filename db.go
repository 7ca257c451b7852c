package tagstudio

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// NewUUID returns a new random UUID string, used for Folder.UUID.
func NewUUID() string {
	return uuid.New().String()
}

// openConnection opens a *sql.DB against storagePath. ":memory:" opens
// a single shared in-memory connection (SetMaxOpenConns(1), matching
// spec.md §5's "an in-memory mode uses a shared connection and is
// therefore strictly single-threaded"); a file path opens with a busy
// timeout and, for read-only callers, SQLite's immutable/ro URI mode so
// idle readers never block a concurrent writer.
func openConnection(storagePath string, opts EngineOptions, readOnly bool) (*sql.DB, error) {
	if storagePath == ":memory:" {
		db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
		if err != nil {
			return nil, fmt.Errorf("opening in-memory library: %w", err)
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", storagePath, opts.BusyTimeoutMS)
	if readOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d&immutable=1", storagePath, opts.BusyTimeoutMS)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening library at %q: %w", storagePath, err)
	}
	return db, nil
}

// initSchema creates every table and index in schemaSQL inside a
// single transaction. Called only when the storage file does not yet
// exist (or is a fresh in-memory database).
func initSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaSQL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return tx.Commit()
}

// tableExists reports whether a table with the given name is present
// in the database, used to detect pre-DB101 databases that lack the
// `versions` table entirely.
func tableExists(db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking for table %q: %w", name, err)
	}
	return true, nil
}
