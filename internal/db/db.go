package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/planboard/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// connPragmas run on every connection the pool opens. A plain PRAGMA
// statement would only reach whichever connection executed it, so the other
// pooled connections would skip foreign keys and fail fast on a held lock.
// Writers take the lock at BEGIN so concurrent saves queue on busy_timeout.
const connPragmas = "_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_txlock=immediate"

// DSN returns the modernc connection string for path with connPragmas.
func DSN(path string) string {
	return path + "?" + connPragmas
}

// OpenDB opens a SQLite database at the given path and applies pending
// migrations. ":memory:" opens a private in-memory database.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives only as long as its connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Migrate applies all pending goose migrations from the embedded FS.
func Migrate(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
