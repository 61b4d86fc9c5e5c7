package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	_ "modernc.org/sqlite"
)

// InitDB opens the result database at the configured path.
func InitDB() (*sql.DB, error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, err
	}
	return InitDBWithPath(dbPath)
}

// InitDBWithPath opens the result database at dbPath with the configured
// busy timeout.
func InitDBWithPath(dbPath string) (*sql.DB, error) {
	return Open(dbPath, app.BusyTimeout())
}

// Open creates or opens the SQLite file, switches it to WAL and migrates
// the schema. Test runners of a parallel suite share the file, so every
// statement waits up to busyTimeout on a lock before SQLITE_BUSY.
func Open(dbPath string, busyTimeout time.Duration) (*sql.DB, error) {
	if _, err := app.EnsureDBDir(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", normalizeSQLiteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer per process; other runners are handled by busy_timeout
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range connectionPragmas(busyTimeout) {
		if err := RetryWithBackoff(func() error {
			_, execErr := db.ExecContext(ctx, pragma)
			return execErr
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := RetryWithBackoff(func() error { return MigrateDB(db, dbPath) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// connectionPragmas lists the settings applied on open. busy_timeout comes
// first so the WAL switch itself waits on other runners.
func connectionPragmas(busyTimeout time.Duration) []string {
	ms := busyTimeout.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	return []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", ms),
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA journal_mode=WAL",
	}
}

// normalizeSQLiteDSN turns a plain path into a read/write/create file URI.
// file: DSNs are used as given; :memory: is shared between connections.
func normalizeSQLiteDSN(dbPath string) string {
	switch {
	case strings.HasPrefix(dbPath, "file:"):
		return dbPath
	case dbPath == ":memory:":
		return "file::memory:?cache=shared"
	default:
		return "file:" + dbPath + "?mode=rwc"
	}
}
