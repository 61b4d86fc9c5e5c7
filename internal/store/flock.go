package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// withFileLock runs fn while holding an exclusive flock on lockPath. Test
// runners of one campaign share the database file, so the first one to open
// it migrates while the others wait here.
func withFileLock(lockPath string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec // G304: lockPath derived from the configured db path
	if err != nil {
		return fmt.Errorf("open lock file %s: %w", lockPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	defer func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }()

	return fn()
}

// isMemoryDB reports whether dbPath names an in-memory database, which has no
// file to lock.
func isMemoryDB(dbPath string) bool {
	return strings.Contains(dbPath, ":memory:")
}
