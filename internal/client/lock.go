package client

import (
	"fmt"
	"strings"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-time-sync/internal/service"
)

// lockPath derives the lock file from a SQLite DSN such as
// "file:timesync.db?_busy_timeout=5000".
func lockPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path + ".lock"
}

// acquireLock takes the process lock of the database. A second process gets
// service.ErrSyncInProgress instead of waiting.
func acquireLock(dsn string) (*flock.Flock, error) {
	lock := flock.New(lockPath(dsn))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s is locked", service.ErrSyncInProgress, lock.Path())
	}

	return lock, nil
}
