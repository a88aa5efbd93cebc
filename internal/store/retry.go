package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// IsSQLiteBusyError checks if the error is a SQLITE_BUSY error.
func IsSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY")
}

// IsSQLiteLockedError checks if the error is a "database is locked" error.
func IsSQLiteLockedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "database is locked")
}

// IsSQLiteConflictError reports either SQLite concurrency error.
func IsSQLiteConflictError(err error) bool {
	return IsSQLiteBusyError(err) || IsSQLiteLockedError(err)
}

const (
	writeRetries   = 3
	writeBaseDelay = 100 * time.Millisecond
)

// retryWrite runs fn, retrying SQLite conflicts with exponential backoff
// (100ms, 200ms). Other errors are returned immediately.
func retryWrite(ctx context.Context, op string, fn func() error) error {
	var err error
	for i := 0; i < writeRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsSQLiteConflictError(err) || i == writeRetries-1 {
			break
		}
		delay := writeBaseDelay * time.Duration(1<<i)
		slog.Debug("SQLite write conflict, retrying", "op", op, "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
