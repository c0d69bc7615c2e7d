package blobstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	sqliteBusyCode    = 5
	busyRetryAttempts = 5
	busyRetryBackoff  = 20 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy reruns op while SQLite reports the database as locked, backing
// off linearly between attempts.
func retryOnBusy(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= busyRetryAttempts; attempt++ {
		if err = op(); !isSQLiteBusy(err) || attempt == busyRetryAttempts {
			return err
		}
		select {
		case <-time.After(time.Duration(attempt) * busyRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
