package database

import (
	"context"
	"time"
)

// getContext creates a context with timeout
func getContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// nowRFC3339 returns the current UTC time in the storage format used for
// every timestamp column.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
