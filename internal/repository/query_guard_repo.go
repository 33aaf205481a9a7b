package repository

import (
	"context"
	"time"
)

// QueryGuard defines the interface for throttling repeat scrapes of the
// same search query.
type QueryGuard interface {
	// MarkStarted records that a query was just scraped, with an expiry.
	MarkStarted(ctx context.Context, query string, expiry time.Duration) error
	// RecentlyRun checks whether a query was scraped within its expiry window.
	RecentlyRun(ctx context.Context, query string) (bool, error)
}
