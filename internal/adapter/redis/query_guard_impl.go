package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/leadgen-service/pkg/utils"
)

const queryGuardPrefix = "scraped-query:"

// QueryGuardImpl provides a concrete implementation for the QueryGuard
// interface using Redis.
type QueryGuardImpl struct {
	client *redis.Client
}

// NewQueryGuard creates a new instance of QueryGuardImpl.
func NewQueryGuard(client *redis.Client) *QueryGuardImpl {
	return &QueryGuardImpl{client: client}
}

// generateKey creates a consistent Redis key for a query by hashing it.
func (r *QueryGuardImpl) generateKey(query string) string {
	return fmt.Sprintf("%s%s", queryGuardPrefix, utils.HashKey(query))
}

// MarkStarted records that a query was just scraped. SETEX is atomic and
// sets the key with an expiry.
func (r *QueryGuardImpl) MarkStarted(ctx context.Context, query string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(query), "1", expiry).Err()
}

// RecentlyRun checks whether a query was scraped within its expiry window.
func (r *QueryGuardImpl) RecentlyRun(ctx context.Context, query string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(query)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}
