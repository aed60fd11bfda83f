// Package cache keeps hot copies of embedding vectors in Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a JSON key/value store with per-key TTL. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
