// Package cache defines the read-through cache serving aggregated
// rollups.
package cache

import (
	"context"
	"errors"
)

// based on github.com/kittpat1413/go-common/framework/cache/cache.go

// ErrCacheMiss is returned when no value is cached for the key and no
// loader is configured.
var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
}
