// Package cachemanager provides a small typed caching layer. The document
// loader memoizes parse results through it for the duration of one
// resolution run.
package cachemanager

import (
	"context"
	"time"
)

// NoExpiration marks entries that live until the cache is flushed.
const NoExpiration time.Duration = -1

// Manager is a typed cache keyed by string-like keys.
type Manager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
