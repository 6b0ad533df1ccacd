// Package barcache stores raw provider responses for a short TTL so repeated
// scans within a window do not refetch. It never stores analysis results.
package barcache

import (
	"context"
	"time"
)

// Store is a byte-oriented TTL cache.
type Store interface {
	// Get returns the cached payload; ok is false on a miss or expiry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Close() error
}
