package redis

import (
	"context"
	"time"

	"taxi/internal/geo"
	"taxi/internal/service"
)

// ResponseStoreInterface defines storage of idempotent responses.
type ResponseStoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// Ensure concrete types implement interfaces.
var (
	_ ResponseStoreInterface = (*ResponseStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ service.OrderCache     = (*CacheStore)(nil)
	_ geo.Geocoder           = (*GeocodeCache)(nil)
)
