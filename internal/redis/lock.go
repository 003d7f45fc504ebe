package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles short-lived exclusive locks in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// Acquire attempts to take the named lock.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "lock:"+name, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// Release releases the named lock.
func (s *LockStore) Release(ctx context.Context, name string) error {
	return s.client.Del(ctx, "lock:"+name).Err()
}
