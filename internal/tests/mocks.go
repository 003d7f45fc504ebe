package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"taxi/internal/domain"
	"taxi/internal/redis"
	"taxi/internal/repository"
	"taxi/internal/repository/memory"
	"taxi/internal/service"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository wraps the in-memory order store with call counters
// and error injection.
type MockOrderRepository struct {
	*memory.OrderRepository

	// Counters for verification
	CreateCallCount          int32
	UpdateStatusCallCount    int32
	SetDriverRatingCallCount int32

	// Error injection
	CreateError          error
	UpdateStatusError    error
	SetDriverRatingError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{OrderRepository: memory.NewOrderRepository()}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	return m.OrderRepository.Create(ctx, order)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, at time.Time) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	return m.OrderRepository.UpdateStatus(ctx, id, from, to, at)
}

func (m *MockOrderRepository) SetDriverRating(ctx context.Context, id int64, rating float64) error {
	atomic.AddInt32(&m.SetDriverRatingCallCount, 1)
	if m.SetDriverRatingError != nil {
		return m.SetDriverRatingError
	}
	return m.OrderRepository.SetDriverRating(ctx, id, rating)
}

// ──────────────────────────────────────────────
// MOCK ORDER CACHE
// ──────────────────────────────────────────────

// MockOrderCache is an in-process OrderCache.
type MockOrderCache struct {
	mu     sync.Mutex
	orders map[int64]domain.Order

	// Counters
	GetCallCount    int32
	SetCallCount    int32
	DeleteCallCount int32
}

// NewMockOrderCache creates a new mock order cache.
func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{orders: make(map[int64]domain.Order)}
}

func (m *MockOrderCache) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (m *MockOrderCache) SetOrder(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = *order
	return nil
}

func (m *MockOrderCache) DeleteOrder(ctx context.Context, id int64) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}

// Cached reports whether an order is in the cache (for test assertions).
func (m *MockOrderCache) Cached(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[id]
	return ok
}

// ──────────────────────────────────────────────
// MOCK RESPONSE STORE
// ──────────────────────────────────────────────

// MockResponseStore keeps idempotent responses in memory.
type MockResponseStore struct {
	mu        sync.Mutex
	responses map[string][]byte

	// Counters
	SetCallCount int32
}

// NewMockResponseStore creates a new mock response store.
func NewMockResponseStore() *MockResponseStore {
	return &MockResponseStore{responses: make(map[string][]byte)}
}

func (m *MockResponseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.responses[key]
	return data, ok, nil
}

func (m *MockResponseStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = data
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[name]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}

	m.locks[name] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) Release(ctx context.Context, name string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, name)
	return nil
}

// ──────────────────────────────────────────────
// FIXED DISTANCE ESTIMATOR
// ──────────────────────────────────────────────

// FixedDistance reports the same distance for every trip.
type FixedDistance float64

func (d FixedDistance) Distance(ctx context.Context, origin, destination string) (float64, error) {
	return float64(d), nil
}

var (
	_ repository.OrderRepository   = (*MockOrderRepository)(nil)
	_ service.OrderCache           = (*MockOrderCache)(nil)
	_ redis.ResponseStoreInterface = (*MockResponseStore)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ service.DistanceEstimator    = FixedDistance(0)
)
