package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"taxi/internal/domain"
)

// CacheStore handles order caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// OrderCacheTTL bounds how stale a cached order can get if an
// invalidation is lost.
const OrderCacheTTL = 30 * time.Second

const orderCachePrefix = "cache:order:"

// CachedOrder is the JSON form of an order in Redis.
type CachedOrder struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DistanceKm    float64    `json:"distance_km"`
	Price         float64    `json:"price"`
	Status        string     `json:"status"`
	DriverRating  *float64   `json:"driver_rating,omitempty"`
	Tariff        string     `json:"tariff"`
	Car           string     `json:"car"`
	PlateNumber   string     `json:"plate_number"`
	PaymentMethod string     `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// NewCachedOrder converts an order to its cached form.
func NewCachedOrder(o *domain.Order) *CachedOrder {
	return &CachedOrder{
		ID:            o.ID,
		UserID:        o.UserID,
		Origin:        o.Origin,
		Destination:   o.Destination,
		DistanceKm:    o.DistanceKm,
		Price:         o.Price,
		Status:        string(o.Status),
		DriverRating:  o.DriverRating,
		Tariff:        string(o.Tariff),
		Car:           o.Car,
		PlateNumber:   o.PlateNumber,
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		StartedAt:     o.StartedAt,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
	}
}

// Order converts the cached form back to a domain order.
func (c *CachedOrder) Order() *domain.Order {
	return &domain.Order{
		ID:            c.ID,
		UserID:        c.UserID,
		Origin:        c.Origin,
		Destination:   c.Destination,
		DistanceKm:    c.DistanceKm,
		Price:         c.Price,
		Status:        domain.OrderStatus(c.Status),
		DriverRating:  c.DriverRating,
		Tariff:        domain.Tariff(c.Tariff),
		Car:           c.Car,
		PlateNumber:   c.PlateNumber,
		PaymentMethod: domain.PaymentMethod(c.PaymentMethod),
		CreatedAt:     c.CreatedAt,
		StartedAt:     c.StartedAt,
		CompletedAt:   c.CompletedAt,
		CancelledAt:   c.CancelledAt,
	}
}

// GetOrder retrieves an order from cache. A miss returns nil, nil.
func (s *CacheStore) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	data, err := s.client.Get(ctx, orderKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var cached CachedOrder
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return cached.Order(), nil
}

// SetOrder stores an order in cache.
func (s *CacheStore) SetOrder(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(NewCachedOrder(order))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, orderKey(order.ID), data, OrderCacheTTL).Err()
}

// DeleteOrder removes an order from cache.
func (s *CacheStore) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.client.Del(ctx, orderKey(orderID)).Err()
}

func orderKey(id int64) string {
	return orderCachePrefix + strconv.FormatInt(id, 10)
}
