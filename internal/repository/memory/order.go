package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// OrderRepository is an in-memory implementation of repository.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*domain.Order
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
	}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = copyOrder(order)
	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyOrder(order), nil
}

// ListByUser retrieves all orders of a user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, copyOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateStatus moves an order between statuses.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if order.Status != from {
		return repository.ErrConflict
	}

	order.Status = to
	ts := at
	switch to {
	case domain.OrderStatusInProgress:
		order.StartedAt = &ts
	case domain.OrderStatusCompleted:
		order.CompletedAt = &ts
	case domain.OrderStatusCancelled:
		order.CancelledAt = &ts
	}
	return nil
}

// SetDriverRating stores the rating of a completed, unrated order.
func (r *OrderRepository) SetDriverRating(ctx context.Context, id int64, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if order.Status != domain.OrderStatusCompleted || order.DriverRating != nil {
		return repository.ErrConflict
	}
	v := rating
	order.DriverRating = &v
	return nil
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.DriverRating = copyFloat(o.DriverRating)
	c.StartedAt = copyTime(o.StartedAt)
	c.CompletedAt = copyTime(o.CompletedAt)
	c.CancelledAt = copyTime(o.CancelledAt)
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
