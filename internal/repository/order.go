package repository

import (
	"context"
	"time"

	"taxi/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order and assigns its ID.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByUser retrieves all orders of a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)

	// UpdateStatus moves an order from one status to another and stamps the
	// matching transition timestamp. Returns ErrConflict if the order is not
	// in the from status, ErrNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, at time.Time) error

	// SetDriverRating stores the rating of a completed, not yet rated order.
	// Returns ErrConflict if the order is not completed or already rated.
	SetDriverRating(ctx context.Context, id int64, rating float64) error
}
