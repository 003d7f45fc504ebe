package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

const orderColumns = `id, user_id, origin, destination, distance_km, price, status, driver_rating,
		tariff, car, plate_number, payment_method, created_at, started_at, completed_at, cancelled_at`

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// Create persists a new order and fills in its generated ID.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (user_id, origin, destination, distance_km, price, status,
			tariff, car, plate_number, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, query,
		order.UserID,
		order.Origin,
		order.Destination,
		order.DistanceKm,
		order.Price,
		order.Status,
		order.Tariff,
		order.Car,
		order.PlateNumber,
		order.PaymentMethod,
		order.CreatedAt,
	).Scan(&order.ID)
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return order, nil
}

// ListByUser retrieves all orders of a user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus moves an order from one status to another. The update only
// applies while the stored status still equals from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, at time.Time) error {
	column, err := timestampColumn(to)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE orders SET status = $1, %s = $2 WHERE id = $3 AND status = $4`, column)
	result, err := r.q.ExecContext(ctx, query, to, at, id, from)
	if err != nil {
		return err
	}
	return r.checkAffected(ctx, result, id)
}

// SetDriverRating stores the rating of a completed, unrated order.
func (r *OrderRepository) SetDriverRating(ctx context.Context, id int64, rating float64) error {
	query := `UPDATE orders SET driver_rating = $1 WHERE id = $2 AND status = $3 AND driver_rating IS NULL`

	result, err := r.q.ExecContext(ctx, query, rating, id, domain.OrderStatusCompleted)
	if err != nil {
		return err
	}
	return r.checkAffected(ctx, result, id)
}

// checkAffected distinguishes a missing order from a failed precondition
// when a conditional update touched no rows.
func (r *OrderRepository) checkAffected(ctx context.Context, result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func timestampColumn(status domain.OrderStatus) (string, error) {
	switch status {
	case domain.OrderStatusInProgress:
		return "started_at", nil
	case domain.OrderStatusCompleted:
		return "completed_at", nil
	case domain.OrderStatusCancelled:
		return "cancelled_at", nil
	default:
		return "", fmt.Errorf("no timestamp column for status %s", status)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var rating sql.NullFloat64
	var started, completed, cancelled sql.NullTime
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Origin,
		&order.Destination,
		&order.DistanceKm,
		&order.Price,
		&order.Status,
		&rating,
		&order.Tariff,
		&order.Car,
		&order.PlateNumber,
		&order.PaymentMethod,
		&order.CreatedAt,
		&started,
		&completed,
		&cancelled,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		v := rating.Float64
		order.DriverRating = &v
	}
	order.StartedAt = nullTime(started)
	order.CompletedAt = nullTime(completed)
	order.CancelledAt = nullTime(cancelled)
	return &order, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
