package domain

import "time"

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// AllowedTransitions is the order state machine.
// PENDING -> COMPLETED covers trips that are driven without an explicit pickup.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled, OrderStatusCompleted},
	OrderStatusInProgress: {OrderStatusCompleted},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusCompleted
}

// Order represents a single ride request.
type Order struct {
	ID            int64
	UserID        int64
	Origin        string
	Destination   string
	DistanceKm    float64
	Price         float64
	Status        OrderStatus
	DriverRating  *float64
	Tariff        Tariff
	Car           string
	PlateNumber   string
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
}

// IsRated reports whether the driver has already been rated.
func (o *Order) IsRated() bool {
	return o.DriverRating != nil
}

// IsFinal reports whether the order can no longer change: cancelled, or
// completed and rated.
func (o *Order) IsFinal() bool {
	switch o.Status {
	case OrderStatusCancelled:
		return true
	case OrderStatusCompleted:
		return o.IsRated()
	default:
		return false
	}
}
