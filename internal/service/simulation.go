package service

import (
	"context"
	"time"

	"taxi/internal/domain"
)

// SimulationConfig controls how long a simulated trip takes.
type SimulationConfig struct {
	SpeedKmh  float64       // average speed; non-positive means 40 km/h
	TimeScale float64       // real seconds per simulated second
	MaxWait   time.Duration // upper bound on the real wait; zero means no bound
}

// TripLifecycle is the part of OrderService a simulated trip drives.
type TripLifecycle interface {
	Order(ctx context.Context, id int64) (*domain.Order, error)
	Start(ctx context.Context, id int64) (*domain.Order, error)
	Complete(ctx context.Context, id int64) (*domain.Order, error)
}

var _ TripLifecycle = (*OrderService)(nil)

// TripSimulator drives an order from pickup to drop-off in simulated time.
type TripSimulator struct {
	orders TripLifecycle
	cfg    SimulationConfig
	now    func() time.Time
}

// NewTripSimulator creates a new TripSimulator.
func NewTripSimulator(orders TripLifecycle, cfg SimulationConfig) *TripSimulator {
	if cfg.SpeedKmh <= 0 {
		cfg.SpeedKmh = 40
	}
	if cfg.TimeScale < 0 {
		cfg.TimeScale = 0
	}
	return &TripSimulator{orders: orders, cfg: cfg, now: time.Now}
}

// Drive starts a PENDING order, waits for the simulated travel time and
// completes it. An order already IN_PROGRESS, e.g. from an interrupted
// drive, is resumed and only waits for what is left of its trip. If ctx
// ends during the wait the order stays IN_PROGRESS.
func (s *TripSimulator) Drive(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.OrderStatusPending:
		if order, err = s.orders.Start(ctx, orderID); err != nil {
			return nil, err
		}
	case domain.OrderStatusInProgress:
	default:
		return nil, ErrInvalidTransition
	}

	if wait := s.Remaining(order); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return s.orders.Complete(ctx, orderID)
}

// TravelTime returns the real time spent simulating a trip of distanceKm.
func (s *TripSimulator) TravelTime(distanceKm float64) time.Duration {
	if distanceKm <= 0 {
		return 0
	}
	hours := distanceKm / s.cfg.SpeedKmh
	wait := time.Duration(hours * s.cfg.TimeScale * float64(time.Hour))
	if s.cfg.MaxWait > 0 && wait > s.cfg.MaxWait {
		wait = s.cfg.MaxWait
	}
	return wait
}

// Remaining returns how long the trip of an IN_PROGRESS order still takes,
// counted from its pickup time.
func (s *TripSimulator) Remaining(order *domain.Order) time.Duration {
	wait := s.TravelTime(order.DistanceKm)
	if order.StartedAt != nil {
		wait -= s.now().Sub(*order.StartedAt)
	}
	if wait < 0 {
		return 0
	}
	return wait
}
