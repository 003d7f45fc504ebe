package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// OrderCache is a best-effort cache of order details. Implementations
// report a miss as (nil, nil).
type OrderCache interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Quoter prices a trip.
type Quoter interface {
	Quote(ctx context.Context, origin, destination string, tariff domain.Tariff) (*Quote, error)
}

// CarAssigner picks a vehicle for a tariff.
type CarAssigner interface {
	Assign(tariff domain.Tariff) (Car, error)
}

// CardChecker reports whether a user has a saved payment card.
type CardChecker interface {
	HasCard(ctx context.Context, userID int64) (bool, error)
}

// Ensure implementations satisfy the interfaces.
var (
	_ Quoter      = (*QuoteService)(nil)
	_ CarAssigner = (*CarPool)(nil)
	_ CardChecker = (*CardVault)(nil)
)

// OrderService owns the order lifecycle.
type OrderService struct {
	orders repository.OrderRepository
	quotes Quoter
	cars   CarAssigner
	cards  CardChecker
	cache  OrderCache
	now    func() time.Time
}

// NewOrderService creates a new OrderService. cache may be nil.
func NewOrderService(
	orders repository.OrderRepository,
	quotes Quoter,
	cars CarAssigner,
	cards CardChecker,
	cache OrderCache,
) *OrderService {
	return &OrderService{
		orders: orders,
		quotes: quotes,
		cars:   cars,
		cards:  cards,
		cache:  cache,
		now:    time.Now,
	}
}

// CreateOrderRequest contains the parameters for creating an order.
type CreateOrderRequest struct {
	UserID        int64
	Origin        string
	Destination   string
	DistanceKm    float64
	Price         float64
	Tariff        domain.Tariff
	Car           string
	PlateNumber   string
	PaymentMethod domain.PaymentMethod // Optional: defaults to CASH
}

// PlaceOrderRequest contains what a rider supplies when ordering a taxi.
type PlaceOrderRequest struct {
	UserID        int64
	Origin        string
	Destination   string
	Tariff        domain.Tariff
	PaymentMethod domain.PaymentMethod
}

// Create stores a new PENDING order.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentMethodCash
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:        req.UserID,
		Origin:        strings.TrimSpace(req.Origin),
		Destination:   strings.TrimSpace(req.Destination),
		DistanceKm:    req.DistanceKm,
		Price:         req.Price,
		Status:        domain.OrderStatusPending,
		Tariff:        req.Tariff,
		Car:           req.Car,
		PlateNumber:   req.PlateNumber,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     s.now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Place quotes the trip, assigns a car and creates the order.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.UserID <= 0 {
		return nil, ErrInvalidUserID
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentMethodCash
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	if req.PaymentMethod == domain.PaymentMethodCard {
		ok, err := s.cards.HasCard(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoCardOnFile
		}
	}

	quote, err := s.quotes.Quote(ctx, req.Origin, req.Destination, req.Tariff)
	if err != nil {
		return nil, err
	}

	car, err := s.cars.Assign(quote.Tariff)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, CreateOrderRequest{
		UserID:        req.UserID,
		Origin:        quote.Origin,
		Destination:   quote.Destination,
		DistanceKm:    quote.DistanceKm,
		Price:         quote.Price,
		Tariff:        quote.Tariff,
		Car:           car.Model,
		PlateNumber:   car.PlateNumber,
		PaymentMethod: req.PaymentMethod,
	})
}

// Start marks a PENDING order as picked up.
func (s *OrderService) Start(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, domain.OrderStatusInProgress)
}

// Cancel cancels a PENDING order.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, domain.OrderStatusCancelled)
}

// Complete finishes a PENDING or IN_PROGRESS order.
func (s *OrderService) Complete(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, domain.OrderStatusCompleted)
}

// Rate records the rider's rating of the driver on a completed order.
// An order can be rated once.
func (s *OrderService) Rate(ctx context.Context, id int64, rating float64) (*domain.Order, error) {
	if math.IsNaN(rating) || rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusCompleted {
		return nil, ErrInvalidState
	}
	if order.IsRated() {
		return nil, ErrAlreadyRated
	}

	if err := s.orders.SetDriverRating(ctx, id, rating); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			// COMPLETED is terminal, so only a concurrent rating can get here.
			return nil, ErrAlreadyRated
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}
	s.invalidate(ctx, id)

	order.DriverRating = &rating
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, id int64, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, to) {
		return nil, ErrInvalidTransition
	}

	at := s.now()
	if err := s.orders.UpdateStatus(ctx, id, order.Status, to, at); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrInvalidTransition
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}
	s.invalidate(ctx, id)

	order.Status = to
	switch to {
	case domain.OrderStatusInProgress:
		order.StartedAt = &at
	case domain.OrderStatusCompleted:
		order.CompletedAt = &at
	case domain.OrderStatusCancelled:
		order.CancelledAt = &at
	}
	return order, nil
}

// Order returns the current state of an order from the store.
func (s *OrderService) Order(ctx context.Context, id int64) (*domain.Order, error) {
	return s.get(ctx, id)
}

// get reads straight from the store; lifecycle decisions never use the cache.
func (s *OrderService) get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.DeleteOrder(ctx, id)
	}
}

func validateCreateRequest(req CreateOrderRequest) error {
	if req.UserID <= 0 {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return ErrInvalidAddress
	}
	if !req.Tariff.Valid() {
		return ErrInvalidTariff
	}
	if !req.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) || req.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
