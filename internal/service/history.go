package service

import (
	"context"
	"errors"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// HistoryService answers read-only questions about past orders.
type HistoryService struct {
	orders repository.OrderRepository
	cache  OrderCache
}

// NewHistoryService creates a new HistoryService. cache may be nil.
func NewHistoryService(orders repository.OrderRepository, cache OrderCache) *HistoryService {
	return &HistoryService{orders: orders, cache: cache}
}

// History returns every order of the user, newest first.
func (s *HistoryService) History(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	return s.orders.ListByUser(ctx, userID)
}

// Details returns a single order. Final orders are served from the cache.
func (s *HistoryService) Details(ctx context.Context, orderID int64) (*domain.Order, error) {
	if s.cache != nil {
		if order, err := s.cache.GetOrder(ctx, orderID); err == nil && order != nil {
			return order, nil
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// A live order can change after this read, so only final orders are cached.
	if s.cache != nil && order.IsFinal() {
		_ = s.cache.SetOrder(ctx, order)
	}
	return order, nil
}

// DetailsForUser returns an order only if it belongs to userID.
// Orders of other users are reported as not found.
func (s *HistoryService) DetailsForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.Details(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}
