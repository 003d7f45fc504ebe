package service

import (
	"context"
	"fmt"
	"strings"

	"taxi/internal/domain"
)

// DistanceEstimator measures the distance in kilometres between two addresses.
type DistanceEstimator interface {
	Distance(ctx context.Context, origin, destination string) (float64, error)
}

// Quote is a priced trip between two addresses.
type Quote struct {
	Origin      string
	Destination string
	DistanceKm  float64
	Tariff      domain.Tariff
	Price       float64
}

// QuoteService estimates fares for trips.
type QuoteService struct {
	estimator DistanceEstimator
	fares     *FareCalculator
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(estimator DistanceEstimator, fares *FareCalculator) *QuoteService {
	return &QuoteService{estimator: estimator, fares: fares}
}

// Quote prices a trip from origin to destination at the given tariff.
func (s *QuoteService) Quote(ctx context.Context, origin, destination string, tariff domain.Tariff) (*Quote, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, ErrInvalidAddress
	}
	if !tariff.Valid() {
		return nil, ErrInvalidTariff
	}

	distance, err := s.estimator.Distance(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("estimate distance: %w", err)
	}

	return &Quote{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  distance,
		Tariff:      tariff,
		Price:       s.fares.Price(distance, tariff),
	}, nil
}
