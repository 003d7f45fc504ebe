package service

import "taxi/internal/domain"

// DefaultBaseRatePerKm is the price of one kilometre at the ECONOMY tariff.
const DefaultBaseRatePerKm = 50.0

// FareCalculator prices trips by distance and tariff.
type FareCalculator struct {
	baseRate float64
}

// NewFareCalculator creates a calculator with the given per-km base rate.
// A non-positive rate falls back to DefaultBaseRatePerKm.
func NewFareCalculator(baseRatePerKm float64) *FareCalculator {
	if baseRatePerKm <= 0 {
		baseRatePerKm = DefaultBaseRatePerKm
	}
	return &FareCalculator{baseRate: baseRatePerKm}
}

// Price returns distanceKm x tariff multiplier x base rate.
// distanceKm is expected to be non-negative.
func (c *FareCalculator) Price(distanceKm float64, tariff domain.Tariff) float64 {
	return distanceKm * tariff.Multiplier() * c.baseRate
}

// Price prices a trip at DefaultBaseRatePerKm.
func Price(distanceKm float64, tariff domain.Tariff) float64 {
	return distanceKm * tariff.Multiplier() * DefaultBaseRatePerKm
}
