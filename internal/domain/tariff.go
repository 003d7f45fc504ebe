package domain

import (
	"fmt"
	"strings"
)

// Tariff represents the service tier of an order.
type Tariff string

const (
	TariffEconomy  Tariff = "ECONOMY"
	TariffComfort  Tariff = "COMFORT"
	TariffBusiness Tariff = "BUSINESS"
)

// Tariffs lists every tariff in ascending price order.
var Tariffs = []Tariff{TariffEconomy, TariffComfort, TariffBusiness}

// Multiplier returns the fare multiplier of the tariff.
func (t Tariff) Multiplier() float64 {
	switch t {
	case TariffEconomy:
		return 1.0
	case TariffComfort:
		return 1.5
	case TariffBusiness:
		return 2.0
	default:
		return 0
	}
}

// Valid reports whether t is a known tariff.
func (t Tariff) Valid() bool {
	switch t {
	case TariffEconomy, TariffComfort, TariffBusiness:
		return true
	default:
		return false
	}
}

// ParseTariff converts user input into a Tariff. Matching is case-insensitive.
func ParseTariff(s string) (Tariff, error) {
	t := Tariff(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tariff %q", s)
	}
	return t, nil
}

// PaymentMethod represents how the rider pays for an order.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod converts user input into a PaymentMethod.
// An empty string defaults to cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PaymentMethodCash, nil
	}
	m := PaymentMethod(strings.ToUpper(s))
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}
