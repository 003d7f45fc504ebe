package service

import (
	"fmt"
	"math/rand"
	"sync"

	"taxi/internal/domain"
)

// plateLetters are the Latin letters that have Cyrillic look-alikes and are
// therefore valid on number plates.
const plateLetters = "ABEKMHOPCTYX"

// defaultPlateRegion is appended to generated plates.
const defaultPlateRegion = "77"

// Car is a vehicle assigned to an order.
type Car struct {
	Model       string
	PlateNumber string
}

// CarPool hands out vehicles matching an order's tariff.
type CarPool struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	models map[domain.Tariff][]string
	region string
}

// NewCarPool creates a pool drawing from rnd. A nil rnd uses a time-seeded source.
func NewCarPool(rnd *rand.Rand) *CarPool {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return &CarPool{
		rnd:    rnd,
		region: defaultPlateRegion,
		models: map[domain.Tariff][]string{
			domain.TariffEconomy:  {"Lada Granta", "Kia Rio", "Hyundai Solaris", "Renault Logan"},
			domain.TariffComfort:  {"Toyota Camry", "Kia K5", "Skoda Octavia", "Volkswagen Passat"},
			domain.TariffBusiness: {"Mercedes-Benz E-Class", "BMW 5 Series", "Audi A6", "Genesis G80"},
		},
	}
}

// Assign picks a car for the tariff and gives it a plate number.
func (p *CarPool) Assign(tariff domain.Tariff) (Car, error) {
	var models []string
	switch tariff {
	case domain.TariffEconomy, domain.TariffComfort, domain.TariffBusiness:
		models = p.models[tariff]
	default:
		return Car{}, ErrInvalidTariff
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return Car{
		Model:       models[p.rnd.Intn(len(models))],
		PlateNumber: p.plate(),
	}, nil
}

// plate formats a number like "A123BC 77". Callers hold p.mu.
func (p *CarPool) plate() string {
	letter := func() byte { return plateLetters[p.rnd.Intn(len(plateLetters))] }
	return fmt.Sprintf("%c%03d%c%c %s", letter(), p.rnd.Intn(999)+1, letter(), letter(), p.region)
}
