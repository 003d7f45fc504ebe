package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi/internal/domain"
)

func TestTripSimulator_Drive(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t)
	sim := NewTripSimulator(f.orders, SimulationConfig{SpeedKmh: 60, TimeScale: 0})

	done, err := sim.Drive(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	stored, err := f.history.Details(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.StartedAt)
}

func TestTripSimulator_ContextCancelledLeavesInProgress(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t)
	sim := NewTripSimulator(f.orders, SimulationConfig{SpeedKmh: 60, TimeScale: 1, MaxWait: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sim.Drive(ctx, order.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stored, err := f.history.Details(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, stored.Status)
}

func TestTripSimulator_InterruptedDriveCanBeResumed(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t)
	sim := NewTripSimulator(f.orders, SimulationConfig{SpeedKmh: 60, TimeScale: 1, MaxWait: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sim.Drive(ctx, order.ID)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The whole trip has elapsed since pickup.
	sim.now = func() time.Time { return time.Now().Add(time.Minute) }

	done, err := sim.Drive(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, done.Status)

	stored, err := f.history.Details(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, stored.Status)
	require.NotNil(t, stored.StartedAt)
	require.NotNil(t, stored.CompletedAt)

	_, err = sim.Drive(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTripSimulator_CancelledOrderCannotBeDriven(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t)
	_, err := f.orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = NewTripSimulator(f.orders, SimulationConfig{}).Drive(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTripSimulator_TravelTime(t *testing.T) {
	sim := NewTripSimulator(nil, SimulationConfig{SpeedKmh: 60, TimeScale: 0.5})

	assert.Equal(t, 30*time.Minute, sim.TravelTime(60))
	assert.Zero(t, sim.TravelTime(0))

	capped := NewTripSimulator(nil, SimulationConfig{SpeedKmh: 60, TimeScale: 1, MaxWait: 5 * time.Second})
	assert.Equal(t, 5*time.Second, capped.TravelTime(600))
}

func TestTripSimulator_Remaining(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sim := NewTripSimulator(nil, SimulationConfig{SpeedKmh: 60, TimeScale: 0.5})
	sim.now = func() time.Time { return now }

	pending := &domain.Order{DistanceKm: 60}
	assert.Equal(t, 30*time.Minute, sim.Remaining(pending))

	startedAt := now.Add(-10 * time.Minute)
	resumed := &domain.Order{DistanceKm: 60, StartedAt: &startedAt}
	assert.Equal(t, 20*time.Minute, sim.Remaining(resumed))

	longAgo := now.Add(-time.Hour)
	overdue := &domain.Order{DistanceKm: 60, StartedAt: &longAgo}
	assert.Zero(t, sim.Remaining(overdue))
}
