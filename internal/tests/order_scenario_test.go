package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taxi/internal/cryptox"
	"taxi/internal/domain"
	"taxi/internal/repository/memory"
	"taxi/internal/service"
)

type scenario struct {
	users    *memory.UserRepository
	orders   *MockOrderRepository
	cache    *MockOrderCache
	accounts *service.AccountService
	vault    *service.CardVault
	quotes   *service.QuoteService
	service  *service.OrderService
	history  *service.HistoryService
}

func newScenario(t *testing.T, distanceKm float64) *scenario {
	t.Helper()

	key, err := cryptox.NewKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	s := &scenario{
		users:  memory.NewUserRepository(),
		orders: NewMockOrderRepository(),
		cache:  NewMockOrderCache(),
	}
	s.accounts = service.NewAccountService(s.users)
	s.vault = service.NewCardVault(s.users, key)
	s.quotes = service.NewQuoteService(FixedDistance(distanceKm), service.NewFareCalculator(0))
	s.service = service.NewOrderService(s.orders, s.quotes, service.NewCarPool(nil), s.vault, s.cache)
	s.history = service.NewHistoryService(s.orders, s.cache)
	return s
}

func (s *scenario) register(t *testing.T, login string) *domain.User {
	t.Helper()
	user, err := s.accounts.Register(context.Background(), login, "secret")
	if err != nil {
		t.Fatalf("register %s: %v", login, err)
	}
	return user
}

func (s *scenario) place(t *testing.T, userID int64, tariff domain.Tariff) *domain.Order {
	t.Helper()
	order, err := s.service.Place(context.Background(), service.PlaceOrderRequest{
		UserID:      userID,
		Origin:      "Red Square",
		Destination: "Gorky Park",
		Tariff:      tariff,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

// ──────────────────────────────────────────────
// 1. ACCOUNTS
// ──────────────────────────────────────────────

func TestScenario_RegisterThenAuthenticate(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 10)
	ctx := context.Background()

	alice := s.register(t, "alice")
	if alice.ID <= 0 {
		t.Fatalf("expected positive user ID, got %d", alice.ID)
	}

	if _, err := s.accounts.Register(ctx, "ALICE", "other"); !errors.Is(err, service.ErrDuplicateLogin) {
		t.Errorf("expected ErrDuplicateLogin for case variant, got %v", err)
	}

	if _, err := s.accounts.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, service.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for wrong password, got %v", err)
	}
	if _, err := s.accounts.Authenticate(ctx, "bob", "secret"); !errors.Is(err, service.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for unknown login, got %v", err)
	}

	user, err := s.accounts.Authenticate(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("expected authentication to succeed, got: %v", err)
	}
	if user.ID != alice.ID {
		t.Errorf("expected user %d, got %d", alice.ID, user.ID)
	}
}

// ──────────────────────────────────────────────
// 2. PLACING ORDERS
// ──────────────────────────────────────────────

func TestScenario_ComfortOrderPricedByDistance(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 10)
	alice := s.register(t, "alice")

	order := s.place(t, alice.ID, domain.TariffComfort)

	if order.Price != 750 {
		t.Errorf("expected price 750, got %v", order.Price)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected PENDING, got %s", order.Status)
	}
	if order.PaymentMethod != domain.PaymentMethodCash {
		t.Errorf("expected CASH by default, got %s", order.PaymentMethod)
	}
	if order.Car == "" || order.PlateNumber == "" {
		t.Error("expected a car to be assigned")
	}
	if s.orders.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", s.orders.CreateCallCount)
	}
}

func TestScenario_CardPaymentNeedsSavedCard(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 4)
	ctx := context.Background()
	alice := s.register(t, "alice")

	req := service.PlaceOrderRequest{
		UserID:        alice.ID,
		Origin:        "Moscow City",
		Destination:   "Vnukovo",
		Tariff:        domain.TariffBusiness,
		PaymentMethod: domain.PaymentMethodCard,
	}

	if _, err := s.service.Place(ctx, req); !errors.Is(err, service.ErrNoCardOnFile) {
		t.Fatalf("expected ErrNoCardOnFile, got %v", err)
	}
	if s.orders.CreateCallCount != 0 {
		t.Errorf("expected no order to be stored, got %d create calls", s.orders.CreateCallCount)
	}

	if err := s.vault.SetCard(ctx, alice.ID, "4111111111111111", "12/29", "123"); err != nil {
		t.Fatalf("failed to save card: %v", err)
	}

	order, err := s.service.Place(ctx, req)
	if err != nil {
		t.Fatalf("expected order with saved card, got: %v", err)
	}
	if order.PaymentMethod != domain.PaymentMethodCard {
		t.Errorf("expected CARD, got %s", order.PaymentMethod)
	}
	if order.Price != 400 {
		t.Errorf("expected price 400, got %v", order.Price)
	}
}

func TestScenario_StoreFailureSurfaces(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 3)
	alice := s.register(t, "alice")
	storeErr := errors.New("disk full")
	s.orders.CreateError = storeErr

	_, err := s.service.Place(context.Background(), service.PlaceOrderRequest{
		UserID:      alice.ID,
		Origin:      "Tver",
		Destination: "Moscow",
		Tariff:      domain.TariffEconomy,
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. LIFECYCLE AND RATING
// ──────────────────────────────────────────────

func TestScenario_CancelledOrderCannotBeRated(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 10)
	ctx := context.Background()
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffEconomy)

	cancelled, err := s.service.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}

	if _, err := s.service.Rate(ctx, order.ID, 5); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := s.service.Complete(ctx, order.ID); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition completing a cancelled order, got %v", err)
	}
}

func TestScenario_CompletedOrderRatedOnce(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 10)
	ctx := context.Background()
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffComfort)

	if _, err := s.service.Start(ctx, order.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.service.Complete(ctx, order.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	rated, err := s.service.Rate(ctx, order.ID, 4.5)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rated.DriverRating == nil || *rated.DriverRating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", rated.DriverRating)
	}

	_, err = s.service.Rate(ctx, order.ID, 3)
	if !errors.Is(err, service.ErrAlreadyRated) {
		t.Errorf("expected ErrAlreadyRated, got %v", err)
	}
	if !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("expected ErrAlreadyRated to be an ErrInvalidState, got %v", err)
	}

	stored, err := s.history.Details(ctx, order.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if *stored.DriverRating != 4.5 {
		t.Errorf("expected stored rating to stay 4.5, got %v", *stored.DriverRating)
	}
}

func TestScenario_ConcurrentRatingsAcceptOne(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 2)
	ctx := context.Background()
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffEconomy)
	if _, err := s.service.Complete(ctx, order.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(rating float64) {
			defer wg.Done()
			_, err := s.service.Rate(ctx, order.ID, rating)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, service.ErrAlreadyRated) {
				t.Errorf("unexpected error: %v", err)
			}
		}(float64(i%5 + 1))
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly 1 accepted rating, got %d", successes)
	}
}

func TestScenario_TransitionFailureLeavesOrderPending(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 5)
	ctx := context.Background()
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffEconomy)

	storeErr := errors.New("connection reset")
	s.orders.UpdateStatusError = storeErr

	if _, err := s.service.Cancel(ctx, order.ID); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}

	s.orders.UpdateStatusError = nil
	stored, err := s.history.Details(ctx, order.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if stored.Status != domain.OrderStatusPending {
		t.Errorf("expected PENDING, got %s", stored.Status)
	}
}

// ──────────────────────────────────────────────
// 4. HISTORY AND CACHE
// ──────────────────────────────────────────────

func TestScenario_HistoryNewestFirstPerUser(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 1)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	first := s.place(t, alice.ID, domain.TariffEconomy)
	second := s.place(t, alice.ID, domain.TariffBusiness)
	s.place(t, bob.ID, domain.TariffComfort)

	orders, err := s.history.History(ctx, alice.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Errorf("expected newest first, got %d then %d", orders[0].ID, orders[1].ID)
	}

	if _, err := s.history.DetailsForUser(ctx, bob.ID, first.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's order, got %v", err)
	}
}

func TestScenario_OnlyFinalOrdersAreCached(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 7)
	ctx := context.Background()
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffEconomy)

	if _, err := s.history.Details(ctx, order.ID); err != nil {
		t.Fatalf("details: %v", err)
	}
	if s.cache.Cached(order.ID) {
		t.Fatal("expected a pending order not to be cached")
	}

	if _, err := s.service.Cancel(ctx, order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	details, err := s.history.Details(ctx, order.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Status != domain.OrderStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", details.Status)
	}
	if !s.cache.Cached(order.ID) {
		t.Error("expected a cancelled order to be cached")
	}
}

// ──────────────────────────────────────────────
// 5. SIMULATED TRIPS
// ──────────────────────────────────────────────

func TestScenario_InterruptedDriveIsResumed(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 10)
	alice := s.register(t, "alice")
	order := s.place(t, alice.ID, domain.TariffComfort)
	sim := service.NewTripSimulator(s.service, service.SimulationConfig{
		SpeedKmh:  60,
		TimeScale: 1,
		MaxWait:   100 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := sim.Drive(ctx, order.ID); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the first drive to time out, got %v", err)
	}

	done, err := sim.Drive(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("expected the retried drive to finish the trip, got: %v", err)
	}
	if done.Status != domain.OrderStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", done.Status)
	}

	if _, err := s.service.Rate(context.Background(), order.ID, 5); err != nil {
		t.Errorf("expected the resumed trip to be rateable, got: %v", err)
	}
}
