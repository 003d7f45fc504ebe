package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxi/internal/app"
	"taxi/internal/auth"
	"taxi/internal/config"
	"taxi/internal/cryptox"
	"taxi/internal/geo"
	"taxi/internal/handler"
	"taxi/internal/logging"
	internalRedis "taxi/internal/redis"
	"taxi/internal/repository"
	"taxi/internal/repository/memory"
	"taxi/internal/repository/postgres"
	"taxi/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn(ctx, "failed to initialize New Relic", "error", err)
		} else {
			logger.Info(ctx, "New Relic enabled", "app", cfg.NewRelic.AppName)
			defer nrApp.Shutdown(5 * time.Second)
		}
	}

	// Initialize the store.
	var users repository.UserRepository
	var orders repository.OrderRepository
	switch cfg.Store.Driver {
	case "memory":
		users, orders = memory.NewUserRepository(), memory.NewOrderRepository()
		logger.Warn(ctx, "using in-memory store; data is lost on restart")
	case "postgres":
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return err
		}
		defer db.Close()
		users, orders = postgres.NewUserRepository(db), postgres.NewOrderRepository(db)
		logger.Info(ctx, "connected to PostgreSQL", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}

	// Initialize Redis with New Relic instrumentation.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Warn(ctx, "redis unavailable; caching and idempotency disabled", "error", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			logger.Info(ctx, "connected to Redis", "addr", cfg.Redis.Addr)
		}
	}

	server, err := wireServer(ctx, cfg, logger, users, orders, redisClient, nrApp)
	if err != nil {
		return err
	}

	// Start server in goroutine.
	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info(context.Background(), "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info(context.Background(), "server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	cfg *config.Config,
	logger logging.Logger,
	users repository.UserRepository,
	orders repository.OrderRepository,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
) (*http.Server, error) {
	vaultKey, err := loadVaultKey(ctx, cfg.Auth.CardVaultKey, logger)
	if err != nil {
		return nil, err
	}

	jwtSecret := []byte(cfg.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		key, err := cryptox.NewKey()
		if err != nil {
			return nil, err
		}
		jwtSecret = key[:]
		logger.Warn(ctx, "JWT_SECRET not set; tokens will not survive a restart")
	}

	// Geocoding, optionally behind the Redis cache.
	var geocoder geo.Geocoder
	switch cfg.Geo.Geocoder {
	case "google":
		g, err := geo.NewGoogleGeocoder(cfg.Geo.GoogleMapsAPIKey, cfg.Geo.Language)
		if err != nil {
			return nil, err
		}
		geocoder = g
	default:
		geocoder = geo.NewStaticGeocoder(geo.DefaultPoints())
	}

	// Optional Redis stores. Interfaces stay nil when Redis is off.
	routerDeps := app.RouterDeps{NewRelicApp: nrApp, Logger: logger}
	var orderCache service.OrderCache
	if redisClient != nil {
		geocoder = internalRedis.NewGeocodeCache(redisClient, geocoder)
		orderCache = internalRedis.NewCacheStore(redisClient)
		routerDeps.ResponseStore = internalRedis.NewResponseStore(redisClient)
		routerDeps.LockStore = internalRedis.NewLockStore(redisClient)
	}

	// Initialize services.
	tokens := auth.NewTokenIssuer(jwtSecret, cfg.Auth.JWTTTL)
	accountService := service.NewAccountService(users)
	cardVault := service.NewCardVault(users, vaultKey)
	quoteService := service.NewQuoteService(geo.NewEstimator(geocoder), service.NewFareCalculator(cfg.Fare.BaseRatePerKm))
	orderService := service.NewOrderService(orders, quoteService, service.NewCarPool(nil), cardVault, orderCache)
	historyService := service.NewHistoryService(orders, orderCache)
	simulator := service.NewTripSimulator(orderService, service.SimulationConfig{
		SpeedKmh:  cfg.Simulation.SpeedKmh,
		TimeScale: cfg.Simulation.TimeScale,
		MaxWait:   cfg.Simulation.MaxWait,
	})

	// Initialize handlers.
	routerDeps.AccountHandler = handler.NewAccountHandler(accountService, tokens)
	routerDeps.CardHandler = handler.NewCardHandler(cardVault)
	routerDeps.FareHandler = handler.NewFareHandler(quoteService)
	routerDeps.OrderHandler = handler.NewOrderHandler(orderService, historyService, simulator)
	routerDeps.Tokens = tokens

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.NewRouter(routerDeps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}

// loadVaultKey parses the configured card key or generates an ephemeral one.
func loadVaultKey(ctx context.Context, encoded string, logger logging.Logger) (cryptox.Key, error) {
	if encoded != "" {
		return cryptox.ParseKey(encoded)
	}

	key, err := cryptox.NewKey()
	if err != nil {
		return cryptox.Key{}, err
	}
	logger.Warn(ctx, "CARD_VAULT_KEY not set; using an ephemeral key, saved cards will be unreadable after restart")
	return key, nil
}

