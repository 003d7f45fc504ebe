package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"taxi/internal/handler"
	"taxi/internal/logging"
	"taxi/internal/middleware"
	"taxi/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AccountHandler *handler.AccountHandler
	CardHandler    *handler.CardHandler
	FareHandler    *handler.FareHandler
	OrderHandler   *handler.OrderHandler
	Tokens         middleware.TokenVerifier
	Logger         logging.Logger

	// Optional. Nil disables idempotent replays.
	ResponseStore redis.ResponseStoreInterface
	LockStore     redis.LockStoreInterface

	// Optional. Nil disables New Relic instrumentation.
	NewRelicApp *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public user routes.
		v1.POST("/users/register", deps.AccountHandler.Register)
		v1.POST("/users/login", deps.AccountHandler.Login)

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.Tokens))
		if deps.NewRelicApp != nil {
			authed.Use(middleware.NewRelicAttributes())
		}
		authed.Use(middleware.IdempotencyMiddleware(deps.ResponseStore, deps.LockStore))
		{
			authed.GET("/fares", deps.FareHandler.Quote)

			authed.PUT("/users/me/card", deps.CardHandler.SetCard)
			authed.GET("/users/me/card", deps.CardHandler.GetCard)

			orders := authed.Group("/orders")
			{
				orders.POST("", deps.OrderHandler.CreateOrder)
				orders.GET("", deps.OrderHandler.ListOrders)
				orders.GET("/:id", deps.OrderHandler.GetOrder)
				orders.POST("/:id/cancel", deps.OrderHandler.CancelOrder)
				orders.POST("/:id/drive", deps.OrderHandler.DriveOrder)
				orders.POST("/:id/rate", deps.OrderHandler.RateOrder)
			}
		}
	}

	return router
}
