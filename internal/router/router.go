package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-price-watch/internal/config"
	"github.com/iliyamo/flight-price-watch/internal/handler"
	"github.com/iliyamo/flight-price-watch/internal/middleware"
	"github.com/iliyamo/flight-price-watch/internal/utils"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// liveness, readiness and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db, rdb))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAPI registers the /v1 API.  When cfg.JWTSecret is set every /v1
// route except /v1/auth/token requires an operator bearer token; without
// it the API is open.  All /v1 routes are rate limited and typical-price
// lookups are cached.
func RegisterAPI(e *echo.Echo, cfg config.Config, h *handler.Handler, a *handler.AuthHandler, rdb *redis.Client) {
	limit := middleware.NewTokenBucket(cfg.RateLimit, rdb)

	e.POST("/v1/auth/token", a.Token, limit)

	v1 := e.Group("/v1", limit)
	if cfg.JWTSecret != "" {
		v1.Use(middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(utils.RoleOperator))
	}

	v1.POST("/watches", h.CreateWatch)
	v1.GET("/watches", h.ListWatches)
	v1.GET("/watches/:id", h.GetWatch)
	v1.DELETE("/watches/:id", h.DeleteWatch)
	v1.GET("/watches/:id/snapshots", h.ListSnapshots)
	v1.GET("/watches/:id/orders", h.ListOrders)

	v1.POST("/tick", h.Tick)
	v1.GET("/alerts", h.ListAlerts)
	v1.POST("/book/confirm", h.ConfirmBooking)

	v1.GET("/typical-prices", h.TypicalPrice, middleware.NewRedisCache(cfg.Cache, rdb))
}
