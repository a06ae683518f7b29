package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/biodatacommons/query-gateway/internal/api/handler"
	"github.com/biodatacommons/query-gateway/internal/api/middleware"
	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
	"github.com/biodatacommons/query-gateway/internal/core/service"
	"github.com/biodatacommons/query-gateway/internal/infrastructure/config"
	mongodb "github.com/biodatacommons/query-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/biodatacommons/query-gateway/internal/infrastructure/db/redis"
	"github.com/biodatacommons/query-gateway/internal/infrastructure/http/handlers"
	"github.com/biodatacommons/query-gateway/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The token verification strategy is selected here, once, from configuration.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client, audit *queue.AuditDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	users := mongodb.NewUserDirectory(db)
	gatekeeper := service.NewGatekeeper(selectVerifier(cfg, log), users, log)
	limiter := redisdb.NewRateLimiter(rdb, cfg.Auth.RateLimitPerMinute)

	proxy := service.NewAggregateProxy(
		cfg.Upstream.TargetURL,
		cfg.Upstream.TargetToken,
		cfg.Upstream.ObfuscationThreshold,
		30*time.Second,
		log,
	)
	queryHandler := handler.NewQueryHandler(proxy, log)

	registry := service.NewResourceService(mongodb.NewResourceRepository(db), log)
	resourceHandler := handler.NewResourceHandler(registry)

	authenticated := middleware.Auth(gatekeeper, audit)
	adminOnly := middleware.Auth(gatekeeper, audit, domain.RoleAdmin)
	rateLimited := middleware.RateLimit(limiter, log)

	// --- Aggregate data resource routes ---
	aggregate := e.Group("/aggregate", authenticated, rateLimited)
	aggregate.GET("/status", queryHandler.Status)
	aggregate.POST("/info", queryHandler.Info)
	aggregate.POST("/search", queryHandler.Search)
	aggregate.POST("/query", queryHandler.Query)
	aggregate.POST("/query/sync", queryHandler.QuerySync)
	aggregate.POST("/query/:id/status", queryHandler.QueryStatus)
	aggregate.POST("/query/:id/result", queryHandler.QueryResult)

	// --- Resource registry routes (admin only) ---
	resources := e.Group("/v1/resources", adminOnly)
	resources.GET("", resourceHandler.List)
	resources.GET("/:id", resourceHandler.Get)
	resources.POST("", resourceHandler.Add)
	resources.PUT("/:id", resourceHandler.Update)
	resources.DELETE("/:id", resourceHandler.Remove)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// selectVerifier picks the token verification strategy from configuration.
// Config validation already guaranteed the method is one of the two known values.
func selectVerifier(cfg *config.Config, log zerolog.Logger) ports.TokenVerifier {
	if cfg.Auth.VerifyUserMethod == config.VerifyMethodIntrospection {
		return service.NewIntrospectionVerifier(
			cfg.Auth.TokenIntrospectionURL,
			cfg.Auth.TokenIntrospectionToken,
			cfg.Auth.UserIDClaim,
			10*time.Second,
			log,
		)
	}
	return service.NewLocalVerifier(cfg.Auth.ClientSecret, cfg.Auth.UserIDClaim)
}
