package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/metrics"
)

// UserLimiter decides whether an authenticated user may make another request.
type UserLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// RateLimit applies a per-user request limit. It must run after Auth, since
// it keys on the resolved user id. A limiter backend failure fails open:
// availability wins over strictness for a read-mostly gateway.
func RateLimit(limiter UserLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := Identity(c)
			if !ok {
				return next(c)
			}

			allowed, err := limiter.Allow(c.Request().Context(), identity.UserID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", identity.UserID).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
