package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/service"
	"github.com/biodatacommons/query-gateway/internal/metrics"
)

// IdentityKey is the echo context key under which the authenticated identity
// is stored.
const IdentityKey = "authenticated_identity"

// AuditSink receives gatekeeper decisions without blocking the request.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// Auth authenticates the request through the gatekeeper and enforces the role
// set declared for the route. On success the resolved identity is injected
// into the echo context; every decision is recorded in the audit trail.
func Auth(gk *service.Gatekeeper, audit AuditSink, requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			identity, err := gk.Authenticate(c.Request().Context(), header, requiredRoles)
			if err != nil {
				recordRejection(audit, c.Path(), err)
				return err
			}

			metrics.AuthGrantedTotal.Inc()
			audit.Enqueue(domain.AuditEvent{
				UserID:    identity.UserID,
				Outcome:   domain.AuditGranted,
				Path:      c.Path(),
				Timestamp: time.Now().UTC(),
			})

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

func recordRejection(audit AuditSink, path string, err error) {
	event := domain.AuditEvent{
		Outcome:   domain.AuditRejected,
		Path:      path,
		Timestamp: time.Now().UTC(),
	}

	var rejection *domain.Rejection
	if errors.As(err, &rejection) {
		event.Kind = string(rejection.Kind)
		event.Reason = rejection.Reason
		metrics.AuthRejectionsTotal.WithLabelValues(string(rejection.Kind)).Inc()
	} else {
		event.Kind = "error"
		event.Reason = "internal failure during authentication"
	}

	audit.Enqueue(event)
}

// Identity extracts the authenticated identity the Auth middleware injected.
// ok is false when the middleware did not run for this route.
func Identity(c echo.Context) (*domain.AuthenticatedIdentity, bool) {
	identity, ok := c.Get(IdentityKey).(*domain.AuthenticatedIdentity)
	return identity, ok
}
