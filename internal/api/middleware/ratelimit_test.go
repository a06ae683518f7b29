package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allowed, l.err
}

func limitedContext(t *testing.T, identity *domain.AuthenticatedIdentity) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/aggregate/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(IdentityKey, identity)
	}
	return c
}

func TestRateLimit_Allows(t *testing.T) {
	mw := RateLimit(&stubLimiter{allowed: true}, zerolog.Nop())

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := h(limitedContext(t, &domain.AuthenticatedIdentity{UserID: "alice"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRateLimit_Blocks(t *testing.T) {
	mw := RateLimit(&stubLimiter{allowed: false}, zerolog.Nop())

	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := h(limitedContext(t, &domain.AuthenticatedIdentity{UserID: "alice"}))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
}

func TestRateLimit_SkipsUnauthenticatedRoutes(t *testing.T) {
	mw := RateLimit(&stubLimiter{allowed: false}, zerolog.Nop())

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := h(limitedContext(t, nil)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("routes without an identity must pass through")
	}
}

func TestRateLimit_FailsOpenOnBackendError(t *testing.T) {
	mw := RateLimit(&stubLimiter{err: errors.New("redis down")}, zerolog.Nop())

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := h(limitedContext(t, &domain.AuthenticatedIdentity{UserID: "alice"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("limiter failure must not block the request")
	}
}
