package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biodatacommons/query-gateway/internal/api/middleware"
	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails when it is absent: presence proves the middleware ran, and no
// protected handler may execute without it.
func ctxIdentity(c echo.Context) (*domain.AuthenticatedIdentity, error) {
	identity, ok := middleware.Identity(c)
	if !ok || identity.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return identity, nil
}
