package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/api/response"
	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/service"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the gatekeeper/proxy error taxonomy to deterministic HTTP codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the shared error envelope on every failure path.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Unrecognized expectedResultType: a bare 400 status without an
		// envelope, matching what consumers of this endpoint already parse.
		if errors.Is(err, service.ErrBadResultType) {
			_ = c.NoContent(http.StatusBadRequest)
			return
		}

		code, errType, msg := resolveError(err, log, c)
		_ = response.Error(c, code, errType, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	var rejection *domain.Rejection
	if errors.As(err, &rejection) {
		switch rejection.Kind {
		case domain.RejectionForbidden:
			return http.StatusForbidden, response.ErrorTypeUnauthorized, rejection.Reason
		case domain.RejectionUpstream:
			log.Error().Err(err).Str("path", c.Path()).Msg("upstream dependency failure")
			return http.StatusBadGateway, response.ErrorTypeApplication, "upstream dependency unavailable"
		default: // unauthenticated, invalid token
			return http.StatusUnauthorized, response.ErrorTypeUnauthorized, rejection.Reason
		}
	}

	var protocolErr *domain.ProtocolError
	if errors.As(err, &protocolErr) {
		return http.StatusBadRequest, response.ErrorTypeProtocol, protocolErr.Message
	}

	var appErr *domain.ApplicationError
	if errors.As(err, &appErr) {
		log.Error().Str("detail", appErr.Detail).Str("path", c.Path()).Msg(appErr.Message)
		return http.StatusInternalServerError, response.ErrorTypeApplication, appErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, response.ErrorTypeApplication, domain.ErrNotImplemented.Error()
	case errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, response.ErrorTypeProtocol, domain.ErrResourceNotFound.Error()
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		errType := response.ErrorTypeProtocol
		if he.Code >= http.StatusInternalServerError {
			errType = response.ErrorTypeApplication
		}
		return he.Code, errType, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, response.ErrorTypeApplication, "internal server error"
}
