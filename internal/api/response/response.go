// Package response defines the envelope every non-streaming API outcome is
// wrapped in, shared by handlers and the central error handler.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error types carried in the error envelope.
const (
	ErrorTypeProtocol     = "protocol_error"
	ErrorTypeApplication  = "application_error"
	ErrorTypeUnauthorized = "unauthorized_error"
)

// Envelope is the canonical response wrapper. Success responses carry status
// "success" and optional results; error responses carry status "error" plus
// an errorType and a sanitized message.
type Envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	ErrorType string `json:"errorType,omitempty"`
	Results   any    `json:"results,omitempty"`
}

// Success renders the success envelope.
func Success(c echo.Context, message string, results any) error {
	return c.JSON(http.StatusOK, Envelope{Status: "success", Message: message, Results: results})
}

// Error renders the error envelope with the given HTTP status.
func Error(c echo.Context, code int, errorType, message string) error {
	return c.JSON(code, Envelope{Status: "error", ErrorType: errorType, Message: message})
}
