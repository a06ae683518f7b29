package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotImplemented   = errors.New("operation is not implemented in this resource, please use /query/sync")
)

// RejectionKind classifies why the gatekeeper refused a request.
type RejectionKind string

const (
	RejectionUnauthenticated RejectionKind = "unauthenticated"
	RejectionInvalidToken    RejectionKind = "invalid_token"
	RejectionForbidden       RejectionKind = "forbidden"
	RejectionUpstream        RejectionKind = "upstream"
)

// Rejection is a terminal authentication/authorization outcome. Reason is
// safe to show to the caller; the underlying cause, if any, stays server-side.
type Rejection struct {
	Kind   RejectionKind
	Reason string
	cause  error
}

func NewRejection(kind RejectionKind, reason string) *Rejection {
	return &Rejection{Kind: kind, Reason: reason}
}

func NewRejectionCause(kind RejectionKind, reason string, cause error) *Rejection {
	return &Rejection{Kind: kind, Reason: reason, cause: cause}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Reason)
}

func (r *Rejection) Unwrap() error { return r.cause }

// ProtocolError signals a malformed caller request (missing required data).
type ProtocolError struct {
	Message string
}

func NewProtocolError(message string) *ProtocolError {
	return &ProtocolError{Message: message}
}

func (e *ProtocolError) Error() string { return e.Message }

// ApplicationError signals an internal or upstream failure. Message is shown
// to the caller in sanitized form; Detail is for server-side logs only.
type ApplicationError struct {
	Message string
	Detail  string
}

func NewApplicationError(message, detail string) *ApplicationError {
	return &ApplicationError{Message: message, Detail: detail}
}

func (e *ApplicationError) Error() string { return e.Message }
