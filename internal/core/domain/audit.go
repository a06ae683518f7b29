package domain

import "time"

// AuditOutcome labels an auth decision in the audit trail.
type AuditOutcome string

const (
	AuditGranted  AuditOutcome = "granted"
	AuditRejected AuditOutcome = "rejected"
)

// AuditEvent records one gatekeeper decision. Denials carry the rejection
// kind and sanitized reason; the raw token is never part of an event.
type AuditEvent struct {
	UserID    string       `json:"user_id,omitempty"`
	Subject   string       `json:"subject,omitempty"`
	Outcome   AuditOutcome `json:"outcome"`
	Kind      string       `json:"kind,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Path      string       `json:"path"`
	Timestamp time.Time    `json:"timestamp"`
}
