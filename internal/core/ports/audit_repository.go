package ports

import (
	"context"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// AuditRepository persists gatekeeper decisions for later review.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
