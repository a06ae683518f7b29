package ports

import (
	"context"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// UserDirectory maps an external token identity to a durable User record.
// FindOrCreate must be an atomic upsert: two concurrent first-time calls for
// the same userID return the same record, never two divergent ones.
type UserDirectory interface {
	FindOrCreate(ctx context.Context, subject, userID string) (*domain.User, error)
}
