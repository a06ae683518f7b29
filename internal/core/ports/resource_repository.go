package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// ResourceRepository persists registered upstream resources keyed by UUID.
type ResourceRepository interface {
	List(ctx context.Context) ([]*domain.Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	Update(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
