package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
)

// ResourceService implements CRUD over the registry of upstream resources.
type ResourceService struct {
	repo   ports.ResourceRepository
	logger zerolog.Logger
}

func NewResourceService(repo ports.ResourceRepository, logger zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, logger: logger}
}

func (s *ResourceService) List(ctx context.Context) ([]*domain.Resource, error) {
	return s.repo.List(ctx)
}

func (s *ResourceService) Get(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

// Add registers a new upstream resource, assigning a UUID when none is given.
func (s *ResourceService) Add(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	if resource.Name == "" {
		return nil, domain.NewProtocolError("resource name is required")
	}
	if resource.UUID == uuid.Nil {
		resource.UUID = uuid.New()
	}
	now := time.Now().UTC()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	created, err := s.repo.Create(ctx, resource)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("resource_uuid", created.UUID.String()).Str("name", created.Name).Msg("resource registered")
	return created, nil
}

// Update replaces a registered resource's mutable fields. The write payload
// carries no timestamps, so the creation time is taken from the stored record.
func (s *ResourceService) Update(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	if resource.UUID == uuid.Nil {
		return nil, domain.NewProtocolError("resource uuid is required")
	}
	existing, err := s.repo.GetByID(ctx, resource.UUID)
	if err != nil {
		return nil, err
	}
	resource.CreatedAt = existing.CreatedAt
	resource.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, resource)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("resource_uuid", updated.UUID.String()).Msg("resource updated")
	return updated, nil
}

func (s *ResourceService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("resource_uuid", id.String()).Msg("resource removed")
	return nil
}
