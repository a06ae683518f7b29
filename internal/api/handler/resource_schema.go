package handler

import (
	"github.com/google/uuid"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// resourceRequest is the write payload for the resource registry.
type resourceRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	TargetURL      string `json:"targetURL" validate:"omitempty,url"`
	ResourceRSPath string `json:"resourceRSPath" validate:"omitempty,url"`
	Token          string `json:"token"`
}

// resourceResponse is the read view of a registered resource. The upstream
// token never leaves the server.
type resourceResponse struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	TargetURL      string `json:"targetURL,omitempty"`
	ResourceRSPath string `json:"resourceRSPath,omitempty"`
}

func toDomainResource(req resourceRequest, id uuid.UUID) *domain.Resource {
	return &domain.Resource{
		UUID:           id,
		Name:           req.Name,
		Description:    req.Description,
		TargetURL:      req.TargetURL,
		ResourceRSPath: req.ResourceRSPath,
		Token:          req.Token,
	}
}

func toResourceResponse(resource *domain.Resource) resourceResponse {
	return resourceResponse{
		UUID:           resource.UUID.String(),
		Name:           resource.Name,
		Description:    resource.Description,
		TargetURL:      resource.TargetURL,
		ResourceRSPath: resource.ResourceRSPath,
	}
}

func toResourceResponses(resources []*domain.Resource) []resourceResponse {
	out := make([]resourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, toResourceResponse(r))
	}
	return out
}
