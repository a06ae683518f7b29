package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/biodatacommons/query-gateway/internal/api/response"
	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

// ResourceRegistry is the service contract the handler depends on.
type ResourceRegistry interface {
	List(ctx context.Context) ([]*domain.Resource, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	Add(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	Update(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// ResourceHandler exposes registry CRUD for administrators.
type ResourceHandler struct {
	registry ResourceRegistry
}

func NewResourceHandler(registry ResourceRegistry) *ResourceHandler {
	return &ResourceHandler{registry: registry}
}

// List handles GET /v1/resources.
//
// @Summary      List registered resources
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	resources, err := h.registry.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, "", toResourceResponses(resources))
}

// Get handles GET /v1/resources/:id.
//
// @Summary      Get a resource by UUID
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource UUID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /v1/resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	id, err := parseResourceID(c)
	if err != nil {
		return err
	}
	resource, err := h.registry.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "", toResourceResponse(resource))
}

// Add handles POST /v1/resources.
//
// @Summary      Register a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resourceRequest  true  "Resource definition"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /v1/resources [post]
func (h *ResourceHandler) Add(c echo.Context) error {
	var req resourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewProtocolError(err.Error())
	}

	created, err := h.registry.Add(c.Request().Context(), toDomainResource(req, uuid.Nil))
	if err != nil {
		return err
	}
	return response.Success(c, "resource added", toResourceResponse(created))
}

// Update handles PUT /v1/resources/:id.
//
// @Summary      Update a registered resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Resource UUID"
// @Param        body  body      resourceRequest  true  "Resource definition"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Router       /v1/resources/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	id, err := parseResourceID(c)
	if err != nil {
		return err
	}
	var req resourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewProtocolError(err.Error())
	}

	updated, err := h.registry.Update(c.Request().Context(), toDomainResource(req, id))
	if err != nil {
		return err
	}
	return response.Success(c, "resource updated", toResourceResponse(updated))
}

// Remove handles DELETE /v1/resources/:id.
//
// @Summary      Remove a registered resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource UUID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /v1/resources/{id} [delete]
func (h *ResourceHandler) Remove(c echo.Context) error {
	id, err := parseResourceID(c)
	if err != nil {
		return err
	}
	if err := h.registry.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, "resource removed", nil)
}

func parseResourceID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.NewProtocolError("invalid resource UUID")
	}
	return id, nil
}
