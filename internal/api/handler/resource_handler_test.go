package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

type stubRegistry struct {
	resources map[uuid.UUID]*domain.Resource
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{resources: make(map[uuid.UUID]*domain.Resource)}
}

func (r *stubRegistry) List(_ context.Context) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res)
	}
	return out, nil
}

func (r *stubRegistry) Get(_ context.Context, id uuid.UUID) (*domain.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return res, nil
}

func (r *stubRegistry) Add(_ context.Context, resource *domain.Resource) (*domain.Resource, error) {
	if resource.UUID == uuid.Nil {
		resource.UUID = uuid.New()
	}
	r.resources[resource.UUID] = resource
	return resource, nil
}

func (r *stubRegistry) Update(_ context.Context, resource *domain.Resource) (*domain.Resource, error) {
	if _, ok := r.resources[resource.UUID]; !ok {
		return nil, domain.ErrResourceNotFound
	}
	r.resources[resource.UUID] = resource
	return resource, nil
}

func (r *stubRegistry) Remove(_ context.Context, id uuid.UUID) error {
	if _, ok := r.resources[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(r.resources, id)
	return nil
}

func newResourceContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/v1/resources", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResourceHandler_AddAndGet(t *testing.T) {
	registry := newStubRegistry()
	h := NewResourceHandler(registry)

	c, rec := newResourceContext(t, http.MethodPost,
		`{"name":"aggregate-rs","targetURL":"https://upstream.example.org","token":"secret-token"}`)
	if err := h.Add(c); err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-token") {
		t.Fatalf("upstream token must never appear in a response: %s", rec.Body.String())
	}
	if len(registry.resources) != 1 {
		t.Fatalf("expected one stored resource")
	}

	var id uuid.UUID
	for stored := range registry.resources {
		id = stored
	}
	c, rec = newResourceContext(t, http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "aggregate-rs") {
		t.Fatalf("expected resource in response, got %s", rec.Body.String())
	}
}

func TestResourceHandler_AddValidation(t *testing.T) {
	h := NewResourceHandler(newStubRegistry())

	c, _ := newResourceContext(t, http.MethodPost, `{"description":"no name"}`)
	err := h.Add(c)
	var protocolErr *domain.ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("expected *domain.ProtocolError, got %T: %v", err, err)
	}
}

func TestResourceHandler_BadUUID(t *testing.T) {
	h := NewResourceHandler(newStubRegistry())

	c, _ := newResourceContext(t, http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	err := h.Get(c)
	var protocolErr *domain.ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("expected *domain.ProtocolError, got %T: %v", err, err)
	}
}

func TestResourceHandler_GetUnknown(t *testing.T) {
	h := NewResourceHandler(newStubRegistry())

	c, _ := newResourceContext(t, http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	if err := h.Get(c); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestResourceHandler_Remove(t *testing.T) {
	registry := newStubRegistry()
	id := uuid.New()
	registry.resources[id] = &domain.Resource{UUID: id, Name: "aggregate-rs"}
	h := NewResourceHandler(registry)

	c, rec := newResourceContext(t, http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Remove(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(registry.resources) != 0 {
		t.Fatalf("resource should be gone")
	}
}
