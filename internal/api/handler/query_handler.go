package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
)

// QueryHandler exposes the aggregate data resource contract over HTTP.
type QueryHandler struct {
	querier ports.ResourceQuerier
	logger  zerolog.Logger
}

func NewQueryHandler(querier ports.ResourceQuerier, logger zerolog.Logger) *QueryHandler {
	return &QueryHandler{querier: querier, logger: logger}
}

// Status handles GET /aggregate/status, the resource availability check.
//
// @Summary      Resource status
// @Tags         aggregate
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /aggregate/status [get]
func (h *QueryHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// QuerySync handles POST /aggregate/query/sync and runs the forward-and-obfuscate
// pipeline. The response body is the upstream answer after the disclosure
// threshold has been applied.
//
// @Summary      Run a synchronous aggregate query
// @Tags         aggregate
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      domain.QueryRequest  true  "Query request"
// @Success      200   {string}  string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /aggregate/query/sync [post]
func (h *QueryHandler) QuerySync(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	h.logger.Debug().
		Str("user_id", identity.UserID).
		Str("resource_uuid", req.ResourceUUID.String()).
		Msg("sync query received")

	result, err := h.querier.QuerySync(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, result.ContentType, result.Body)
}

// Info handles POST /aggregate/info. Unsupported on this resource.
func (h *QueryHandler) Info(c echo.Context) error {
	var req domain.QueryRequest
	_ = c.Bind(&req)
	_, err := h.querier.Info(c.Request().Context(), &req)
	return err
}

// Search handles POST /aggregate/search. Unsupported on this resource.
func (h *QueryHandler) Search(c echo.Context) error {
	var req domain.QueryRequest
	_ = c.Bind(&req)
	_, err := h.querier.Search(c.Request().Context(), &req)
	return err
}

// Query handles POST /aggregate/query. Unsupported, use /query/sync.
func (h *QueryHandler) Query(c echo.Context) error {
	var req domain.QueryRequest
	_ = c.Bind(&req)
	return h.querier.Query(c.Request().Context(), &req)
}

// QueryStatus handles POST /aggregate/query/:id/status. Unsupported.
func (h *QueryHandler) QueryStatus(c echo.Context) error {
	var req domain.QueryRequest
	_ = c.Bind(&req)
	return h.querier.QueryStatus(c.Request().Context(), c.Param("id"), &req)
}

// QueryResult handles POST /aggregate/query/:id/result. Unsupported.
func (h *QueryHandler) QueryResult(c echo.Context) error {
	var req domain.QueryRequest
	_ = c.Bind(&req)
	return h.querier.QueryResult(c.Request().Context(), c.Param("id"), &req)
}
