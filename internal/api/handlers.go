package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
	"github.com/siber-nasional/cve-dashboard/internal/logger"
	"github.com/siber-nasional/cve-dashboard/internal/service"
)

// Default time ranges per page, matching the UI defaults.
const (
	defaultOverviewRange = domain.Range90d
	defaultDetailRange   = domain.Range30d
)

// Handler holds HTTP request handlers.
type Handler struct {
	dashboard *service.DashboardService
	logger    logger.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(dashboard *service.DashboardService, log logger.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		logger:    log,
	}
}

// Overview handles the national dashboard payload.
func (h *Handler) Overview(c *gin.Context) {
	tr, ok := h.parseTimeRange(c, defaultOverviewRange)
	if !ok {
		return
	}

	overview, err := h.dashboard.Overview(c.Request.Context(), tr)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Detail handles the detail-analysis payload.
func (h *Handler) Detail(c *gin.Context) {
	tr, ok := h.parseTimeRange(c, defaultDetailRange)
	if !ok {
		return
	}

	detail, err := h.dashboard.Detail(c.Request.Context(), tr, parseFilterSelection(c))
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Export streams the filtered dataset as a CSV attachment.
func (h *Handler) Export(c *gin.Context) {
	tr, ok := h.parseTimeRange(c, defaultDetailRange)
	if !ok {
		return
	}

	data, filename, err := h.dashboard.ExportCSV(c.Request.Context(), tr, parseFilterSelection(c))
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.HealthCheck(c.Request.Context()))
}

// parseTimeRange reads and validates the range query parameter. On an
// invalid token it writes a 400 response and returns ok == false.
func (h *Handler) parseTimeRange(c *gin.Context, fallback domain.TimeRange) (domain.TimeRange, bool) {
	raw := c.Query("range")
	if raw == "" {
		return fallback, true
	}

	tr, err := domain.ParseTimeRange(raw)
	if err != nil {
		h.logger.Warn("Invalid time range", logger.String("range", raw))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Code:      "INVALID_RANGE",
			Timestamp: time.Now(),
		})
		return "", false
	}
	return tr, true
}

// parseFilterSelection reads the multi-select filters. An absent parameter
// yields a nil slice (no filter); a present-but-empty parameter yields an
// empty non-nil slice, which for sectors and severities excludes every
// record. Organization selections never exclude-all: empty means no filter.
func parseFilterSelection(c *gin.Context) *domain.FilterSelection {
	sel := &domain.FilterSelection{
		Sectors:       parseMultiSelect(c, "sectors"),
		Severities:    parseMultiSelect(c, "severities"),
		Organizations: parseMultiSelect(c, "orgs"),
	}
	if sel.Sectors == nil && sel.Severities == nil && sel.Organizations == nil {
		return nil
	}
	return sel
}

func parseMultiSelect(c *gin.Context, name string) []string {
	values, present := c.GetQueryArray(name)
	if !present {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// renderServiceError maps service errors onto HTTP responses. The only
// user-visible failure is the explicit "no data" state; infrastructure
// failures never reach here because the datasource absorbs them.
func (h *Handler) renderServiceError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNoData) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     err.Error(),
			Code:      "NO_DATA",
			Timestamp: time.Now(),
		})
		return
	}

	h.logger.Error("Dashboard request failed", logger.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     err.Error(),
		Code:      "DASHBOARD_ERROR",
		Timestamp: time.Now(),
	})
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}
