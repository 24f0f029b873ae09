// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"
	"time"

	dashdomain "ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/pkg/response"
	service "ispadmin-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	orchestrator *service.Orchestrator
	metrics      *service.MetricsService
}

func NewDashboardHandler(orchestrator *service.Orchestrator, metrics *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{
		orchestrator: orchestrator,
		metrics:      metrics,
	}
}

// GetChartData returns the unified chart payload for the dashboard.
// Query params: date (YYYY-MM-DD, default today), range, source.
func (h *DashboardHandler) GetChartData(c *gin.Context) {
	selectedDate, ok := parseDateParam(c)
	if !ok {
		response.ValidationError(c, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	rng := dashdomain.ParseRange(c.Query("range"))
	source := c.DefaultQuery("source", "All")

	payload := h.orchestrator.ChartData(c.Request.Context(), selectedDate, rng, source)
	response.Success(c, http.StatusOK, "chart data retrieved", payload)
}

// GetMetrics returns the dashboard metrics snapshot.
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	selectedDate, ok := parseDateParam(c)
	if !ok {
		response.ValidationError(c, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	rng := dashdomain.ParseRange(c.Query("range"))
	filter := dashdomain.NewDateFilter(selectedDate, rng)

	snapshot := h.metrics.Snapshot(c.Request.Context(), nil, filter)
	response.Success(c, http.StatusOK, "metrics retrieved", snapshot)
}

func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	t, ok := dashdomain.ParseDateKey(raw)
	return t, ok
}
