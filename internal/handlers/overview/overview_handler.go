// internal/handlers/overview/overview_handler.go
package overview

import (
	"net/http"
	"time"

	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/pkg/response"
	service "ispadmin-service/internal/service/overview"

	"github.com/gin-gonic/gin"
)

type OverviewHandler struct {
	overviewService *service.OverviewService
}

func NewOverviewHandler(overviewService *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{
		overviewService: overviewService,
	}
}

// SyncOverview reconciles the expired_overview cache with the customer
// collection on demand.
func (h *OverviewHandler) SyncOverview(c *gin.Context) {
	report, err := h.overviewService.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "overview sync failed", err)
		return
	}

	response.Success(c, http.StatusOK, "overview cache reconciled", report)
}

// GetExpiredSeries returns the expired-customer time series.
// Query params: date (reference, default today), range, group_by, source.
func (h *OverviewHandler) GetExpiredSeries(c *gin.Context) {
	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, ok := dashboard.ParseDateKey(raw)
		if !ok {
			response.ValidationError(c, "invalid date, expected YYYY-MM-DD", nil)
			return
		}
		ref = t
	}

	rng := dashboard.ParseRange(c.Query("range"))
	filter := dashboard.NewDateFilter(ref, rng)
	source := c.DefaultQuery("source", "All")

	groupBy := service.GroupBy(c.DefaultQuery("group_by", string(service.GroupByDay)))
	switch groupBy {
	case service.GroupByDay, service.GroupByMonth, service.GroupByYear:
	default:
		response.ValidationError(c, "invalid group_by, expected day|month|year", nil)
		return
	}

	series := h.overviewService.Series(c.Request.Context(), filter.Start, filter.End, groupBy, source)
	response.Success(c, http.StatusOK, "expired series retrieved", series)
}
