// internal/handlers/complaint/complaint_handler.go
package complaint

import (
	"net/http"
	"strconv"
	"time"

	"ispadmin-service/internal/domain/complaint"
	"ispadmin-service/internal/domain/dashboard"
	"ispadmin-service/internal/pkg/response"
	service "ispadmin-service/internal/service/complaint"

	"github.com/gin-gonic/gin"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
}

func NewComplaintHandler(complaintService *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// CreateComplaint files a new complaint
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	var req complaint.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.complaintService.CreateComplaint(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to create complaint", err)
		return
	}

	response.Success(c, http.StatusCreated, "complaint filed", result)
}

// GetComplaint retrieves a complaint by ID
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid complaint ID", err)
		return
	}

	result, err := h.complaintService.GetComplaint(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "complaint not found")
		return
	}

	response.Success(c, http.StatusOK, "complaint retrieved", result)
}

// ListComplaints retrieves complaints with filters
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	var filters complaint.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.complaintService.ListComplaints(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list complaints", err)
		return
	}

	response.Success(c, http.StatusOK, "complaints retrieved", result)
}

// UpdateComplaint updates a complaint
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid complaint ID", err)
		return
	}

	var req complaint.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.complaintService.UpdateComplaint(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to update complaint", err)
		return
	}

	response.Success(c, http.StatusOK, "complaint updated", result)
}

// DeleteComplaint removes a complaint
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid complaint ID", err)
		return
	}

	if err := h.complaintService.DeleteComplaint(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusBadRequest, "failed to delete complaint", err)
		return
	}

	response.Success(c, http.StatusOK, "complaint deleted", nil)
}

// EscalateOverdue runs the escalation sweep on demand
func (h *ComplaintHandler) EscalateOverdue(c *gin.Context) {
	count, err := h.complaintService.EscalateOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "escalation sweep failed", err)
		return
	}

	response.Success(c, http.StatusOK, "escalation sweep completed", gin.H{"escalated": count})
}

// GetStatusSeries returns the Open/Resolved/Pending series
func (h *ComplaintHandler) GetStatusSeries(c *gin.Context) {
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
	source := c.DefaultQuery("source", "All")

	series := h.complaintService.StatusSeries(c.Request.Context(), ref, rng, source)
	response.Success(c, http.StatusOK, "complaint series retrieved", series)
}
