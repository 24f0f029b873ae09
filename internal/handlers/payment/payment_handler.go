// internal/handlers/payment/payment_handler.go
package payment

import (
	"net/http"
	"strconv"

	"ispadmin-service/internal/domain/payment"
	"ispadmin-service/internal/pkg/response"
	service "ispadmin-service/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment records a new payment
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req payment.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.paymentService.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to create payment", err)
		return
	}

	response.Success(c, http.StatusCreated, "payment recorded", result)
}

// GetPayment retrieves a payment by ID
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid payment ID", err)
		return
	}

	result, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "payment not found")
		return
	}

	response.Success(c, http.StatusOK, "payment retrieved", result)
}

// ListPayments retrieves payments with filters
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var filters payment.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list payments", err)
		return
	}

	response.Success(c, http.StatusOK, "payments retrieved", result)
}

// UpdatePayment updates a payment record
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid payment ID", err)
		return
	}

	var req payment.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.paymentService.UpdatePayment(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to update payment", err)
		return
	}

	response.Success(c, http.StatusOK, "payment updated", result)
}

// DeletePayment removes a payment record
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid payment ID", err)
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusBadRequest, "failed to delete payment", err)
		return
	}

	response.Success(c, http.StatusOK, "payment deleted", nil)
}
