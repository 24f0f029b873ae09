// internal/app/router.go
package app

import (
	complaintHandler "ispadmin-service/internal/handlers/complaint"
	customerHandler "ispadmin-service/internal/handlers/customer"
	dashboardHandler "ispadmin-service/internal/handlers/dashboard"
	overviewHandler "ispadmin-service/internal/handlers/overview"
	paymentHandler "ispadmin-service/internal/handlers/payment"
	wsHandler "ispadmin-service/internal/handlers/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	DashboardHandler *dashboardHandler.DashboardHandler
	CustomerHandler  *customerHandler.CustomerHandler
	PaymentHandler   *paymentHandler.PaymentHandler
	ComplaintHandler *complaintHandler.ComplaintHandler
	OverviewHandler  *overviewHandler.OverviewHandler
	WSHandler        *wsHandler.WebSocketHandler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Dashboard ====================
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/charts", h.DashboardHandler.GetChartData)
		dashboard.GET("/metrics", h.DashboardHandler.GetMetrics)
		dashboard.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.GET("", h.CustomerHandler.ListCustomers)
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
		customers.POST("", h.CustomerHandler.CreateCustomer)
		customers.PUT("/:id", h.CustomerHandler.UpdateCustomer)
		customers.DELETE("/:id", h.CustomerHandler.DeleteCustomer)
	}

	// ==================== Payments ====================
	payments := api.Group("/payments")
	{
		payments.GET("", h.PaymentHandler.ListPayments)
		payments.GET("/:id", h.PaymentHandler.GetPayment)
		payments.POST("", h.PaymentHandler.CreatePayment)
		payments.PUT("/:id", h.PaymentHandler.UpdatePayment)
		payments.DELETE("/:id", h.PaymentHandler.DeletePayment)
	}

	// ==================== Complaints ====================
	complaints := api.Group("/complaints")
	{
		complaints.GET("", h.ComplaintHandler.ListComplaints)
		complaints.GET("/series", h.ComplaintHandler.GetStatusSeries)
		complaints.GET("/:id", h.ComplaintHandler.GetComplaint)
		complaints.POST("", h.ComplaintHandler.CreateComplaint)
		complaints.PUT("/:id", h.ComplaintHandler.UpdateComplaint)
		complaints.DELETE("/:id", h.ComplaintHandler.DeleteComplaint)
		complaints.POST("/escalate", h.ComplaintHandler.EscalateOverdue)
	}

	// ==================== Expired Overview ====================
	overview := api.Group("/overview")
	{
		overview.POST("/sync", h.OverviewHandler.SyncOverview)
		overview.GET("/expired-series", h.OverviewHandler.GetExpiredSeries)
	}
}
