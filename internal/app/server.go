// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"ispadmin-service/internal/config"
	"ispadmin-service/internal/db"
	complaintHandler "ispadmin-service/internal/handlers/complaint"
	customerHandler "ispadmin-service/internal/handlers/customer"
	dashboardHandler "ispadmin-service/internal/handlers/dashboard"
	overviewHandler "ispadmin-service/internal/handlers/overview"
	paymentHandler "ispadmin-service/internal/handlers/payment"
	wsHandler "ispadmin-service/internal/handlers/websocket"
	"ispadmin-service/internal/middleware"
	"ispadmin-service/internal/repository/postgres"
	complaintsvc "ispadmin-service/internal/service/complaint"
	customersvc "ispadmin-service/internal/service/customer"
	dashboardsvc "ispadmin-service/internal/service/dashboard"
	overviewsvc "ispadmin-service/internal/service/overview"
	paymentsvc "ispadmin-service/internal/service/payment"
	"ispadmin-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] ✅ Connected successfully")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Repositories -----
	customerRepo := postgres.NewCustomerRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	complaintRepo := postgres.NewComplaintRepository(pool)
	overviewRepo := postgres.NewOverviewRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)

	// ----- Services -----
	metricsService := dashboardsvc.NewMetricsService(customerRepo, paymentRepo, logger)
	feed := dashboardsvc.NewFeed(redisClient, metricsService, hub, s.cfg.FeedDebounce, logger)
	hub.SetRefreshFunc(feed.Refresh)

	complaintService := complaintsvc.NewComplaintService(complaintRepo, logger)
	overviewService := overviewsvc.NewOverviewService(customerRepo, overviewRepo, logger)
	customerService := customersvc.NewCustomerService(customerRepo, feed, logger)
	paymentService := paymentsvc.NewPaymentService(paymentRepo, feed, logger)

	chartCache := dashboardsvc.NewRedisPayloadCache(redisClient, s.cfg.ChartCacheTTL, logger)
	orchestrator := dashboardsvc.NewOrchestrator(
		customerRepo,
		paymentRepo,
		complaintService,
		complaintService,
		overviewService,
		chartCache,
		logger,
	)

	// ----- Background workers -----
	go hub.Run(ctx)
	go feed.Run(ctx)
	go s.runOverviewSync(ctx, overviewService)

	// ----- Handlers -----
	dashboardHandlerInst := dashboardHandler.NewDashboardHandler(orchestrator, metricsService)
	customerHandlerInst := customerHandler.NewCustomerHandler(customerService)
	paymentHandlerInst := paymentHandler.NewPaymentHandler(paymentService)
	complaintHandlerInst := complaintHandler.NewComplaintHandler(complaintService)
	overviewHandlerInst := overviewHandler.NewOverviewHandler(overviewService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		DashboardHandler: dashboardHandlerInst,
		CustomerHandler:  customerHandlerInst,
		PaymentHandler:   paymentHandlerInst,
		ComplaintHandler: complaintHandlerInst,
		OverviewHandler:  overviewHandlerInst,
		WSHandler:        wsHandlerInst,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops background workers.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// runOverviewSync reconciles the expired_overview cache on a fixed
// interval, in addition to the on-demand endpoint.
func (s *Server) runOverviewSync(ctx context.Context, svc *overviewsvc.OverviewService) {
	if s.cfg.OverviewSyncInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.cfg.OverviewSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			syncCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			if _, err := svc.Reconcile(syncCtx); err != nil {
				s.logger.Error("scheduled overview sync failed", zap.Error(err))
			}
			cancel()
		}
	}
}
