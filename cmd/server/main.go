package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pix-charge.backend/internal/config"
	"pix-charge.backend/internal/infrastructure/jobs"
	"pix-charge.backend/internal/interfaces/http/handlers"
	"pix-charge.backend/internal/interfaces/http/middleware"
	"pix-charge.backend/internal/ledger"
	"pix-charge.backend/internal/processor"
	"pix-charge.backend/internal/usecases"
	"pix-charge.backend/pkg/logger"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	runServer  = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// A merchant identity that cannot encode breaks every charge; refuse
	// to start instead of failing per request.
	if err := cfg.Validate(); err != nil {
		logger.Error(context.Background(), "Invalid configuration", zap.Error(err))
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the charge ledger
	chargeLedger := ledger.New(cfg.Charge.TTL, cfg.Charge.Retention)

	// Select the processor once at startup: real Mercado Pago client when a
	// production token is configured, the local mock otherwise. The mock
	// doubles as fallback generator for processor outages.
	mockProc := processor.NewMock(cfg.Merchant.Key, cfg.Merchant.Name, cfg.Merchant.City, cfg.Processor.MockAutoApproveAfter)

	var proc processor.Processor = mockProc
	var fallback *processor.Mock
	if cfg.Processor.UseMercadoPago() {
		mp, err := processor.NewMercadoPago(cfg.Processor.AccessToken, cfg.Processor.NotificationURL)
		if err != nil {
			return fmt.Errorf("failed to initialize mercado pago client: %w", err)
		}
		proc = mp
		fallback = mockProc
		logger.Info(context.Background(), "Mercado Pago processor configured")
	} else {
		logger.Info(context.Background(), "Mock processor configured",
			zap.Duration("auto_approve_after", cfg.Processor.MockAutoApproveAfter))
	}

	// Initialize usecases
	chargeUsecase := usecases.NewChargeUsecase(chargeLedger, proc, fallback, cfg.Charge.MinAmount, cfg.Charge.MaxAmount)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(chargeUsecase)
	webhookHandler := handlers.NewWebhookHandler(chargeUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewChargeExpiryJob(chargeLedger, cfg.Charge.SweepInterval)
	go expiryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		paymentHandler: paymentHandler,
		webhookHandler: webhookHandler,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("PIX charge backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
