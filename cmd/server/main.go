package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"dairy-backend/internal/auth"
	"dairy-backend/internal/backup"
	"dairy-backend/internal/cache"
	"dairy-backend/internal/config"
	"dairy-backend/internal/database"
	"dairy-backend/internal/db"
	"dairy-backend/internal/handlers"
	"dairy-backend/internal/health"
	h "dairy-backend/internal/http"
	"dairy-backend/internal/middleware"
	"dairy-backend/internal/monitoring"
	"dairy-backend/internal/repositories"
	"dairy-backend/internal/services"
	"dairy-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.Files)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Redis unavailable, caching disabled: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	deliveryRepo := repositories.NewDeliveryRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	contentRepo := repositories.NewSiteContentRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)
	onlineTxRepo := repositories.NewOnlineTransactionRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo, deliveryRepo, paymentRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo, customerRepo)
	paymentService := services.NewPaymentService(paymentRepo, customerRepo)
	billingService := services.NewBillingService(customerRepo, deliveryRepo, paymentRepo)
	importService := services.NewImportService(customerRepo, deliveryRepo, paymentRepo)
	reportService := services.NewReportService(customerRepo, deliveryRepo, paymentRepo, billingService)
	contentService := services.NewContentService(contentRepo, settingRepo)
	portalService := services.NewCustomerPortalService(customerRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo, totpRepo)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		onlineTxRepo, paymentRepo, customerRepo, settingRepo,
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))
	authHandler := handlers.NewAuthHandler(userService, loginLogRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, userService, jwtManager, loginLogRepo)
	contentHandler := handlers.NewContentHandler(contentService)
	razorpayHandler := handlers.NewRazorpayHandler(razorpayService, customerService)

	adminDeps := h.AdminRouterDeps{
		Auth:       authHandler,
		Users:      handlers.NewUserHandler(userService),
		Customers:  handlers.NewCustomerHandler(customerService),
		Deliveries: handlers.NewDeliveryHandler(deliveryService),
		Payments:   handlers.NewPaymentHandler(paymentService),
		Billing:    handlers.NewBillingHandler(billingService),
		Imports:    handlers.NewImportHandler(importService),
		Reports:    handlers.NewReportHandler(reportService),
		Content:    contentHandler,
		Razorpay:   razorpayHandler,
		TOTP:       totpHandler,
		LoginLogs:  handlers.NewLoginLogHandler(loginLogRepo),
		Health:     healthHandler,
	}

	portalDeps := h.PortalRouterDeps{
		Portal:   handlers.NewCustomerPortalHandler(portalService, billingService, deliveryService, paymentService, loginLogRepo),
		Content:  contentHandler,
		Razorpay: razorpayHandler,
		Health:   healthHandler,
	}

	authMw := middleware.NewAuthMiddleware(jwtManager, userRepo, customerRepo)

	adminRouter := h.NewAdminRouter(cfg, adminDeps, authMw)
	portalRouter := h.NewPortalRouter(cfg, portalDeps, authMw)

	// Monitoring dashboard and Prometheus metrics on their own port
	go monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port).Start()

	// Nightly CSV snapshots to R2 object storage
	if cfg.Backup.Enabled {
		r2 := config.LoadR2()
		if r2.Enabled() {
			scheduler := backup.NewScheduler(r2, reportService, time.Duration(cfg.Backup.IntervalHours)*time.Hour)
			go scheduler.Run(context.Background())
		} else {
			log.Println("Backups enabled but R2 credentials missing, skipping")
		}
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Portal.Port)
		log.Printf("Customer portal listening on %s", addr)
		if err := http.ListenAndServe(addr, portalRouter); err != nil {
			log.Fatalf("Portal server failed: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Admin API listening on %s", addr)
	if err := http.ListenAndServe(addr, adminRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
