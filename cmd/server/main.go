package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cms-backend/internal/auth"
	"cms-backend/internal/cache"
	"cms-backend/internal/config"
	"cms-backend/internal/database"
	"cms-backend/internal/db"
	"cms-backend/internal/handlers"
	h "cms-backend/internal/http"
	"cms-backend/internal/middleware"
	"cms-backend/internal/monitoring"
	"cms-backend/internal/notify"
	"cms-backend/internal/repositories"
	"cms-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.NewMigrator(pool).RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running degraded: %v", err)
	}

	// Repositories
	entryRepo := repositories.NewEntryRepository(pool)
	otpRepo := repositories.NewOTPRepository(pool)
	dispatchEventRepo := repositories.NewDispatchEventRepository(pool)
	deliveryRepo := repositories.NewDeliveryRepository(pool)
	deliveryLogRepo := repositories.NewDeliveryLogRepository(pool)
	outboxRepo := repositories.NewOutboxRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	locationRepo := repositories.NewLocationRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)

	// Live dispatch feed
	hub := monitoring.NewHub()
	go hub.Run()

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	entryService := services.NewEntryService(entryRepo, locationRepo)
	otpService := services.NewOTPService(otpRepo, entryRepo, deliveryLogRepo, outboxRepo)
	deliveryService := services.NewDeliveryService(entryRepo, userRepo, otpService)
	deliveryService.SetFeed(hub)
	renewalService := services.NewRenewalService(entryRepo, settingRepo, otpService, cfg.Notify.AdminMobile)
	dispatchService := services.NewDispatchService(dispatchEventRepo, deliveryRepo, entryRepo)
	dispatchService.SetCache(cache.StatsCache{})
	reportService := services.NewReportService(dispatchService, cfg)
	totpService := services.NewTOTPService(userRepo, entryRepo, deliveryLogRepo)

	// Outbox worker
	var provider notify.SMSProvider
	if cfg.Notify.Fast2SMSKey != "" {
		provider = notify.NewFast2SMSProvider(cfg.Notify.Fast2SMSKey)
	} else {
		log.Println("[Notify] No SMS API key configured, using dry-run provider")
		provider = notify.LogProvider{}
	}
	worker := notify.NewWorker(outboxRepo, provider,
		time.Duration(cfg.Notify.DrainInterval)*time.Second)
	worker.Start()

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	entryHandler := handlers.NewEntryHandler(entryService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	renewalHandler := handlers.NewRenewalHandler(renewalService)
	otpHandler := handlers.NewOTPHandler(otpService)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)
	reportHandler := handlers.NewReportHandler(reportService)
	locationHandler := handlers.NewLocationHandler(locationRepo)
	settingHandler := handlers.NewSystemSettingHandler(settingRepo)
	adminHandler := handlers.NewAdminHandler(totpService)
	healthHandler := handlers.NewHealthHandler(pool)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		entryHandler,
		deliveryHandler,
		renewalHandler,
		otpHandler,
		dispatchHandler,
		reportHandler,
		locationHandler,
		settingHandler,
		adminHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.NewCORS(cfg)(
			middleware.MetricsMiddleware(
				middleware.APILogging(router))))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Server] Shutting down...")

	worker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Shutdown error: %v", err)
	}
	log.Println("[Server] Stopped")
}
