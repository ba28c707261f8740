package http

import (
	"cms-backend/internal/handlers"
	"cms-backend/internal/middleware"
	"cms-backend/internal/models"
	"cms-backend/internal/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	entryHandler *handlers.EntryHandler,
	deliveryHandler *handlers.DeliveryHandler,
	renewalHandler *handlers.RenewalHandler,
	otpHandler *handlers.OTPHandler,
	dispatchHandler *handlers.DispatchHandler,
	reportHandler *handlers.ReportHandler,
	locationHandler *handlers.LocationHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	hub *monitoring.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Entries
	entriesAPI := r.PathPrefix("/api/entries").Subrouter()
	entriesAPI.Use(authMiddleware.Authenticate)
	entriesAPI.HandleFunc("", entryHandler.ListEntries).Methods("GET")
	entriesAPI.HandleFunc("", entryHandler.CreateEntry).Methods("POST")
	entriesAPI.HandleFunc("/locker-availability", entryHandler.CheckLockerAvailability).Methods("GET")
	entriesAPI.HandleFunc("/{id}", entryHandler.GetEntry).Methods("GET")
	entriesAPI.HandleFunc("/{id}/expiry", entryHandler.GetExpiryStatus).Methods("GET")
	entriesAPI.HandleFunc("/{id}/release", deliveryHandler.ProcessRelease).Methods("POST")
	entriesAPI.HandleFunc("/{id}/renew", renewalHandler.ProcessRenewal).Methods("POST")

	// Protected API routes - OTP challenges
	otpAPI := r.PathPrefix("/api/otp").Subrouter()
	otpAPI.Use(authMiddleware.Authenticate)
	otpAPI.HandleFunc("/issue", otpHandler.Issue).Methods("POST")
	otpAPI.HandleFunc("/verify", otpHandler.Verify).Methods("POST")

	// Protected API routes - Dispatch reconciliation
	dispatchAPI := r.PathPrefix("/api/dispatches").Subrouter()
	dispatchAPI.Use(authMiddleware.Authenticate)
	dispatchAPI.HandleFunc("", dispatchHandler.GetUnifiedRecords).Methods("GET")
	dispatchAPI.HandleFunc("/stats", dispatchHandler.GetStats).Methods("GET")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/dispatches.csv", reportHandler.DispatchCSV).Methods("GET")
	reportsAPI.HandleFunc("/dispatches.pdf", reportHandler.DispatchPDF).Methods("GET")

	// Protected API routes - Locations
	locationsAPI := r.PathPrefix("/api/locations").Subrouter()
	locationsAPI.Use(authMiddleware.Authenticate)
	locationsAPI.HandleFunc("", locationHandler.ListLocations).Methods("GET")
	locationsAPI.HandleFunc("/{id}", locationHandler.GetLocation).Methods("GET")

	// Protected API routes - System Settings (admin only)
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.GetSetting).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.UpdateSetting).Methods("PUT")

	// Protected API routes - Admin (TOTP-gated operations)
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.RequireAdmin)
	adminAPI.HandleFunc("/totp/enroll", adminHandler.EnrollTOTP).Methods("POST")
	adminAPI.HandleFunc("/import-batches/rollback", adminHandler.RollbackImportBatch).Methods("POST")

	// Live dispatch feed
	r.HandleFunc("/ws/dispatches", hub.HandleWebSocket)

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
