package handlers

import (
	"net/http"

	"cms-backend/internal/monitoring"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	DB *pgxpool.Pool
}

func NewHealthHandler(db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{DB: db}
}

// BasicHealth is the liveness probe.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth reports ready only when the database answers.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// DetailedHealth returns host and dependency stats for the dashboard.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monitoring.CollectStats(r.Context(), h.DB))
}
