package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cms-backend/internal/middleware"
	"cms-backend/internal/models"
	"cms-backend/internal/services"

	"github.com/gorilla/mux"
)

type RenewalHandler struct {
	Service *services.RenewalService
}

func NewRenewalHandler(s *services.RenewalService) *RenewalHandler {
	return &RenewalHandler{Service: s}
}

func (h *RenewalHandler) ProcessRenewal(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	var req models.ProcessRenewalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	record, err := h.Service.ProcessRenewal(r.Context(), entryID, &req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
