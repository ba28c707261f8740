package handlers

import (
	"encoding/json"
	"net/http"

	"cms-backend/internal/middleware"
	"cms-backend/internal/services"
)

// AdminHandler covers TOTP enrollment and TOTP-gated import batch rollback.
type AdminHandler struct {
	TOTP *services.TOTPService
}

func NewAdminHandler(totpService *services.TOTPService) *AdminHandler {
	return &AdminHandler{TOTP: totpService}
}

func (h *AdminHandler) EnrollTOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	url, err := h.TOTP.Enroll(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"provisioning_url": url})
}

func (h *AdminHandler) RollbackImportBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatchID  string `json:"batch_id"`
		TOTPCode string `json:"totp_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	deleted, err := h.TOTP.RollbackImportBatch(r.Context(), req.BatchID, req.TOTPCode, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id":        req.BatchID,
		"entries_deleted": deleted,
	})
}
