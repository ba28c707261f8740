package handlers

import (
	"encoding/json"
	"net/http"

	"cms-backend/internal/models"
	"cms-backend/internal/services"
)

type OTPHandler struct {
	Service *services.OTPService
}

func NewOTPHandler(s *services.OTPService) *OTPHandler {
	return &OTPHandler{Service: s}
}

// Issue creates a challenge. The code goes out via SMS; the response only
// carries the challenge id and expiry.
func (h *OTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req models.IssueOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	challenge, err := h.Service.Issue(r.Context(), req.EntryID, req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, challenge)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Verify(r.Context(), req.ChallengeID, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
