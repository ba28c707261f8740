package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cms-backend/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps domain error kinds onto HTTP statuses. Unknown errors are
// logged and masked as 500s.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindInvalidState, apperrors.KindExpired, apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindInsufficientInventory, apperrors.KindOverRelease:
		status = http.StatusUnprocessableEntity
	case apperrors.KindAttemptsExhausted:
		status = http.StatusTooManyRequests
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	body := map[string]interface{}{"error": err.Error()}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body["kind"] = appErr.Kind
		if appErr.Kind == apperrors.KindInsufficientInventory || appErr.Kind == apperrors.KindOverRelease {
			body["remaining"] = appErr.Remaining
		}
	}
	writeJSON(w, status, body)
}
