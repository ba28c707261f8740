package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cms-backend/internal/apperrors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "validation", err: apperrors.Validation("bad input"), wantStatus: http.StatusBadRequest, wantKind: apperrors.KindValidation},
		{name: "not found", err: apperrors.NotFound("missing"), wantStatus: http.StatusNotFound, wantKind: apperrors.KindNotFound},
		{name: "invalid state", err: apperrors.InvalidState("completed"), wantStatus: http.StatusConflict, wantKind: apperrors.KindInvalidState},
		{name: "expired", err: apperrors.Expired("stale"), wantStatus: http.StatusConflict, wantKind: apperrors.KindExpired},
		{name: "conflict", err: apperrors.Conflict("retry"), wantStatus: http.StatusConflict, wantKind: apperrors.KindConflict},
		{name: "insufficient inventory", err: apperrors.InsufficientInventory(3, 5), wantStatus: http.StatusUnprocessableEntity, wantKind: apperrors.KindInsufficientInventory},
		{name: "over release", err: apperrors.OverRelease(2, 4), wantStatus: http.StatusUnprocessableEntity, wantKind: apperrors.KindOverRelease},
		{name: "attempts exhausted", err: apperrors.AttemptsExhausted("locked"), wantStatus: http.StatusTooManyRequests, wantKind: apperrors.KindAttemptsExhausted},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if tt.wantKind != "" {
				if body["kind"] != tt.wantKind {
					t.Errorf("kind = %v, want %s", body["kind"], tt.wantKind)
				}
			}
		})
	}
}

func TestWriteErrorMasksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Errorf("internal details leaked: %v", body["error"])
	}
}

func TestWriteErrorCarriesRemaining(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperrors.InsufficientInventory(3, 5))

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["remaining"] != float64(3) {
		t.Errorf("remaining = %v, want 3", body["remaining"])
	}
}
