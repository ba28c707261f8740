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

type EntryHandler struct {
	Service *services.EntryService
}

func NewEntryHandler(s *services.EntryService) *EntryHandler {
	return &EntryHandler{Service: s}
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), &req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListEntries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// Ensure we return empty array instead of null
	if entries == nil {
		entries = []*models.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CheckLockerAvailability reports whether a locker at a location is free.
func (h *EntryHandler) CheckLockerAvailability(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.Atoi(r.URL.Query().Get("location_id"))
	if err != nil {
		http.Error(w, "location_id query parameter is required", http.StatusBadRequest)
		return
	}
	lockerNumber := r.URL.Query().Get("locker_number")
	if lockerNumber == "" {
		http.Error(w, "locker_number query parameter is required", http.StatusBadRequest)
		return
	}

	available, err := h.Service.IsLockerAvailable(r.Context(), locationID, lockerNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// GetExpiryStatus recomputes the expiry predicate for one entry.
func (h *EntryHandler) GetExpiryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	expired, err := h.Service.IsEntryExpired(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"expired": expired})
}
