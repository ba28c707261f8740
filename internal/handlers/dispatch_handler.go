package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cms-backend/internal/models"
	"cms-backend/internal/services"
	"cms-backend/internal/timeutil"
)

type DispatchHandler struct {
	Service *services.DispatchService
}

func NewDispatchHandler(s *services.DispatchService) *DispatchHandler {
	return &DispatchHandler{Service: s}
}

// parseFilters reads the reconciliation filters from query parameters.
// Dates are interpreted as IST calendar days.
func parseFilters(r *http.Request) (models.DispatchFilters, error) {
	var filters models.DispatchFilters
	q := r.URL.Query()

	if v := q.Get("entry_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filters, err
		}
		filters.EntryID = id
	}
	filters.LocationName = q.Get("location")
	filters.OperatorName = q.Get("operator")

	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, v, timeutil.IST)
		if err != nil {
			return filters, err
		}
		filters.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, v, timeutil.IST)
		if err != nil {
			return filters, err
		}
		// Include the whole end day.
		filters.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return filters, nil
}

func (h *DispatchHandler) GetUnifiedRecords(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, "Invalid filter parameters", http.StatusBadRequest)
		return
	}

	records, err := h.Service.GetUnifiedDispatchRecords(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	if records == nil {
		records = []models.UnifiedDispatchRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *DispatchHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, "Invalid filter parameters", http.StatusBadRequest)
		return
	}

	stats, err := h.Service.GetUnifiedDispatchStats(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
