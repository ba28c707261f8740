package handlers

import (
	"fmt"
	"net/http"

	"cms-backend/internal/services"
	"cms-backend/internal/timeutil"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// DispatchCSV streams the dispatch report as CSV. ?archive=true also uploads
// a copy to R2.
func (h *ReportHandler) DispatchCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, "Invalid filter parameters", http.StatusBadRequest)
		return
	}

	data, err := h.Service.GenerateDispatchCSV(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("dispatch_report_%s.csv", timeutil.Now().Format("20060102_150405"))
	if r.URL.Query().Get("archive") == "true" {
		if _, err := h.Service.UploadToR2(r.Context(), filename, data, "text/csv"); err != nil {
			writeError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// DispatchPDF streams the dispatch report as PDF. ?archive=true also uploads
// a copy to R2.
func (h *ReportHandler) DispatchPDF(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, "Invalid filter parameters", http.StatusBadRequest)
		return
	}

	data, err := h.Service.GenerateDispatchPDF(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("dispatch_report_%s.pdf", timeutil.Now().Format("20060102_150405"))
	if r.URL.Query().Get("archive") == "true" {
		if _, err := h.Service.UploadToR2(r.Context(), filename, data, "application/pdf"); err != nil {
			writeError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}
