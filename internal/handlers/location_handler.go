package handlers

import (
	"net/http"
	"strconv"

	"cms-backend/internal/models"
	"cms-backend/internal/repositories"

	"github.com/gorilla/mux"
)

type LocationHandler struct {
	Repo *repositories.LocationRepository
}

func NewLocationHandler(repo *repositories.LocationRepository) *LocationHandler {
	return &LocationHandler{Repo: repo}
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if locations == nil {
		locations = []*models.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid location id", http.StatusBadRequest)
		return
	}

	location, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}
