package handlers

import (
	"encoding/json"
	"net/http"

	"cms-backend/internal/repositories"

	"github.com/gorilla/mux"
)

type SystemSettingHandler struct {
	Repo *repositories.SystemSettingRepository
}

func NewSystemSettingHandler(repo *repositories.SystemSettingRepository) *SystemSettingHandler {
	return &SystemSettingHandler{Repo: repo}
}

func (h *SystemSettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	setting, err := h.Repo.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	if setting == nil {
		http.Error(w, "Setting not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

func (h *SystemSettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Value == "" {
		http.Error(w, "value is required", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Set(r.Context(), key, body.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"setting_key": key, "setting_value": body.Value})
}
