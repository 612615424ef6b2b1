package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// SettingHandler handles the operator key-value settings endpoints
type SettingHandler struct {
	repo   contracts.SettingsRepository
	logger *logger.Logger
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(repo contracts.SettingsRepository, log *logger.Logger) *SettingHandler {
	return &SettingHandler{repo: repo, logger: log}
}

// Get returns the stored value for a key
// GET /api/settings/{key}
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, err := h.repo.Get(r.Context(), key)
	if err != nil {
		h.logger.WithError(err).WithField("key", key).Error("Failed to read setting")
		respondError(w, http.StatusInternalServerError, "Failed to read setting")
		return
	}
	if value == nil {
		respondError(w, http.StatusNotFound, "Setting not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

// Put stores a JSON value under a key, replacing any previous value
// PUT /api/settings/{key}
func (h *SettingHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "Value must be valid JSON")
		return
	}

	if err := h.repo.Set(r.Context(), key, body); err != nil {
		h.logger.WithError(err).WithField("key", key).Error("Failed to save setting")
		respondError(w, http.StatusInternalServerError, "Failed to save setting")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved", "key": key})
}
