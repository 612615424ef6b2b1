package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/taworn/setscan/internal/alerts"
	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// AlertHandler handles price alert endpoints
type AlertHandler struct {
	service *alerts.Service
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *alerts.Service, log *logger.Logger) *AlertHandler {
	return &AlertHandler{service: service, logger: log}
}

// List returns all active alerts
// GET /api/alerts
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	respondJSON(w, http.StatusOK, active)
}

// SetAlertRequest creates or replaces an alert
type SetAlertRequest struct {
	Symbol      string  `json:"symbol"`
	TargetPrice float64 `json:"target_price"`
	Condition   string  `json:"condition"` // "above" or "below"
}

// Set creates or replaces the alert for a symbol
// POST /api/alerts
func (h *AlertHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	err := h.service.Set(r.Context(), symbol, req.TargetPrice, contracts.AlertCondition(req.Condition))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "created", "symbol": symbol})
}

// Remove deletes the alert for a symbol
// DELETE /api/alerts/{symbol}
func (h *AlertHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	if err := h.service.Remove(r.Context(), symbol); err != nil {
		h.logger.WithError(err).Error("Failed to remove alert")
		respondError(w, http.StatusInternalServerError, "Failed to remove alert")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed", "symbol": symbol})
}
