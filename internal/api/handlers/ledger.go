package handlers

import (
	"net/http"
	"strconv"

	"github.com/taworn/setscan/internal/ledger"
	"github.com/taworn/setscan/pkg/logger"
)

// LedgerHandler handles paper-trade ledger endpoints
type LedgerHandler struct {
	service *ledger.Service
	logger  *logger.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service *ledger.Service, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{service: service, logger: log}
}

// List returns recent records, newest first
// GET /api/ledger?limit=50
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	records, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ledger records")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve ledger")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// Clear removes every record
// DELETE /api/ledger
func (h *LedgerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear ledger")
		respondError(w, http.StatusInternalServerError, "Failed to clear ledger")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Stats returns aggregate paper-trading outcomes
// GET /api/ledger/stats
func (h *LedgerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute ledger stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
