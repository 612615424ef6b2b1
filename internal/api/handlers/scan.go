package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/scanner"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

// ScanHandler handles scan API endpoints
type ScanHandler struct {
	scanner *scanner.Scanner
	cfg     config.ScanConfig
	logger  *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(s *scanner.Scanner, cfg config.ScanConfig, log *logger.Logger) *ScanHandler {
	return &ScanHandler{scanner: s, cfg: cfg, logger: log}
}

// ScanRequest overrides the configured scan defaults. Zero values keep the
// defaults.
type ScanRequest struct {
	Market           string  `json:"market"`
	Budget           float64 `json:"budget"`
	RiskLevel        string  `json:"risk_level"`
	MinVolumeValue   float64 `json:"min_volume_value"`
	MinDividendYield float64 `json:"min_dividend_yield"`
	SniperMode       *bool   `json:"sniper_mode"`
}

func (h *ScanHandler) params(req ScanRequest) contracts.ScanParams {
	params := contracts.ScanParams{
		Date:             time.Now().Format("2006-01-02"),
		Market:           h.cfg.Market,
		Budget:           h.cfg.Budget,
		RiskLevel:        contracts.RiskLevel(h.cfg.RiskLevel),
		MinVolumeValue:   h.cfg.MinVolumeValue,
		MinDividendYield: h.cfg.MinDividendYield,
		SniperMode:       h.cfg.SniperMode,
	}

	if req.Market != "" {
		params.Market = req.Market
	}
	if req.Budget > 0 {
		params.Budget = req.Budget
	}
	if req.RiskLevel != "" {
		params.RiskLevel = contracts.RiskLevel(req.RiskLevel)
	}
	if req.MinVolumeValue > 0 {
		params.MinVolumeValue = req.MinVolumeValue
	}
	if req.MinDividendYield > 0 {
		params.MinDividendYield = req.MinDividendYield
	}
	if req.SniperMode != nil {
		params.SniperMode = *req.SniperMode
	}
	return params
}

// Run triggers a scan cycle
// POST /api/scan
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	params := h.params(req)
	switch params.RiskLevel {
	case contracts.RiskLow, contracts.RiskMedium, contracts.RiskHigh:
	default:
		respondError(w, http.StatusBadRequest, "risk_level must be low, medium or high")
		return
	}

	result, err := h.scanner.Scan(r.Context(), params)
	if errors.Is(err, scanner.ErrScanInFlight) {
		respondError(w, http.StatusConflict, "A scan is already running")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Latest returns the most recent scan result
// GET /api/scan
func (h *ScanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	result := h.scanner.LastResult()
	if result == nil {
		respondError(w, http.StatusNotFound, "No scan has completed yet")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Cancel aborts the in-flight scan cycle
// POST /api/scan/cancel
func (h *ScanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.scanner.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
