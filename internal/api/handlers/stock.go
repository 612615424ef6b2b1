package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/external/set"
	"github.com/taworn/setscan/internal/fundamentals"
	"github.com/taworn/setscan/pkg/logger"
)

// StockHandler handles quote, history, and maintenance endpoints
type StockHandler struct {
	source   contracts.QuoteSource
	universe *set.Universe
	updater  *fundamentals.Updater
	market   string
	logger   *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(
	source contracts.QuoteSource,
	universe *set.Universe,
	updater *fundamentals.Updater,
	market string,
	log *logger.Logger,
) *StockHandler {
	return &StockHandler{
		source:   source,
		universe: universe,
		updater:  updater,
		market:   market,
		logger:   log,
	}
}

func pathSymbol(r *http.Request) string {
	return strings.ToUpper(mux.Vars(r)["symbol"])
}

// Quote returns the latest snapshot for one symbol
// GET /api/stocks/{symbol}/quote
func (h *StockHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	quote, err := h.source.FetchQuote(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Quote fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch quote")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// History returns daily candles for one symbol, oldest first
// GET /api/stocks/{symbol}/history
func (h *StockHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)

	candles, err := h.source.FetchHistory(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("History fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch history")
		return
	}
	respondJSON(w, http.StatusOK, candles)
}

// RefreshUniverse re-scrapes the market constituents
// POST /api/universe/refresh
func (h *StockHandler) RefreshUniverse(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	if market == "" {
		market = h.market
	}

	symbols, err := h.universe.Refresh(r.Context(), market)
	if err != nil {
		h.logger.WithError(err).Error("Universe refresh failed")
		respondError(w, http.StatusBadGateway, "Failed to refresh universe")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"market":  market,
		"symbols": symbols,
	})
}

// RefreshFundamentals re-fetches dividend yields for the scan universe
// POST /api/fundamentals/refresh
func (h *StockHandler) RefreshFundamentals(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.universe.Symbols(r.Context(), h.market)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to resolve universe")
		return
	}

	updated, err := h.updater.Refresh(r.Context(), symbols)
	if err != nil {
		h.logger.WithError(err).Error("Fundamentals refresh failed")
		respondError(w, http.StatusInternalServerError, "Fundamentals refresh failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": len(symbols),
		"updated": updated,
	})
}
