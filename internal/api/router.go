package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/taworn/setscan/internal/api/handlers"
	"github.com/taworn/setscan/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	scanHandler *handlers.ScanHandler,
	ledgerHandler *handlers.LedgerHandler,
	alertHandler *handlers.AlertHandler,
	stockHandler *handlers.StockHandler,
	settingHandler *handlers.SettingHandler,
	hub *Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Live scan results
	r.HandleFunc("/ws", hub.ServeWS)

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Scan endpoints
	api.HandleFunc("/scan", scanHandler.Run).Methods("POST")
	api.HandleFunc("/scan", scanHandler.Latest).Methods("GET")
	api.HandleFunc("/scan/cancel", scanHandler.Cancel).Methods("POST")

	// Ledger endpoints
	api.HandleFunc("/ledger", ledgerHandler.List).Methods("GET")
	api.HandleFunc("/ledger", ledgerHandler.Clear).Methods("DELETE")
	api.HandleFunc("/ledger/stats", ledgerHandler.Stats).Methods("GET")

	// Alert endpoints
	api.HandleFunc("/alerts", alertHandler.List).Methods("GET")
	api.HandleFunc("/alerts", alertHandler.Set).Methods("POST")
	api.HandleFunc("/alerts/{symbol}", alertHandler.Remove).Methods("DELETE")

	// Stock endpoints
	api.HandleFunc("/stocks/{symbol}/quote", stockHandler.Quote).Methods("GET")
	api.HandleFunc("/stocks/{symbol}/history", stockHandler.History).Methods("GET")
	api.HandleFunc("/universe/refresh", stockHandler.RefreshUniverse).Methods("POST")
	api.HandleFunc("/fundamentals/refresh", stockHandler.RefreshFundamentals).Methods("POST")

	// Settings endpoints
	api.HandleFunc("/settings/{key}", settingHandler.Get).Methods("GET")
	api.HandleFunc("/settings/{key}", settingHandler.Put).Methods("PUT")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "setscan-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
