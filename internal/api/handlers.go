package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trogers1052/portfolio-service/internal/cache"
	"github.com/trogers1052/portfolio-service/internal/models"
	"github.com/trogers1052/portfolio-service/internal/portfolio"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	portfolio *portfolio.Service
	store     cache.Store
}

// NewHandler creates a new Handler
func NewHandler(svc *portfolio.Service, store cache.Store) *Handler {
	return &Handler{
		portfolio: svc,
		store:     store,
	}
}

// GetPortfolio handles GET /api/portfolio. It always responds 200:
// when quote data is unavailable the rows come back with zeroed
// derived fields, never an error page.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	rows := h.portfolio.ComputeRows(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
}

// GetQuote handles GET /api/quotes/{symbol}, serving the per-symbol
// cache entry written by the refresh job.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	var quote models.QuoteRecord
	found, err := h.store.Get(r.Context(), cache.SymbolKey(symbol), &quote)
	if err != nil {
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}
	if !found {
		http.Error(w, "quote not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
