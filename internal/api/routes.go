package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Portfolio routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/quotes/{symbol}", handler.GetQuote).Methods("GET")

	return r
}
