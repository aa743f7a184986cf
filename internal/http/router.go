// Package http assembles the service's route table.
package http

import (
	nethttp "net/http"

	"hooptrack/internal/http/handlers"
)

// NewRouter registers the API routes on a ServeMux.
func NewRouter(h *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	mux.HandleFunc("GET /games", h.Games)
	mux.HandleFunc("GET /games/{id}", h.GameByID)

	mux.HandleFunc("POST /games/{id}/events", h.SubmitEvent)
	mux.HandleFunc("POST /games/{id}/close", h.CloseGame)
	mux.HandleFunc("GET /games/{id}/replay", h.Replay)

	mux.HandleFunc("GET /games/{id}/events", h.Events)
	mux.HandleFunc("GET /games/{id}/possessions", h.Possessions)
	mux.HandleFunc("GET /games/{id}/shots", h.Shots)
	mux.HandleFunc("GET /games/{id}/stints", h.Stints)
	mux.HandleFunc("GET /games/{id}/energy", h.Energy)
	mux.HandleFunc("GET /games/{id}/stats", h.Stats)
	mux.HandleFunc("GET /games/{id}/momentum", h.Momentum)

	mux.HandleFunc("GET /games/{id}/analytics/failures", h.AnalyticsFailures)
	mux.HandleFunc("GET /games/{id}/analytics/lineups", h.AnalyticsLineups)
	mux.HandleFunc("GET /games/{id}/analytics/shooting", h.AnalyticsShooting)

	if admin != nil {
		mux.HandleFunc("POST /admin/exports/refresh", admin.RefreshExports)
	}

	return mux
}
