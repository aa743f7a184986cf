// Package handlers wires HTTP routes to the engine and the persistence
// gateway.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"hooptrack/internal/auditor"
	"hooptrack/internal/domain"
	"hooptrack/internal/engine"
	"hooptrack/internal/gateway"
)

// EventEngine is the slice of the engine the HTTP surface needs.
type EventEngine interface {
	SubmitEvent(ctx context.Context, ev domain.Event) (engine.Result, error)
	CloseGame(ctx context.Context, gameID string, final domain.FinalScore) (engine.CloseReport, error)
	Replay(ctx context.Context, gameID string) (engine.ReplayResult, error)
	Momentum(ctx context.Context, gameID string) (int, error)
}

// Handler serves the game-event API.
type Handler struct {
	engine   EventEngine
	gw       gateway.Gateway
	logger   *slog.Logger
	statusFn func() auditor.Status
}

// NewHandler constructs a Handler. statusFn may be nil, in which case /ready
// always reports ready.
func NewHandler(eng EventEngine, gw gateway.Gateway, logger *slog.Logger, statusFn func() auditor.Status) *Handler {
	return &Handler{
		engine:   eng,
		gw:       gw,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic, driven by the audit loop's health.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// SubmitEvent ingests one raw event for the game in the path.
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid event body", logger)
		return
	}
	ev.GameID = r.PathValue("id")

	res, err := h.engine.SubmitEvent(r.Context(), ev)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, res, logger)
}

// CloseGame seals the game with the final score from the body.
func (h *Handler) CloseGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	var final domain.FinalScore
	if err := json.NewDecoder(r.Body).Decode(&final); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid close body", logger)
		return
	}
	if final.Us < 0 || final.Them < 0 {
		writeError(w, r, http.StatusBadRequest, "final scores must not be negative", logger)
		return
	}

	report, err := h.engine.CloseGame(r.Context(), r.PathValue("id"), final)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, report, logger)
}

// Replay recomputes the game's derived state from its journal.
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Replay(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, result, h.logger)
}

// Momentum returns the live momentum value.
func (h *Handler) Momentum(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	value, err := h.engine.Momentum(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "momentum": value}, h.logger)
}

// Games lists all known games.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	games, err := h.gw.Games(r.Context())
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games}, h.logger)
}

// GameByID returns one game row.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	game, err := h.gw.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

// Events returns the raw journal.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	events, err := h.gw.Events(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "events": events}, h.logger)
}

// Possessions returns possession rows for either model.
func (h *Handler) Possessions(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	logger := loggerFromContext(r, h.logger)

	simple, err := h.gw.Possessions(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}
	detailed, err := h.gw.DetailedPossessions(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"gameId":      gameID,
		"possessions": simple,
		"detailed":    detailed,
	}, h.logger)
}

// Shots returns shot rows.
func (h *Handler) Shots(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	shots, err := h.gw.Shots(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "shots": shots}, h.logger)
}

// Stints returns lineup stints.
func (h *Handler) Stints(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	stints, err := h.gw.Stints(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "stints": stints}, h.logger)
}

// Energy returns the energy sample log.
func (h *Handler) Energy(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	samples, err := h.gw.EnergyLog(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "energy": samples}, h.logger)
}

// Stats returns the per-player box score rows.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	stats, err := h.gw.PlayerStats(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "stats": stats}, h.logger)
}
