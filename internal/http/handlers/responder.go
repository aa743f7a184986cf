package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hooptrack/internal/domain"
	"hooptrack/internal/engine"
	"hooptrack/internal/gateway"
	"hooptrack/internal/http/middleware"
	"hooptrack/internal/logging"
	"hooptrack/internal/roster"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeEngineError maps engine/domain errors onto HTTP statuses. Rejections
// carry their reason so clients can distinguish a duplicate from a clock
// regression without parsing messages.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, roster.ErrGameUnknown), errors.Is(err, gateway.ErrGameNotFound):
		writeError(w, r, http.StatusNotFound, "game not found", logger)
		return
	case errors.Is(err, engine.ErrGameCompleted):
		writeError(w, r, http.StatusConflict, "game already completed", logger)
		return
	}
	if rej, ok := domain.AsRejection(err); ok {
		status := http.StatusUnprocessableEntity
		if rej.Reason == domain.RejectDuplicateEvent {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{
			"error":  rej.Detail,
			"reason": string(rej.Reason),
		}, logger)
		return
	}
	if inv, ok := domain.AsInvariant(err); ok {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  inv.Detail,
			"code":   string(inv.Code),
			"gameId": inv.GameID,
		}, logger)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error", logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
