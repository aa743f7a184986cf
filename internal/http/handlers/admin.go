package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"hooptrack/internal/http/middleware"
	"hooptrack/internal/logging"
)

// ExportRefresher regenerates on-disk game exports.
type ExportRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// AdminHandler exposes admin-only endpoints, guarded by a bearer token.
type AdminHandler struct {
	exporter ExportRefresher
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables all
// admin endpoints.
func NewAdminHandler(exporter ExportRefresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		exporter: exporter,
		token:    token,
		logger:   logger,
	}
}

// RefreshExports re-exports every completed game. Returns 401 when the token
// is missing or wrong.
func (h *AdminHandler) RefreshExports(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", middleware.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.exporter == nil {
		writeError(w, r, http.StatusServiceUnavailable, "exporter not configured", logger)
		return
	}

	exported, err := h.exporter.RefreshAll(r.Context())
	if err != nil {
		logging.Error(logger, "export refresh failed", err)
		writeError(w, r, http.StatusInternalServerError, "export refresh failed", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"exported": exported,
	}, logger)
	logging.Info(logger, "exports refreshed", slog.Int(logging.FieldCount, exported))
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
