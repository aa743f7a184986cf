// Package server wires configuration, storage, the event engine, the
// auditor, exports and the HTTP surface into one runnable unit.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"hooptrack/internal/auditor"
	"hooptrack/internal/config"
	"hooptrack/internal/engine"
	"hooptrack/internal/export"
	"hooptrack/internal/gateway"
	"hooptrack/internal/gateway/memory"
	"hooptrack/internal/gateway/sqlite"
	httpapi "hooptrack/internal/http"
	"hooptrack/internal/http/handlers"
	"hooptrack/internal/http/middleware"
	"hooptrack/internal/logging"
	"hooptrack/internal/metrics"
	"hooptrack/internal/roster"
	"hooptrack/internal/roster/fixture"
	"hooptrack/internal/roster/httpclient"
)

var metricsSetup = metrics.Setup

// auditRunner abstracts the background auditor for testing.
type auditRunner interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() auditor.Status
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	gw            gateway.Gateway
	engine        *engine.Engine
	auditor       auditRunner
	exporter      *export.Exporter
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	closeStore    func() error
}

// New constructs a server with default roster and storage wiring.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	provider := buildRosterProvider(cfg, logger)
	return newServerWithProvider(cfg, logger, provider)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider roster.Provider) (*Server, error) {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider roster.Provider, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	gw, closeStore, err := buildGateway(cfg)
	if err != nil {
		return nil, err
	}

	eng := engine.New(gw, provider, tuning, logger, recorder)

	var aud auditRunner
	if cfg.Audit.Enabled {
		aud = auditor.New(gw, eng, logger, recorder, cfg.Audit.Interval)
	}

	exporter := export.NewExporter(gw, cfg.Export.Folder, cfg.Export.RetentionDays)
	httpSrv := buildHTTPServer(cfg, eng, gw, exporter, logger, recorder, aud)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		gw:            gw,
		engine:        eng,
		auditor:       aud,
		exporter:      exporter,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		closeStore:    closeStore,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, aud auditRunner) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		auditor:    aud,
	}
}

func buildRosterProvider(cfg config.Config, logger *slog.Logger) roster.Provider {
	if cfg.Roster.Provider == "http" && cfg.Roster.BaseURL != "" {
		client := httpclient.NewClient(httpclient.Config{
			BaseURL: cfg.Roster.BaseURL,
			APIKey:  cfg.Roster.APIKey,
			Timeout: cfg.Roster.Timeout,
		})
		return roster.NewRetryingProvider(client, logger, 0, 0)
	}
	return fixture.NewProvider()
}

func buildGateway(cfg config.Config) (gateway.Gateway, func() error, error) {
	if cfg.Storage.Driver != "sqlite" {
		return memory.NewStore(), nil, nil
	}
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func buildHTTPServer(cfg config.Config, eng *engine.Engine, gw gateway.Gateway, exporter *export.Exporter, logger *slog.Logger, recorder *metrics.Recorder, aud auditRunner) httpServer {
	var statusFn func() auditor.Status
	if aud != nil {
		statusFn = aud.Status
	}

	handler := handlers.NewHandler(eng, gw, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.Export.AdminToken != "" {
		admin = handlers.NewAdminHandler(exporter, cfg.Export.AdminToken, logger)
	}
	router := httpapi.NewRouter(handler, admin)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.Logging(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the auditor and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.auditor != nil {
		s.auditor.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.auditor != nil {
		if err := s.auditor.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop auditor", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil && s.logger != nil {
			s.logger.Warn("store close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
