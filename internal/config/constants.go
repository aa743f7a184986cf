package config

import "time"

const (
	envPort          = "PORT"
	envRoster        = "ROSTER_PROVIDER"
	envRosterURL     = "ROSTER_BASE_URL"
	envRosterKey     = "ROSTER_API_KEY"
	envRosterTimeout = "ROSTER_TIMEOUT"
	envStorage       = "STORAGE_DRIVER"
	envStoragePath   = "SQLITE_PATH"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envAuditOn       = "AUDIT_ENABLED"
	envAuditInterval = "AUDIT_INTERVAL"
	envExportFolder  = "EXPORT_FOLDER"
	envExportDays    = "EXPORT_RETENTION_DAYS"
	envAdminToken    = "ADMIN_TOKEN"
	envTuningPath    = "TUNING_CONFIG"

	defaultPort          = "4000"
	defaultRoster        = "fixture"
	defaultRosterTimeout = 5 * Duration(time.Second)
	defaultStorage       = "memory"
	defaultStoragePath   = "data/hooptrack.db"
	defaultMetricsPort   = "9090"
	// Audit replays completed games; cheap enough to run often.
	defaultAuditInterval = 5 * Duration(time.Minute)
	defaultExportFolder  = "data/exports"
	defaultExportDays    = 30
)
