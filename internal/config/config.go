package config

// Config holds runtime configuration for the server.
type Config struct {
	Port       string
	Roster     RosterConfig
	Storage    StorageConfig
	Metrics    MetricsConfig
	Audit      AuditConfig
	Export     ExportConfig
	TuningPath string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string // memory or sqlite
	Path   string // sqlite database file
}

// RosterConfig selects and configures the roster service collaborator.
type RosterConfig struct {
	Provider string // fixture or http
	BaseURL  string
	APIKey   string
	Timeout  Duration
}

// AuditConfig controls the background replay auditor.
type AuditConfig struct {
	Enabled  bool
	Interval Duration
}

// ExportConfig controls filesystem game exports.
type ExportConfig struct {
	Folder        string
	RetentionDays int
	AdminToken    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port: envOrDefault(envPort, defaultPort),
		Roster: RosterConfig{
			Provider: envOrDefault(envRoster, defaultRoster),
			BaseURL:  envOrDefault(envRosterURL, ""),
			APIKey:   envOrDefault(envRosterKey, ""),
			Timeout:  durationEnvOrDefault(envRosterTimeout, defaultRosterTimeout),
		},
		Storage: StorageConfig{
			Driver: envOrDefault(envStorage, defaultStorage),
			Path:   envOrDefault(envStoragePath, defaultStoragePath),
		},
		Metrics: loadMetrics(),
		Audit: AuditConfig{
			Enabled:  boolEnvOrDefault(envAuditOn, true),
			Interval: durationEnvOrDefault(envAuditInterval, defaultAuditInterval),
		},
		Export: ExportConfig{
			Folder:        envOrDefault(envExportFolder, defaultExportFolder),
			RetentionDays: intEnvOrDefault(envExportDays, defaultExportDays),
			AdminToken:    envOrDefault(envAdminToken, ""),
		},
		TuningPath: envOrDefault(envTuningPath, ""),
	}
}
