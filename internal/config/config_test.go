package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Roster.Provider != "fixture" {
		t.Fatalf("expected fixture roster provider, got %s", cfg.Roster.Provider)
	}
	if !cfg.Audit.Enabled {
		t.Fatalf("expected audit enabled by default")
	}
	if cfg.Export.RetentionDays != defaultExportDays {
		t.Fatalf("unexpected export retention %d", cfg.Export.RetentionDays)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("expected memory storage by default, got %s", cfg.Storage.Driver)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "8081")
	t.Setenv(envRoster, "http")
	t.Setenv(envRosterURL, "http://roster.local")
	t.Setenv(envAuditInterval, "90s")
	t.Setenv(envAuditOn, "false")
	t.Setenv(envAdminToken, "secret")
	t.Setenv(envStorage, "sqlite")
	t.Setenv(envStoragePath, "/var/lib/hooptrack/games.db")

	cfg := Load()

	if cfg.Port != "8081" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.Roster.Provider != "http" || cfg.Roster.BaseURL != "http://roster.local" {
		t.Fatalf("unexpected roster config %+v", cfg.Roster)
	}
	if cfg.Audit.Enabled {
		t.Fatalf("expected audit disabled")
	}
	if cfg.Audit.Interval != 90*time.Second {
		t.Fatalf("unexpected audit interval %v", cfg.Audit.Interval)
	}
	if cfg.Export.AdminToken != "secret" {
		t.Fatalf("expected admin token to load")
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "/var/lib/hooptrack/games.db" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
}

func TestDurationEnvRejectsGarbage(t *testing.T) {
	t.Setenv(envAuditInterval, "soon")
	cfg := Load()
	if cfg.Audit.Interval != time.Duration(defaultAuditInterval) {
		t.Fatalf("expected fallback to default interval, got %v", cfg.Audit.Interval)
	}
}
