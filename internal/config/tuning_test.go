package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningDefaults(t *testing.T) {
	tuning, err := LoadTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuning != DefaultTuning() {
		t.Fatalf("expected defaults, got %+v", tuning)
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "momentum_good_delta: 7\nmomentum_bound: 50\nenergy_decay_per_second: 0.1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuning.MomentumGoodDelta != 7 || tuning.MomentumBound != 50 {
		t.Fatalf("file overrides not applied: %+v", tuning)
	}
	if tuning.EnergyDecayPerSecond != 0.1 {
		t.Fatalf("expected decay 0.1, got %v", tuning.EnergyDecayPerSecond)
	}
	// Untouched keys keep defaults.
	if tuning.QuarterSeconds != 600 {
		t.Fatalf("expected default quarter length, got %d", tuning.QuarterSeconds)
	}
}

func TestLoadTuningEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("momentum_good_delta: 7\n"), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}
	t.Setenv("HOOP_MOMENTUM_GOOD_DELTA", "9")

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuning.MomentumGoodDelta != 9 {
		t.Fatalf("expected env to win, got %d", tuning.MomentumGoodDelta)
	}
}

func TestLoadTuningValidation(t *testing.T) {
	t.Setenv("HOOP_MOMENTUM_BOUND", "0")
	if _, err := LoadTuning(""); err == nil {
		t.Fatalf("expected validation error for zero bound")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing tuning file")
	}
}
