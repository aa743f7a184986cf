package config

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Tuning holds the engine constants the original system left unspecified:
// momentum delta magnitudes and the energy decay/recovery curve. They are
// configuration, not code, so deployments can calibrate them.
//
// Precedence (low -> high): defaults, YAML file (TUNING_CONFIG), env vars
// with the HOOP_ prefix (e.g. HOOP_MOMENTUM_GOOD_DELTA).
type Tuning struct {
	// QuarterSeconds is the regulation length of one quarter.
	QuarterSeconds int `koanf:"quarter_seconds"`

	// MomentumGoodDelta is added on a GOOD possession outcome.
	MomentumGoodDelta int `koanf:"momentum_good_delta"`
	// MomentumFailedDelta is added on a FAILED possession outcome.
	MomentumFailedDelta int `koanf:"momentum_failed_delta"`
	// MomentumNeutralDecay moves the value toward zero on NEUTRAL outcomes.
	MomentumNeutralDecay int `koanf:"momentum_neutral_decay"`
	// MomentumBound clamps momentum to [-bound, +bound].
	MomentumBound int `koanf:"momentum_bound"`

	// EnergyDecayPerSecond is fatigue accrued per second on court.
	EnergyDecayPerSecond float64 `koanf:"energy_decay_per_second"`
	// EnergyRecoveryPerSecond is energy regained per second on the bench.
	EnergyRecoveryPerSecond float64 `koanf:"energy_recovery_per_second"`
	// EnergySampleIntervalSeconds spaces periodic energy samples; state
	// changes always sample regardless of the interval.
	EnergySampleIntervalSeconds int `koanf:"energy_sample_interval_seconds"`
}

// DefaultTuning returns the documented default constants. A player on court
// without rest drains from 100 to 0 in roughly 21 minutes and recovers about
// twice as fast on the bench.
func DefaultTuning() Tuning {
	return Tuning{
		QuarterSeconds:              600,
		MomentumGoodDelta:           5,
		MomentumFailedDelta:         -5,
		MomentumNeutralDecay:        0,
		MomentumBound:               100,
		EnergyDecayPerSecond:        0.08,
		EnergyRecoveryPerSecond:     0.15,
		EnergySampleIntervalSeconds: 30,
	}
}

// LoadTuning builds a Tuning by layering defaults, an optional YAML file,
// and HOOP_-prefixed env vars.
func LoadTuning(path string) (Tuning, error) {
	cfg := DefaultTuning()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Tuning{}, err
		}
	}

	// Map env keys like HOOP_MOMENTUM_BOUND -> momentum_bound (flat keys).
	envProvider := env.Provider("HOOP_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "hoop_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Tuning{}, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Tuning{}, err
	}

	if err := cfg.validate(); err != nil {
		return Tuning{}, err
	}
	return cfg, nil
}

func (t Tuning) validate() error {
	if t.QuarterSeconds <= 0 {
		return errors.New("quarter_seconds must be positive")
	}
	if t.MomentumBound <= 0 {
		return errors.New("momentum_bound must be positive")
	}
	if t.MomentumNeutralDecay < 0 {
		return errors.New("momentum_neutral_decay must not be negative")
	}
	if t.EnergyDecayPerSecond < 0 || t.EnergyRecoveryPerSecond < 0 {
		return errors.New("energy rates must not be negative")
	}
	if t.EnergySampleIntervalSeconds <= 0 {
		return errors.New("energy_sample_interval_seconds must be positive")
	}
	return nil
}
