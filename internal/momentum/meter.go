// Package momentum maintains the bounded per-game momentum score. The meter
// is a pure function of the ordered outcome sequence, which is what makes
// replay audits possible: same outcomes in, same snapshots out.
package momentum

import "hooptrack/internal/domain"

// Config carries the signed deltas applied per possession outcome and the
// clamp bound. Values come from the engine tuning configuration.
type Config struct {
	GoodDelta    int
	FailedDelta  int
	NeutralDecay int
	Bound        int
}

// Meter tracks one game's momentum value.
type Meter struct {
	cfg   Config
	value int
}

// New constructs a meter at zero with the provided deltas.
func New(cfg Config) *Meter {
	if cfg.Bound <= 0 {
		cfg.Bound = 100
	}
	if cfg.NeutralDecay < 0 {
		cfg.NeutralDecay = 0
	}
	return &Meter{cfg: cfg}
}

// Value returns the current momentum state.
func (m *Meter) Value() int {
	return m.value
}

// Advance applies one possession outcome and returns the resulting value,
// which the engine snapshots onto the possession record.
func (m *Meter) Advance(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeGood:
		m.value += m.cfg.GoodDelta
	case domain.OutcomeFailed:
		m.value += m.cfg.FailedDelta
	case domain.OutcomeNeutral:
		m.value = decayTowardZero(m.value, m.cfg.NeutralDecay)
	}
	m.value = clamp(m.value, m.cfg.Bound)
	return m.value
}

// Fork returns an independent copy for staged application.
func (m *Meter) Fork() *Meter {
	clone := *m
	return &clone
}

func decayTowardZero(value, step int) int {
	switch {
	case value > 0:
		if value < step {
			return 0
		}
		return value - step
	case value < 0:
		if -value < step {
			return 0
		}
		return value + step
	default:
		return 0
	}
}

func clamp(value, bound int) int {
	if value > bound {
		return bound
	}
	if value < -bound {
		return -bound
	}
	return value
}
