// Package energy models player fatigue over game time: energy drains while
// on court and recovers on the bench, always clamped to [0,100]. The level
// is advisory state; nothing here is fatal and out-of-range math is clamped
// rather than rejected.
package energy

import (
	"sort"

	"github.com/google/uuid"

	"hooptrack/internal/domain"
)

const (
	maxEnergy = 100.0
	minEnergy = 0.0
)

// Config carries the decay/recovery rates and sampling interval from the
// engine tuning configuration.
type Config struct {
	DecayPerSecond    float64
	RecoveryPerSecond float64
	SampleInterval    int
}

type playerState struct {
	level      float64
	onCourt    bool
	lastUpdate int
	lastSample int
}

// Model tracks fatigue for every rostered player in one game. Not safe for
// concurrent use; the engine serializes access per game.
type Model struct {
	gameID string
	cfg    Config
	order  []string // deterministic iteration order for sample emission
	state  map[string]*playerState
	newID  func() string
}

// NewModel starts every rostered player at full energy on the bench.
func NewModel(gameID string, roster []string, cfg Config) *Model {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 30
	}
	order := make([]string, len(roster))
	copy(order, roster)
	sort.Strings(order)

	state := make(map[string]*playerState, len(order))
	for _, p := range order {
		state[p] = &playerState{level: maxEnergy}
	}
	return &Model{
		gameID: gameID,
		cfg:    cfg,
		order:  order,
		state:  state,
		newID:  uuid.NewString,
	}
}

// ObserveLineup advances every player to the given absolute second and moves
// them on or off court per the new lineup. A sample is appended for each
// player whose on-court state changed.
func (m *Model) ObserveLineup(at int, lineup domain.Lineup) []domain.EnergySample {
	var samples []domain.EnergySample
	for _, p := range m.order {
		st := m.state[p]
		m.advance(st, at)

		nowOn := lineup.Contains(p)
		if nowOn != st.onCourt {
			st.onCourt = nowOn
			samples = append(samples, m.sample(p, st, at))
		}
	}
	return samples
}

// Advance moves every player's trajectory forward to the given second and
// appends periodic samples where the sampling interval has elapsed. Sampling
// every second would be wasteful; the interval keeps the log compact without
// losing analytical fidelity.
func (m *Model) Advance(at int) []domain.EnergySample {
	var samples []domain.EnergySample
	for _, p := range m.order {
		st := m.state[p]
		m.advance(st, at)
		if at-st.lastSample >= m.cfg.SampleInterval {
			samples = append(samples, m.sample(p, st, at))
		}
	}
	return samples
}

// Level reports the current energy for a player, 100 for unknown players.
func (m *Model) Level(player string) float64 {
	if st, ok := m.state[player]; ok {
		return st.level
	}
	return maxEnergy
}

// Fork returns an independent copy for staged application.
func (m *Model) Fork() *Model {
	clone := &Model{
		gameID: m.gameID,
		cfg:    m.cfg,
		order:  m.order,
		state:  make(map[string]*playerState, len(m.state)),
		newID:  m.newID,
	}
	for p, st := range m.state {
		copied := *st
		clone.state[p] = &copied
	}
	return clone
}

func (m *Model) advance(st *playerState, at int) {
	delta := at - st.lastUpdate
	if delta <= 0 {
		return
	}
	if st.onCourt {
		st.level -= m.cfg.DecayPerSecond * float64(delta)
	} else {
		st.level += m.cfg.RecoveryPerSecond * float64(delta)
	}
	if st.level > maxEnergy {
		st.level = maxEnergy
	}
	if st.level < minEnergy {
		st.level = minEnergy
	}
	st.lastUpdate = at
}

func (m *Model) sample(player string, st *playerState, at int) domain.EnergySample {
	st.lastSample = at
	return domain.EnergySample{
		ID:          m.newID(),
		GameID:      m.gameID,
		PlayerID:    player,
		TimeElapsed: at,
		EnergyLevel: st.level,
	}
}
