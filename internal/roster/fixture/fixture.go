// Package fixture provides a static roster provider for development and
// tests, mirroring how a real deployment would stand in for the roster
// service before it is reachable.
package fixture

import (
	"context"
	"sync"

	"hooptrack/internal/domain"
	"hooptrack/internal/roster"
)

// Provider serves fixed game metadata from memory.
type Provider struct {
	mu    sync.RWMutex
	games map[string]roster.GameInfo
}

// NewProvider returns a provider pre-loaded with one simple-model and one
// detailed-model demo game.
func NewProvider() *Provider {
	p := &Provider{games: make(map[string]roster.GameInfo)}
	p.Add(roster.GameInfo{
		GameID:   "demo-simple",
		TeamID:   "team-1",
		Opponent: "Crosstown",
		Date:     "2026-01-10",
		Location: domain.LocationHome,
		Model:    domain.ModelSimple,
		Roster:   demoRoster(),
	})
	p.Add(roster.GameInfo{
		GameID:   "demo-detailed",
		TeamID:   "team-1",
		Opponent: "Northside",
		Date:     "2026-01-17",
		Location: domain.LocationAway,
		Model:    domain.ModelDetailed,
		Roster:   demoRoster(),
	})
	return p
}

// Add registers game metadata, replacing any previous entry.
func (p *Provider) Add(info roster.GameInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games[info.GameID] = info
}

// GameInfo returns fixture metadata for the game.
func (p *Provider) GameInfo(_ context.Context, gameID string) (roster.GameInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	info, ok := p.games[gameID]
	if !ok {
		return roster.GameInfo{}, roster.ErrGameUnknown
	}
	return info, nil
}

func demoRoster() []string {
	return []string{"p01", "p02", "p03", "p04", "p05", "p06", "p07", "p08", "p09", "p10"}
}
