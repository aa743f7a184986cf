// Package memory provides a thread-safe in-memory Gateway, the default for
// tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
)

type gameRecord struct {
	game        domain.Game
	events      []domain.Event
	possessions []domain.Possession
	detailed    []domain.DetailedPossession
	shots       []domain.Shot
	stints      []domain.LineupStint
	energy      []domain.EnergySample
	stats       map[string]domain.PlayerGameStat
	statOrder   []string
}

// Store keeps all derived state in memory behind one mutex. Commits are
// trivially atomic: the mutex spans the full row-set application.
type Store struct {
	mu    sync.RWMutex
	games map[string]*gameRecord
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{games: make(map[string]*gameRecord)}
}

var _ gateway.Gateway = (*Store)(nil)

// CreateGame registers the game row, replacing any previous metadata but
// keeping committed rows.
func (s *Store) CreateGame(_ context.Context, game domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.ensure(game.ID)
	rec.game = game
	return nil
}

// CommitEvent journals the event and applies its derived rows atomically.
func (s *Store) CommitEvent(ctx context.Context, ev domain.Event, rows domain.RowSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.games[ev.GameID]
	if !ok {
		return gateway.ErrGameNotFound
	}
	rec.events = append(rec.events, ev)
	s.apply(rec, rows)
	return nil
}

// CommitClose applies game-close rows without a raw event.
func (s *Store) CommitClose(ctx context.Context, gameID string, rows domain.RowSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.games[gameID]
	if !ok {
		return gateway.ErrGameNotFound
	}
	s.apply(rec, rows)
	return nil
}

func (s *Store) apply(rec *gameRecord, rows domain.RowSet) {
	rec.possessions = append(rec.possessions, rows.Possessions...)
	rec.detailed = append(rec.detailed, rows.Detailed...)
	rec.shots = append(rec.shots, rows.Shots...)
	rec.energy = append(rec.energy, rows.Energy...)

	for _, stint := range rows.StintsClosed {
		s.upsertStint(rec, stint)
	}
	if rows.StintOpened != nil {
		s.upsertStint(rec, *rows.StintOpened)
	}
	for _, stat := range rows.Stats {
		if _, seen := rec.stats[stat.PlayerID]; !seen {
			rec.statOrder = append(rec.statOrder, stat.PlayerID)
		}
		rec.stats[stat.PlayerID] = stat
	}
	if rows.Game != nil {
		rec.game = *rows.Game
	}
}

func (s *Store) upsertStint(rec *gameRecord, stint domain.LineupStint) {
	for i := range rec.stints {
		if rec.stints[i].ID == stint.ID {
			rec.stints[i] = stint
			return
		}
	}
	rec.stints = append(rec.stints, stint)
}

// Game retrieves a game row by ID.
func (s *Store) Game(_ context.Context, gameID string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return domain.Game{}, gateway.ErrGameNotFound
	}
	return rec.game, nil
}

// Games returns all game rows.
func (s *Store) Games(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Game, 0, len(s.games))
	for _, rec := range s.games {
		out = append(out, rec.game)
	}
	return out, nil
}

// CompletedGames returns games marked completed.
func (s *Store) CompletedGames(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Game
	for _, rec := range s.games {
		if rec.game.Completed {
			out = append(out, rec.game)
		}
	}
	return out, nil
}

// Events returns the raw journal in commit order.
func (s *Store) Events(_ context.Context, gameID string) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.Event, len(rec.events))
	copy(out, rec.events)
	return out, nil
}

// Possessions returns committed simple-model possession rows.
func (s *Store) Possessions(_ context.Context, gameID string) ([]domain.Possession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.Possession, len(rec.possessions))
	copy(out, rec.possessions)
	return out, nil
}

// DetailedPossessions returns committed detailed-model possession rows.
func (s *Store) DetailedPossessions(_ context.Context, gameID string) ([]domain.DetailedPossession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.DetailedPossession, len(rec.detailed))
	copy(out, rec.detailed)
	return out, nil
}

// Shots returns committed shot rows.
func (s *Store) Shots(_ context.Context, gameID string) ([]domain.Shot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.Shot, len(rec.shots))
	copy(out, rec.shots)
	return out, nil
}

// Stints returns lineup stints in open order.
func (s *Store) Stints(_ context.Context, gameID string) ([]domain.LineupStint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.LineupStint, len(rec.stints))
	copy(out, rec.stints)
	return out, nil
}

// EnergyLog returns the append-only energy samples.
func (s *Store) EnergyLog(_ context.Context, gameID string) ([]domain.EnergySample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.EnergySample, len(rec.energy))
	copy(out, rec.energy)
	return out, nil
}

// PlayerStats returns the per-player box score rows in first-seen order.
func (s *Store) PlayerStats(_ context.Context, gameID string) ([]domain.PlayerGameStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[gameID]
	if !ok {
		return nil, gateway.ErrGameNotFound
	}
	out := make([]domain.PlayerGameStat, 0, len(rec.stats))
	for _, player := range rec.statOrder {
		out = append(out, rec.stats[player])
	}
	return out, nil
}

func (s *Store) ensure(gameID string) *gameRecord {
	rec, ok := s.games[gameID]
	if !ok {
		rec = &gameRecord{stats: make(map[string]domain.PlayerGameStat)}
		s.games[gameID] = rec
	}
	return rec
}
