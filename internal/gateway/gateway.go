// Package gateway defines the persistence boundary. The engine writes each
// event's derived rows through here as one atomic unit and reads them back
// for queries and replay. Implementations decide the technology; the engine
// only sees this interface.
package gateway

import (
	"context"
	"errors"

	"hooptrack/internal/domain"
)

// ErrGameNotFound is returned by reads for games that were never created.
var ErrGameNotFound = errors.New("gateway: game not found")

// Gateway persists raw events and derived rows.
//
// CommitEvent must be atomic: the raw event and every row in the set are
// applied together or not at all. A failed commit leaves no trace, which is
// what makes event submission safe to retry. Contexts bound the only
// suspension point in the pipeline; implementations must respect caller
// deadlines.
type Gateway interface {
	// CreateGame registers a game row before its first event.
	CreateGame(ctx context.Context, game domain.Game) error
	// CommitEvent journals the raw event and applies its derived rows.
	CommitEvent(ctx context.Context, ev domain.Event, rows domain.RowSet) error
	// CommitClose applies game-close rows (final stint, stats, game update)
	// without a raw event.
	CommitClose(ctx context.Context, gameID string, rows domain.RowSet) error

	Game(ctx context.Context, gameID string) (domain.Game, error)
	Games(ctx context.Context) ([]domain.Game, error)
	CompletedGames(ctx context.Context) ([]domain.Game, error)

	// Events returns the raw journal in commit order; replay depends on it.
	Events(ctx context.Context, gameID string) ([]domain.Event, error)

	Possessions(ctx context.Context, gameID string) ([]domain.Possession, error)
	DetailedPossessions(ctx context.Context, gameID string) ([]domain.DetailedPossession, error)
	Shots(ctx context.Context, gameID string) ([]domain.Shot, error)
	Stints(ctx context.Context, gameID string) ([]domain.LineupStint, error)
	EnergyLog(ctx context.Context, gameID string) ([]domain.EnergySample, error)
	PlayerStats(ctx context.Context, gameID string) ([]domain.PlayerGameStat, error)
}
