// Package roster defines the external roster service collaborator. The
// engine consumes game metadata and player eligibility from here; it never
// owns or mutates roster data. Eligibility rules (foul-outs, injuries) live
// behind this interface rather than in the engine.
package roster

import (
	"context"
	"errors"

	"hooptrack/internal/domain"
)

// ErrGameUnknown is returned when the roster service has no record of the
// requested game.
var ErrGameUnknown = errors.New("roster: game unknown")

// GameInfo is the metadata the engine needs before processing a game's
// first event. Model is fixed at game creation and never changes.
type GameInfo struct {
	GameID   string                 `json:"gameId"`
	TeamID   string                 `json:"teamId"`
	Opponent string                 `json:"opponent"`
	Date     string                 `json:"date"`
	Location domain.Location        `json:"location"`
	Model    domain.PossessionModel `json:"model"`
	// Roster lists the player IDs currently eligible to take the court.
	Roster []string `json:"roster"`
}

// Provider fetches game metadata and eligible rosters.
type Provider interface {
	GameInfo(ctx context.Context, gameID string) (GameInfo, error)
}
