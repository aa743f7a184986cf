// Package stints maintains the per-game sequence of lineup stints: who was
// on court, from when to when, and the score swing while they were out
// there. Stints are contiguous and non-overlapping, with at most one open
// stint per game.
package stints

import (
	"fmt"

	"github.com/google/uuid"

	"hooptrack/internal/domain"
)

// Tracker holds the stint state for a single game. It is not safe for
// concurrent use; the engine serializes access per game.
type Tracker struct {
	gameID string
	closed []domain.LineupStint
	open   *domain.LineupStint
	newID  func() string
}

// NewTracker constructs an empty tracker for the game.
func NewTracker(gameID string) *Tracker {
	return &Tracker{
		gameID: gameID,
		newID:  uuid.NewString,
	}
}

// ObserveLineup records the lineup on court at the given absolute game
// second. When it differs from the current lineup (set equality), the open
// stint is closed at that second and a new one opened. Two substitutions at
// the same second produce a zero-duration stint rather than merging, so the
// audit trail stays complete.
//
// Returns the closed stint (if any) and the newly opened stint (if any).
func (t *Tracker) ObserveLineup(at int, lineup domain.Lineup) (*domain.LineupStint, *domain.LineupStint, error) {
	if t.open != nil && t.open.Lineup.Equal(lineup) {
		return nil, nil, nil
	}

	var closedCopy *domain.LineupStint
	if t.open != nil {
		closed, err := t.close(at)
		if err != nil {
			return nil, nil, err
		}
		closedCopy = closed
	}

	opened := domain.LineupStint{
		ID:        t.newID(),
		GameID:    t.gameID,
		Lineup:    lineup.Clone(),
		StartTime: at,
	}
	t.open = &opened

	openedCopy := opened
	openedCopy.Lineup = opened.Lineup.Clone()
	return closedCopy, &openedCopy, nil
}

// RecordScore adds points to the open stint's points_for or points_against
// and returns a copy of the updated stint. The first lineup observation must
// precede the first scoring event.
func (t *Tracker) RecordScore(points int, forTeam bool) (*domain.LineupStint, error) {
	if t.open == nil {
		return nil, &domain.InvariantError{
			Code:   domain.InvariantNoOpenStint,
			GameID: t.gameID,
			Detail: "score recorded before any lineup observation",
		}
	}
	if forTeam {
		t.open.PointsFor += points
	} else {
		t.open.PointsAgainst += points
	}

	updated := *t.open
	updated.Lineup = t.open.Lineup.Clone()
	return &updated, nil
}

// CloseGame closes the open stint at game end. Returns nil when no stint is
// open (e.g. a game with no events); closing twice is a no-op.
func (t *Tracker) CloseGame(at int) (*domain.LineupStint, error) {
	if t.open == nil {
		return nil, nil
	}
	return t.close(at)
}

func (t *Tracker) close(at int) (*domain.LineupStint, error) {
	if at < t.open.StartTime {
		return nil, &domain.InvariantError{
			Code:   domain.InvariantNegativeDuration,
			GameID: t.gameID,
			Detail: fmt.Sprintf("stint started at %ds cannot close at %ds", t.open.StartTime, at),
		}
	}

	duration := at - t.open.StartTime
	end := at
	t.open.EndTime = &end
	t.open.Duration = &duration

	closed := *t.open
	closed.Lineup = t.open.Lineup.Clone()
	t.closed = append(t.closed, closed)
	t.open = nil

	result := closed
	result.Lineup = closed.Lineup.Clone()
	return &result, nil
}

// CurrentLineup returns the lineup of the open stint, or nil before the
// first observation.
func (t *Tracker) CurrentLineup() domain.Lineup {
	if t.open == nil {
		return nil
	}
	return t.open.Lineup.Clone()
}

// HasOpenStint reports whether a stint is currently open.
func (t *Tracker) HasOpenStint() bool {
	return t.open != nil
}

// Stints returns all stints in order, the open one (if any) last.
func (t *Tracker) Stints() []domain.LineupStint {
	out := make([]domain.LineupStint, 0, len(t.closed)+1)
	for _, s := range t.closed {
		s.Lineup = s.Lineup.Clone()
		out = append(out, s)
	}
	if t.open != nil {
		open := *t.open
		open.Lineup = t.open.Lineup.Clone()
		out = append(out, open)
	}
	return out
}

// Fork returns an independent copy for staged application.
func (t *Tracker) Fork() *Tracker {
	clone := &Tracker{
		gameID: t.gameID,
		newID:  t.newID,
		closed: make([]domain.LineupStint, len(t.closed)),
	}
	for i, s := range t.closed {
		s.Lineup = s.Lineup.Clone()
		if s.EndTime != nil {
			end := *s.EndTime
			s.EndTime = &end
		}
		if s.Duration != nil {
			d := *s.Duration
			s.Duration = &d
		}
		clone.closed[i] = s
	}
	if t.open != nil {
		open := *t.open
		open.Lineup = t.open.Lineup.Clone()
		clone.open = &open
	}
	return clone
}
