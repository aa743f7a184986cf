package engine

import (
	"context"
	"fmt"
	"sort"

	"hooptrack/internal/domain"
)

// ReplayResult is the derived state recomputed from a game's raw journal
// alone. Because every component is a deterministic function of the ordered
// event sequence, the result must agree with what was committed live; the
// auditor compares the two.
type ReplayResult struct {
	GameID   string                      `json:"gameId"`
	Events   int                         `json:"events"`
	Game     domain.Game                 `json:"game"`
	Momentum int                         `json:"momentum"`
	Stints   []domain.LineupStint        `json:"stints"`
	Stats    []domain.PlayerGameStat     `json:"stats"`
	Possessions []domain.Possession      `json:"possessions,omitempty"`
	Detailed []domain.DetailedPossession `json:"detailed,omitempty"`
	Shots    []domain.Shot               `json:"shots,omitempty"`
}

// Replay recomputes a game's derived state from its journal without touching
// live engine state or persisting anything.
func (e *Engine) Replay(ctx context.Context, gameID string) (ReplayResult, error) {
	game, err := e.gw.Game(ctx, gameID)
	if err != nil {
		return ReplayResult{}, err
	}
	events, err := e.gw.Events(ctx, gameID)
	if err != nil {
		return ReplayResult{}, err
	}

	base := game
	base.FinalScoreUs, base.FinalScoreThem = 0, 0
	base.Completed = false
	c := newCore(e.tuning, base, rosterFromJournal(events))

	out := ReplayResult{GameID: gameID}
	for _, ev := range events {
		rows, err := c.apply(ev)
		if err != nil {
			return ReplayResult{}, fmt.Errorf("replay %s at event %s: %w", gameID, ev.ID, err)
		}
		out.Possessions = append(out.Possessions, rows.Possessions...)
		out.Detailed = append(out.Detailed, rows.Detailed...)
		out.Shots = append(out.Shots, rows.Shots...)
		out.Events++
	}

	out.Game = c.game
	out.Momentum = c.meter.Value()
	out.Stints = c.stints.Stints()
	out.Stats = c.box.Rows()
	return out, nil
}

// rosterFromJournal derives the set of players a replay needs from the
// events themselves, so replay never depends on the roster service being
// reachable.
func rosterFromJournal(events []domain.Event) []string {
	set := make(map[string]struct{})
	for _, ev := range events {
		for _, p := range ev.Lineup {
			set[p] = struct{}{}
		}
		if ev.Shot != nil {
			set[ev.Shot.PlayerID] = struct{}{}
		}
		if ev.Stat != nil {
			set[ev.Stat.PlayerID] = struct{}{}
		}
		if ev.Detailed != nil && ev.Detailed.ShooterID != "" {
			set[ev.Detailed.ShooterID] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
