// Package boxscore folds event outcomes into per-player, per-game stat rows.
// Counters only ever grow; plus-minus moves both ways. The aggregate must
// reconcile at game close: summing plus-minus over the team equals the final
// score differential.
package boxscore

import (
	"sort"

	"hooptrack/internal/domain"
	"hooptrack/internal/timeutil"
)

// Aggregator holds box-score rows for one game. Not safe for concurrent
// use; the engine serializes access per game.
type Aggregator struct {
	gameID string
	rows   map[string]*domain.PlayerGameStat
}

// NewAggregator constructs an empty aggregator for the game.
func NewAggregator(gameID string) *Aggregator {
	return &Aggregator{
		gameID: gameID,
		rows:   make(map[string]*domain.PlayerGameStat),
	}
}

// AddStat increments one counter and returns the updated row.
func (a *Aggregator) AddStat(player string, kind domain.StatKind) domain.PlayerGameStat {
	return a.applyStat(player, kind, 1)
}

// RemoveStat reverses one counter increment for a compensating correction
// event and returns the updated row.
func (a *Aggregator) RemoveStat(player string, kind domain.StatKind) domain.PlayerGameStat {
	return a.applyStat(player, kind, -1)
}

func (a *Aggregator) applyStat(player string, kind domain.StatKind, delta int) domain.PlayerGameStat {
	row := a.ensure(player)
	switch kind {
	case domain.StatAssist:
		row.Assists += delta
	case domain.StatReboundOffensive:
		row.ReboundsOffensive += delta
	case domain.StatReboundDefensive:
		row.ReboundsDefensive += delta
	case domain.StatTurnover:
		row.Turnovers += delta
	case domain.StatSteal:
		row.Steals += delta
	case domain.StatBlock:
		row.Blocks += delta
	case domain.StatFoul:
		row.Fouls += delta
	}
	return *row
}

// AddPoints credits made-shot points to the shooter and returns the row.
func (a *Aggregator) AddPoints(shooter string, points int) domain.PlayerGameStat {
	row := a.ensure(shooter)
	row.Points += points
	return *row
}

// AdjustPlusMinus applies a score swing to every player in the on-court
// lineup: positive when our team scores, negative when the opponent does.
// Returns the updated rows in lineup order.
func (a *Aggregator) AdjustPlusMinus(lineup domain.Lineup, delta int) []domain.PlayerGameStat {
	out := make([]domain.PlayerGameStat, 0, len(lineup))
	for _, p := range lineup {
		row := a.ensure(p)
		row.PlusMinus += delta
		out = append(out, *row)
	}
	return out
}

// CreditStintMinutes adds a closed stint's duration to the minutes of every
// player in its lineup. Returns the updated rows.
func (a *Aggregator) CreditStintMinutes(stint domain.LineupStint) []domain.PlayerGameStat {
	if stint.Duration == nil {
		return nil
	}
	minutes := timeutil.MinutesFromSeconds(*stint.Duration)
	out := make([]domain.PlayerGameStat, 0, len(stint.Lineup))
	for _, p := range stint.Lineup {
		row := a.ensure(p)
		row.MinutesPlayed += minutes
		out = append(out, *row)
	}
	return out
}

// Row returns a copy of one player's stats.
func (a *Aggregator) Row(player string) (domain.PlayerGameStat, bool) {
	row, ok := a.rows[player]
	if !ok {
		return domain.PlayerGameStat{}, false
	}
	return *row, true
}

// Rows returns all stat rows ordered by player ID.
func (a *Aggregator) Rows() []domain.PlayerGameStat {
	out := make([]domain.PlayerGameStat, 0, len(a.rows))
	for _, row := range a.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// PlusMinusSum returns the team-wide plus-minus total, which must equal the
// net score differential for a completed game.
func (a *Aggregator) PlusMinusSum() int {
	sum := 0
	for _, row := range a.rows {
		sum += row.PlusMinus
	}
	return sum
}

// Fork returns an independent copy for staged application.
func (a *Aggregator) Fork() *Aggregator {
	clone := NewAggregator(a.gameID)
	for p, row := range a.rows {
		copied := *row
		clone.rows[p] = &copied
	}
	return clone
}

func (a *Aggregator) ensure(player string) *domain.PlayerGameStat {
	row, ok := a.rows[player]
	if !ok {
		row = &domain.PlayerGameStat{GameID: a.gameID, PlayerID: player}
		a.rows[player] = row
	}
	return row
}
