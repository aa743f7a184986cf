package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommitEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	game := domain.Game{ID: "g1", TeamID: "t1", Date: "2026-01-10", Opponent: "Crosstown", Location: domain.LocationHome, Model: domain.ModelSimple}
	require.NoError(t, s.CreateGame(ctx, game))

	lineup := domain.NewLineup("a", "b", "c", "d", "e")
	ev := domain.Event{
		ID:     "e1",
		GameID: "g1",
		Type:   domain.EventPossession,
		Clock:  domain.GameClock{Quarter: 1, Elapsed: 45},
		Possession: &domain.PossessionPayload{
			Outcome:     domain.OutcomeFailed,
			FailureType: "turnover",
		},
	}
	rows := domain.RowSet{
		Possessions: []domain.Possession{{
			ID: "p1", GameID: "g1", Quarter: 1, TimeRemaining: 555,
			Outcome: domain.OutcomeFailed, FailureType: "turnover", Lineup: lineup,
		}},
		StintOpened: &domain.LineupStint{ID: "s1", GameID: "g1", Lineup: lineup},
		Energy:      []domain.EnergySample{{ID: "en1", GameID: "g1", PlayerID: "a", TimeElapsed: 45, EnergyLevel: 96.4}},
	}
	require.NoError(t, s.CommitEvent(ctx, ev, rows))

	events, err := s.Events(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev, events[0])

	possessions, err := s.Possessions(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, possessions, 1)
	assert.Equal(t, lineup, possessions[0].Lineup)
	assert.Equal(t, "turnover", possessions[0].FailureType)

	energy, err := s.EnergyLog(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, energy, 1)
	assert.InDelta(t, 96.4, energy[0].EnergyLevel, 1e-9)
}

func TestCommitEventAtomicOnFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGame(ctx, domain.Game{ID: "g1", TeamID: "t1"}))

	ev := domain.Event{ID: "e1", GameID: "g1", Type: domain.EventShot}
	rows := domain.RowSet{
		Shots: []domain.Shot{{ID: "sh1", GameID: "g1", PlayerID: "a", ShotType: "3PT"}},
	}
	require.NoError(t, s.CommitEvent(ctx, ev, rows))

	// Duplicate event ID violates the journal's unique constraint; the shot
	// in the same set must roll back with it.
	dup := domain.Event{ID: "e1", GameID: "g1", Type: domain.EventShot}
	err := s.CommitEvent(ctx, dup, domain.RowSet{
		Shots: []domain.Shot{{ID: "sh2", GameID: "g1", PlayerID: "b", ShotType: "2PT"}},
	})
	require.Error(t, err)

	shots, err := s.Shots(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, shots, 1)
	events, err := s.Events(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCommitEventUnknownGame(t *testing.T) {
	s := openTestStore(t)
	err := s.CommitEvent(context.Background(), domain.Event{ID: "e1", GameID: "nope"}, domain.RowSet{})
	assert.ErrorIs(t, err, gateway.ErrGameNotFound)
}

func TestStintUpsertAndStatsUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGame(ctx, domain.Game{ID: "g1", TeamID: "t1"}))

	lineup := domain.NewLineup("a", "b", "c", "d", "e")
	open := &domain.LineupStint{ID: "s1", GameID: "g1", Lineup: lineup}
	require.NoError(t, s.CommitEvent(ctx, domain.Event{ID: "e1", GameID: "g1"}, domain.RowSet{
		StintOpened: open,
		Stats:       []domain.PlayerGameStat{{GameID: "g1", PlayerID: "a", Points: 2}},
	}))

	end, dur := 300, 300
	closed := *open
	closed.EndTime = &end
	closed.Duration = &dur
	closed.PointsFor = 10
	closed.PointsAgainst = 8
	require.NoError(t, s.CommitEvent(ctx, domain.Event{ID: "e2", GameID: "g1"}, domain.RowSet{
		StintsClosed: []domain.LineupStint{closed},
		StintOpened:  &domain.LineupStint{ID: "s2", GameID: "g1", Lineup: domain.NewLineup("a", "b", "c", "d", "f"), StartTime: 300},
		Stats:        []domain.PlayerGameStat{{GameID: "g1", PlayerID: "a", Points: 7, PlusMinus: 2}},
	}))

	stints, err := s.Stints(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, stints, 2)
	require.NotNil(t, stints[0].EndTime)
	assert.Equal(t, 300, *stints[0].EndTime)
	assert.Equal(t, 10, stints[0].PointsFor)
	assert.True(t, stints[1].Open())

	stats, err := s.PlayerStats(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 7, stats[0].Points)
	assert.Equal(t, 2, stats[0].PlusMinus)
}

func TestCommitCloseMarksGameCompleted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	game := domain.Game{ID: "g1", TeamID: "t1", Model: domain.ModelDetailed}
	require.NoError(t, s.CreateGame(ctx, game))

	final := game
	final.FinalScoreUs = 61
	final.FinalScoreThem = 58
	final.Completed = true
	require.NoError(t, s.CommitClose(ctx, "g1", domain.RowSet{Game: &final}))

	got, err := s.Game(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, 61, got.FinalScoreUs)

	completed, err := s.CompletedGames(ctx)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestDetailedPossessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateGame(ctx, domain.Game{ID: "g1", TeamID: "t1", Model: domain.ModelDetailed}))

	lineup := domain.NewLineup("a", "b", "c", "d", "e")
	d := domain.DetailedPossession{
		ID: "d1", GameID: "g1", Quarter: 2, TimeElapsed: 615, Lineup: lineup,
		Outcome: domain.OutcomeGood, BallAdvancement: "fast_break", ShotQuality: "open",
		ShooterID: "c", ShotType: "3PT", ShotResult: "made", PointsScored: 3, MomentumState: 15,
	}
	require.NoError(t, s.CommitEvent(ctx, domain.Event{ID: "e1", GameID: "g1"}, domain.RowSet{
		Detailed: []domain.DetailedPossession{d},
	}))

	got, err := s.DetailedPossessions(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0])
}

func TestReadsUnknownGame(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Stints(context.Background(), "nope")
	assert.ErrorIs(t, err, gateway.ErrGameNotFound)
	_, err = s.Events(context.Background(), "nope")
	assert.ErrorIs(t, err, gateway.ErrGameNotFound)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.CreateGame(context.Background(), domain.Game{ID: "g1", TeamID: "t1"}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Game(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)
}
