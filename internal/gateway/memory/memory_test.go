package memory

import (
	"context"
	"errors"
	"testing"

	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
)

func testGame() domain.Game {
	return domain.Game{ID: "g1", TeamID: "t1", Model: domain.ModelSimple}
}

func TestCommitEventRequiresGame(t *testing.T) {
	s := NewStore()

	ev := domain.Event{ID: "e1", GameID: "g1", Type: domain.EventLineup}
	err := s.CommitEvent(context.Background(), ev, domain.RowSet{})
	if !errors.Is(err, gateway.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestCommitEventJournalsAndApplies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.CreateGame(ctx, testGame()); err != nil {
		t.Fatalf("create game: %v", err)
	}

	opened := &domain.LineupStint{ID: "s1", GameID: "g1", Lineup: domain.NewLineup("a", "b", "c", "d", "e")}
	ev := domain.Event{ID: "e1", GameID: "g1", Type: domain.EventLineup, Clock: domain.GameClock{Quarter: 1}}
	rows := domain.RowSet{
		StintOpened: opened,
		Energy:      []domain.EnergySample{{ID: "en1", GameID: "g1", PlayerID: "a", EnergyLevel: 100}},
	}
	if err := s.CommitEvent(ctx, ev, rows); err != nil {
		t.Fatalf("commit: %v", err)
	}

	events, err := s.Events(ctx, "g1")
	if err != nil || len(events) != 1 || events[0].ID != "e1" {
		t.Fatalf("unexpected journal %v err=%v", events, err)
	}
	stints, _ := s.Stints(ctx, "g1")
	if len(stints) != 1 || !stints[0].Open() {
		t.Fatalf("unexpected stints %+v", stints)
	}
	energy, _ := s.EnergyLog(ctx, "g1")
	if len(energy) != 1 {
		t.Fatalf("expected 1 energy sample, got %d", len(energy))
	}
}

func TestStintUpsertClosesByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.CreateGame(ctx, testGame())

	lineup := domain.NewLineup("a", "b", "c", "d", "e")
	open := &domain.LineupStint{ID: "s1", GameID: "g1", Lineup: lineup}
	s.CommitEvent(ctx, domain.Event{ID: "e1", GameID: "g1"}, domain.RowSet{StintOpened: open})

	end, dur := 300, 300
	closed := *open
	closed.EndTime = &end
	closed.Duration = &dur
	closed.PointsFor = 10
	next := &domain.LineupStint{ID: "s2", GameID: "g1", Lineup: domain.NewLineup("a", "b", "c", "d", "f"), StartTime: 300}
	s.CommitEvent(ctx, domain.Event{ID: "e2", GameID: "g1"}, domain.RowSet{
		StintsClosed: []domain.LineupStint{closed},
		StintOpened:  next,
	})

	stints, _ := s.Stints(ctx, "g1")
	if len(stints) != 2 {
		t.Fatalf("expected close to update in place, got %d stints", len(stints))
	}
	if stints[0].Open() || stints[0].PointsFor != 10 {
		t.Fatalf("first stint not closed correctly: %+v", stints[0])
	}
}

func TestStatsUpsertKeepsOneRowPerPlayer(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.CreateGame(ctx, testGame())

	s.CommitEvent(ctx, domain.Event{ID: "e1", GameID: "g1"}, domain.RowSet{
		Stats: []domain.PlayerGameStat{{GameID: "g1", PlayerID: "a", Points: 2}},
	})
	s.CommitEvent(ctx, domain.Event{ID: "e2", GameID: "g1"}, domain.RowSet{
		Stats: []domain.PlayerGameStat{{GameID: "g1", PlayerID: "a", Points: 5}},
	})

	stats, _ := s.PlayerStats(ctx, "g1")
	if len(stats) != 1 || stats[0].Points != 5 {
		t.Fatalf("expected single upserted row with 5 points, got %+v", stats)
	}
}

func TestCommitCloseUpdatesGame(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.CreateGame(ctx, testGame())

	final := testGame()
	final.FinalScoreUs = 52
	final.FinalScoreThem = 48
	final.Completed = true
	if err := s.CommitClose(ctx, "g1", domain.RowSet{Game: &final}); err != nil {
		t.Fatalf("close: %v", err)
	}

	game, err := s.Game(ctx, "g1")
	if err != nil || !game.Completed || game.FinalScoreUs != 52 {
		t.Fatalf("unexpected game %+v err=%v", game, err)
	}

	completed, _ := s.CompletedGames(ctx)
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed game, got %d", len(completed))
	}
}

func TestCommitEventHonorsContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	s.CreateGame(context.Background(), testGame())
	cancel()

	err := s.CommitEvent(ctx, domain.Event{ID: "e1", GameID: "g1"}, domain.RowSet{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	events, _ := s.Events(context.Background(), "g1")
	if len(events) != 0 {
		t.Fatalf("cancelled commit must not journal, got %d events", len(events))
	}
}

func TestReadsForUnknownGame(t *testing.T) {
	s := NewStore()
	if _, err := s.Stints(context.Background(), "nope"); !errors.Is(err, gateway.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
