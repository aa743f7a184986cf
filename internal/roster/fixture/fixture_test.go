package fixture

import (
	"context"
	"errors"
	"testing"

	"hooptrack/internal/domain"
	"hooptrack/internal/roster"
)

func TestFixtureServesDemoGames(t *testing.T) {
	p := NewProvider()

	info, err := p.GameInfo(context.Background(), "demo-simple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Model != domain.ModelSimple {
		t.Fatalf("expected simple model, got %s", info.Model)
	}
	if len(info.Roster) < domain.LineupSize {
		t.Fatalf("fixture roster too small: %d", len(info.Roster))
	}

	info, err = p.GameInfo(context.Background(), "demo-detailed")
	if err != nil || info.Model != domain.ModelDetailed {
		t.Fatalf("expected detailed demo game, got %+v err=%v", info, err)
	}
}

func TestFixtureUnknownGame(t *testing.T) {
	p := NewProvider()
	if _, err := p.GameInfo(context.Background(), "nope"); !errors.Is(err, roster.ErrGameUnknown) {
		t.Fatalf("expected ErrGameUnknown, got %v", err)
	}
}

func TestFixtureAddOverrides(t *testing.T) {
	p := NewProvider()
	p.Add(roster.GameInfo{GameID: "g9", Model: domain.ModelSimple, Roster: []string{"x1"}})

	info, err := p.GameInfo(context.Background(), "g9")
	if err != nil || len(info.Roster) != 1 {
		t.Fatalf("expected added game, got %+v err=%v", info, err)
	}
}
