package boxscore

import (
	"testing"

	"hooptrack/internal/domain"
)

func TestAddStatIncrementsOnlyTargetCounter(t *testing.T) {
	a := NewAggregator("g1")

	row := a.AddStat("p1", domain.StatReboundDefensive)
	if row.ReboundsDefensive != 1 {
		t.Fatalf("expected 1 defensive rebound, got %d", row.ReboundsDefensive)
	}
	if row.ReboundsOffensive != 0 || row.Assists != 0 || row.Points != 0 {
		t.Fatalf("unexpected counters touched: %+v", row)
	}

	row = a.AddStat("p1", domain.StatReboundDefensive)
	if row.ReboundsDefensive != 2 {
		t.Fatalf("expected counter to accumulate, got %d", row.ReboundsDefensive)
	}
}

func TestCorrectionReversesExactlyOneIncrement(t *testing.T) {
	a := NewAggregator("g1")
	a.AddStat("p1", domain.StatFoul)
	a.AddStat("p1", domain.StatFoul)

	row := a.RemoveStat("p1", domain.StatFoul)
	if row.Fouls != 1 {
		t.Fatalf("expected correction to leave 1 foul, got %d", row.Fouls)
	}
}

func TestAddPointsCreditsShooter(t *testing.T) {
	a := NewAggregator("g1")
	a.AddPoints("p7", 3)
	row := a.AddPoints("p7", 2)
	if row.Points != 5 {
		t.Fatalf("expected 5 points, got %d", row.Points)
	}
}

func TestPlusMinusReconciliation(t *testing.T) {
	a := NewAggregator("g1")
	lineup := domain.NewLineup("a", "b", "c", "d", "e")

	// Us 10, them 8 while this lineup is on court.
	a.AdjustPlusMinus(lineup, 2)
	a.AdjustPlusMinus(lineup, 3)
	a.AdjustPlusMinus(lineup, 5)
	a.AdjustPlusMinus(lineup, -8)

	for _, p := range lineup {
		row, ok := a.Row(p)
		if !ok || row.PlusMinus != 2 {
			t.Fatalf("expected +2 for %s, got %+v", p, row)
		}
	}
	// Five players each +2 = +10; team net differential is +2 per player slot.
	if got := a.PlusMinusSum(); got != 10 {
		t.Fatalf("expected team plus-minus sum 10, got %d", got)
	}
}

func TestCreditStintMinutes(t *testing.T) {
	a := NewAggregator("g1")
	duration := 300
	end := 300
	stint := domain.LineupStint{
		GameID:    "g1",
		Lineup:    domain.NewLineup("a", "b", "c", "d", "e"),
		StartTime: 0,
		EndTime:   &end,
		Duration:  &duration,
	}

	rows := a.CreditStintMinutes(stint)
	if len(rows) != 5 {
		t.Fatalf("expected 5 updated rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.MinutesPlayed != 5 {
			t.Fatalf("expected 5 minutes for %s, got %v", row.PlayerID, row.MinutesPlayed)
		}
	}

	open := domain.LineupStint{Lineup: stint.Lineup}
	if rows := a.CreditStintMinutes(open); rows != nil {
		t.Fatalf("expected open stint to credit nothing")
	}
}

func TestRowsSortedByPlayer(t *testing.T) {
	a := NewAggregator("g1")
	a.AddStat("z", domain.StatSteal)
	a.AddStat("a", domain.StatBlock)
	a.AddStat("m", domain.StatTurnover)

	rows := a.Rows()
	if len(rows) != 3 || rows[0].PlayerID != "a" || rows[1].PlayerID != "m" || rows[2].PlayerID != "z" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestForkIsIndependent(t *testing.T) {
	a := NewAggregator("g1")
	a.AddPoints("p1", 2)

	fork := a.Fork()
	fork.AddPoints("p1", 3)

	orig, _ := a.Row("p1")
	forked, _ := fork.Row("p1")
	if orig.Points != 2 || forked.Points != 5 {
		t.Fatalf("fork not independent: orig=%d fork=%d", orig.Points, forked.Points)
	}
}
