package validate

import (
	"testing"

	"hooptrack/internal/domain"
)

func simpleView() View {
	return View{
		Model: domain.ModelSimple,
		Roster: map[string]struct{}{
			"A": {}, "B": {}, "C": {}, "D": {}, "E": {}, "F": {},
		},
		Seen: func(string) bool { return false },
	}
}

func lineupEvent(clock domain.GameClock, players ...string) domain.Event {
	return domain.Event{
		GameID: "g1",
		Type:   domain.EventLineup,
		Clock:  clock,
		Lineup: domain.Lineup(players),
	}
}

func TestAcceptedEventGetsID(t *testing.T) {
	ev, err := Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "B", "C", "D", "E"), simpleView())
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if ev.ID == "" {
		t.Fatalf("expected an assigned event ID")
	}
}

func TestClockRegressionRejected(t *testing.T) {
	view := simpleView()
	view.HasClock = true
	view.Clock = domain.GameClock{Quarter: 2, Elapsed: 50}

	_, err := Event(lineupEvent(domain.GameClock{Quarter: 2, Elapsed: 10}, "A", "B", "C", "D", "E"), view)
	rej, ok := domain.AsRejection(err)
	if !ok || rej.Reason != domain.RejectClockRegression {
		t.Fatalf("expected CLOCK_REGRESSION, got %v", err)
	}

	// Equal clock is allowed: two events can share a timestamp.
	if _, err := Event(lineupEvent(domain.GameClock{Quarter: 2, Elapsed: 50}, "A", "B", "C", "D", "E"), view); err != nil {
		t.Fatalf("equal clock should be accepted, got %v", err)
	}
}

func TestFirstEventCannotRegress(t *testing.T) {
	view := simpleView() // HasClock false
	if _, err := Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "B", "C", "D", "E"), view); err != nil {
		t.Fatalf("first event should be accepted, got %v", err)
	}
}

func TestDuplicateEventRejected(t *testing.T) {
	view := simpleView()
	view.Seen = func(id string) bool { return id == "dup" }

	ev := lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "B", "C", "D", "E")
	ev.ID = "dup"
	_, err := Event(ev, view)
	rej, ok := domain.AsRejection(err)
	if !ok || rej.Reason != domain.RejectDuplicateEvent {
		t.Fatalf("expected DUPLICATE_EVENT, got %v", err)
	}
}

func TestLineupSizeRejected(t *testing.T) {
	_, err := Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "B", "C", "D"), simpleView())
	rej, ok := domain.AsRejection(err)
	if !ok || rej.Reason != domain.RejectInvalidLineupSize {
		t.Fatalf("expected INVALID_LINEUP_SIZE, got %v", err)
	}

	_, err = Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "A", "B", "C", "D"), simpleView())
	if rej, ok := domain.AsRejection(err); !ok || rej.Reason != domain.RejectInvalidLineupSize {
		t.Fatalf("expected duplicate player to fail lineup size, got %v", err)
	}
}

func TestUnknownPlayerRejected(t *testing.T) {
	_, err := Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "A", "B", "C", "D", "Z"), simpleView())
	rej, ok := domain.AsRejection(err)
	if !ok || rej.Reason != domain.RejectUnknownPlayer {
		t.Fatalf("expected UNKNOWN_PLAYER, got %v", err)
	}
}

func TestLineupNormalizedToSetOrder(t *testing.T) {
	ev, err := Event(lineupEvent(domain.GameClock{Quarter: 1, Elapsed: 0}, "E", "D", "C", "B", "A"), simpleView())
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if !ev.Lineup.Equal(domain.NewLineup("A", "B", "C", "D", "E")) {
		t.Fatalf("expected canonical lineup, got %v", ev.Lineup)
	}
}

func TestModelMismatchBothDirections(t *testing.T) {
	simple := domain.Event{
		Type:       domain.EventPossession,
		Clock:      domain.GameClock{Quarter: 1, Elapsed: 0},
		Possession: &domain.PossessionPayload{Outcome: domain.OutcomeGood},
	}
	detailed := domain.Event{
		Type:     domain.EventDetailedPossession,
		Clock:    domain.GameClock{Quarter: 1, Elapsed: 0},
		Detailed: &domain.DetailedPossessionPayload{Outcome: domain.OutcomeGood},
	}

	detailedView := simpleView()
	detailedView.Model = domain.ModelDetailed
	if _, err := Event(simple, detailedView); err == nil {
		t.Fatalf("expected simple possession on detailed game to be rejected")
	} else if rej, _ := domain.AsRejection(err); rej.Reason != domain.RejectModelMismatch {
		t.Fatalf("expected MODEL_MISMATCH, got %v", err)
	}

	if _, err := Event(detailed, simpleView()); err == nil {
		t.Fatalf("expected detailed possession on simple game to be rejected")
	} else if rej, _ := domain.AsRejection(err); rej.Reason != domain.RejectModelMismatch {
		t.Fatalf("expected MODEL_MISMATCH, got %v", err)
	}
}

func TestScoreMustCarryPoints(t *testing.T) {
	ev := domain.Event{
		Type:  domain.EventScore,
		Clock: domain.GameClock{Quarter: 1, Elapsed: 0},
		Score: &domain.ScorePayload{Points: 0, ForTeam: true},
	}
	_, err := Event(ev, simpleView())
	rej, ok := domain.AsRejection(err)
	if !ok || rej.Reason != domain.RejectMalformedEvent {
		t.Fatalf("expected MALFORMED_EVENT, got %v", err)
	}
}

func TestStatValidation(t *testing.T) {
	view := simpleView()

	ok := domain.Event{
		Type:  domain.EventStat,
		Clock: domain.GameClock{Quarter: 1, Elapsed: 0},
		Stat:  &domain.StatPayload{PlayerID: "A", Kind: domain.StatSteal},
	}
	if _, err := Event(ok, view); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}

	unknown := ok
	unknown.Stat = &domain.StatPayload{PlayerID: "Z", Kind: domain.StatSteal}
	if _, err := Event(unknown, view); err == nil {
		t.Fatalf("expected unknown player rejection")
	}

	badKind := ok
	badKind.Stat = &domain.StatPayload{PlayerID: "A", Kind: "DUNKS"}
	if _, err := Event(badKind, view); err == nil {
		t.Fatalf("expected unknown stat kind rejection")
	}
}

func TestCorrectionMustReferenceStatEvent(t *testing.T) {
	view := simpleView()
	view.CorrectedStat = func(id string) (domain.StatPayload, bool) {
		if id == "ev-1" {
			return domain.StatPayload{PlayerID: "A", Kind: domain.StatFoul}, true
		}
		return domain.StatPayload{}, false
	}

	good := domain.Event{
		Type:       domain.EventCorrection,
		Clock:      domain.GameClock{Quarter: 1, Elapsed: 30},
		Correction: &domain.CorrectionPayload{Of: "ev-1"},
	}
	if _, err := Event(good, view); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}

	bad := good
	bad.Correction = &domain.CorrectionPayload{Of: "ev-404"}
	if _, err := Event(bad, view); err == nil {
		t.Fatalf("expected unknown correction target to be rejected")
	}
}

func TestMissingPayloadRejected(t *testing.T) {
	for _, typ := range []domain.EventType{
		domain.EventPossession, domain.EventDetailedPossession,
		domain.EventShot, domain.EventScore, domain.EventStat, domain.EventCorrection,
	} {
		view := simpleView()
		view.Model = domain.ModelDetailed
		if typ == domain.EventPossession {
			view.Model = domain.ModelSimple
		}
		_, err := Event(domain.Event{Type: typ, Clock: domain.GameClock{Quarter: 1, Elapsed: 0}}, view)
		rej, ok := domain.AsRejection(err)
		if !ok || rej.Reason != domain.RejectMalformedEvent {
			t.Fatalf("%s: expected MALFORMED_EVENT for missing payload, got %v", typ, err)
		}
	}
}
