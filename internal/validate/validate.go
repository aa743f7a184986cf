// Package validate checks a single raw event against the game's current
// known state before anything downstream sees it. Validation is
// side-effect-free: a rejection mutates nothing and is never retried
// automatically.
package validate

import (
	"github.com/google/uuid"

	"hooptrack/internal/domain"
)

// View is the slice of game state the validator needs. The engine builds it
// per event; the validator never touches engine state directly.
type View struct {
	// Clock is the last committed clock; only meaningful when HasClock.
	Clock    domain.GameClock
	HasClock bool
	Model    domain.PossessionModel
	Roster   map[string]struct{}
	// Seen reports whether an event ID has already been committed.
	Seen func(id string) bool
	// CorrectedStat resolves a committed STAT event by ID for corrections.
	CorrectedStat func(id string) (domain.StatPayload, bool)
}

// Event validates and normalizes a raw event. On success the returned event
// has a non-empty ID and canonical lineup ordering; on failure the error is
// a *domain.RejectionError carrying the specific reason.
func Event(ev domain.Event, view View) (domain.Event, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	} else if view.Seen != nil && view.Seen(ev.ID) {
		return domain.Event{}, domain.Reject(domain.RejectDuplicateEvent, "event %s already committed", ev.ID)
	}

	if ev.Clock.Quarter < 1 || ev.Clock.Elapsed < 0 {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "invalid clock %s", ev.Clock)
	}
	if view.HasClock && ev.Clock.Before(view.Clock) {
		return domain.Event{}, domain.Reject(domain.RejectClockRegression,
			"event at %s after committed event at %s", ev.Clock, view.Clock)
	}

	switch ev.Type {
	case domain.EventLineup:
		return validateLineup(ev, view)
	case domain.EventPossession:
		return validatePossession(ev, view)
	case domain.EventDetailedPossession:
		return validateDetailed(ev, view)
	case domain.EventShot:
		return validateShot(ev, view)
	case domain.EventScore:
		return validateScore(ev)
	case domain.EventStat:
		return validateStat(ev, view)
	case domain.EventCorrection:
		return validateCorrection(ev, view)
	default:
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "unknown event type %q", ev.Type)
	}
}

func validateLineup(ev domain.Event, view View) (domain.Event, error) {
	lineup := domain.NewLineup(ev.Lineup...)
	if !lineup.Valid() {
		return domain.Event{}, domain.Reject(domain.RejectInvalidLineupSize,
			"lineup must have %d distinct players, got %d", domain.LineupSize, len(ev.Lineup))
	}
	for _, p := range lineup {
		if !rostered(view, p) {
			return domain.Event{}, domain.Reject(domain.RejectUnknownPlayer, "player %s not on roster", p)
		}
	}
	ev.Lineup = lineup
	return ev, nil
}

func validatePossession(ev domain.Event, view View) (domain.Event, error) {
	if ev.Possession == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "POSSESSION event missing payload")
	}
	if view.Model != domain.ModelSimple {
		return domain.Event{}, domain.Reject(domain.RejectModelMismatch,
			"simple possession submitted to %s-model game", view.Model)
	}
	if !validOutcome(ev.Possession.Outcome) {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "unknown outcome %q", ev.Possession.Outcome)
	}
	return ev, nil
}

func validateDetailed(ev domain.Event, view View) (domain.Event, error) {
	if ev.Detailed == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "DETAILED_POSSESSION event missing payload")
	}
	if view.Model != domain.ModelDetailed {
		return domain.Event{}, domain.Reject(domain.RejectModelMismatch,
			"detailed possession submitted to %s-model game", view.Model)
	}
	if !validOutcome(ev.Detailed.Outcome) {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "unknown outcome %q", ev.Detailed.Outcome)
	}
	if ev.Detailed.PointsScored < 0 {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "negative points scored")
	}
	if ev.Detailed.ShooterID != "" && !rostered(view, ev.Detailed.ShooterID) {
		return domain.Event{}, domain.Reject(domain.RejectUnknownPlayer, "shooter %s not on roster", ev.Detailed.ShooterID)
	}
	return ev, nil
}

func validateShot(ev domain.Event, view View) (domain.Event, error) {
	if ev.Shot == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "SHOT event missing payload")
	}
	if !rostered(view, ev.Shot.PlayerID) {
		return domain.Event{}, domain.Reject(domain.RejectUnknownPlayer, "shooter %s not on roster", ev.Shot.PlayerID)
	}
	return ev, nil
}

func validateScore(ev domain.Event) (domain.Event, error) {
	if ev.Score == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "SCORE event missing payload")
	}
	if ev.Score.Points <= 0 {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "score must carry positive points")
	}
	return ev, nil
}

func validateStat(ev domain.Event, view View) (domain.Event, error) {
	if ev.Stat == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "STAT event missing payload")
	}
	if !validStatKind(ev.Stat.Kind) {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "unknown stat kind %q", ev.Stat.Kind)
	}
	if !rostered(view, ev.Stat.PlayerID) {
		return domain.Event{}, domain.Reject(domain.RejectUnknownPlayer, "player %s not on roster", ev.Stat.PlayerID)
	}
	return ev, nil
}

func validateCorrection(ev domain.Event, view View) (domain.Event, error) {
	if ev.Correction == nil || ev.Correction.Of == "" {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "CORRECTION event must reference an event")
	}
	if view.CorrectedStat == nil {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent, "corrections are not supported here")
	}
	if _, ok := view.CorrectedStat(ev.Correction.Of); !ok {
		return domain.Event{}, domain.Reject(domain.RejectMalformedEvent,
			"correction references unknown or non-stat event %s", ev.Correction.Of)
	}
	return ev, nil
}

func rostered(view View, player string) bool {
	if player == "" {
		return false
	}
	_, ok := view.Roster[player]
	return ok
}

func validOutcome(o domain.Outcome) bool {
	switch o {
	case domain.OutcomeGood, domain.OutcomeNeutral, domain.OutcomeFailed:
		return true
	}
	return false
}

func validStatKind(k domain.StatKind) bool {
	switch k {
	case domain.StatAssist, domain.StatReboundOffensive, domain.StatReboundDefensive,
		domain.StatTurnover, domain.StatSteal, domain.StatBlock, domain.StatFoul:
		return true
	}
	return false
}
