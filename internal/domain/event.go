package domain

// EventType tags the raw event union.
type EventType string

const (
	// EventLineup reports the five players currently on court.
	EventLineup EventType = "LINEUP"
	// EventPossession records a simple-model possession outcome.
	EventPossession EventType = "POSSESSION"
	// EventDetailedPossession records a detailed-model possession.
	EventDetailedPossession EventType = "DETAILED_POSSESSION"
	// EventShot records a shot attempt for shot-chart aggregation.
	EventShot EventType = "SHOT"
	// EventScore attributes points to one side of the running score.
	EventScore EventType = "SCORE"
	// EventStat increments a single counter for one player.
	EventStat EventType = "STAT"
	// EventCorrection compensates a previously committed STAT event.
	EventCorrection EventType = "CORRECTION"
)

// Outcome classifies how a possession ended.
type Outcome string

const (
	OutcomeGood    Outcome = "GOOD"
	OutcomeNeutral Outcome = "NEUTRAL"
	OutcomeFailed  Outcome = "FAILED"
)

// StatKind names a single box-score counter.
type StatKind string

const (
	StatAssist           StatKind = "ASSIST"
	StatReboundOffensive StatKind = "REBOUND_OFFENSIVE"
	StatReboundDefensive StatKind = "REBOUND_DEFENSIVE"
	StatTurnover         StatKind = "TURNOVER"
	StatSteal            StatKind = "STEAL"
	StatBlock            StatKind = "BLOCK"
	StatFoul             StatKind = "FOUL"
)

// PossessionPayload carries a simple-model possession outcome.
type PossessionPayload struct {
	Outcome     Outcome `json:"outcome"`
	FailureType string  `json:"failureType,omitempty"`
}

// DetailedPossessionPayload carries a detailed-model possession.
type DetailedPossessionPayload struct {
	Outcome         Outcome `json:"outcome"`
	BallAdvancement string  `json:"ballAdvancement,omitempty"`
	ShotQuality     string  `json:"shotQuality,omitempty"`
	ShooterID       string  `json:"shooterId,omitempty"`
	ShotType        string  `json:"shotType,omitempty"`
	ShotResult      string  `json:"shotResult,omitempty"`
	PointsScored    int     `json:"pointsScored"`
}

// ShotPayload carries a shot attempt.
type ShotPayload struct {
	PlayerID string   `json:"playerId"`
	ShotType string   `json:"shotType"`
	Made     bool     `json:"made"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// ScorePayload attributes points to our team (ForTeam) or the opponent.
type ScorePayload struct {
	Points  int  `json:"points"`
	ForTeam bool `json:"forTeam"`
}

// StatPayload increments one counter for one player.
type StatPayload struct {
	PlayerID string   `json:"playerId"`
	Kind     StatKind `json:"kind"`
}

// CorrectionPayload compensates the STAT event with ID Of. Committed rows
// are never rewritten; the correction is appended and its reversal folded
// into the aggregates.
type CorrectionPayload struct {
	Of string `json:"of"`
}

// Event is the raw input unit. Exactly one payload matching Type is set.
// ID is the dedupe key; the validator assigns one when the caller omits it.
type Event struct {
	ID     string    `json:"id"`
	GameID string    `json:"gameId"`
	Type   EventType `json:"type"`
	Clock  GameClock `json:"clock"`

	Lineup     Lineup                     `json:"lineup,omitempty"`
	Possession *PossessionPayload         `json:"possession,omitempty"`
	Detailed   *DetailedPossessionPayload `json:"detailed,omitempty"`
	Shot       *ShotPayload               `json:"shot,omitempty"`
	Score      *ScorePayload              `json:"score,omitempty"`
	Stat       *StatPayload               `json:"stat,omitempty"`
	Correction *CorrectionPayload         `json:"correction,omitempty"`
}
