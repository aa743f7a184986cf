package domain

// Possession is a committed simple-model possession row. Terminal once
// recorded; corrections arrive as compensating events, never as rewrites.
type Possession struct {
	ID            string `json:"id"`
	GameID        string `json:"gameId"`
	Quarter       int    `json:"quarter"`
	TimeRemaining int    `json:"timeRemaining"`
	Outcome       Outcome `json:"outcome"`
	FailureType   string `json:"failureType,omitempty"`
	Lineup        Lineup `json:"lineup"`
}

// DetailedPossession is a committed detailed-model possession row with the
// momentum value snapshotted at commit time for replay audits.
type DetailedPossession struct {
	ID              string  `json:"id"`
	GameID          string  `json:"gameId"`
	Quarter         int     `json:"quarter"`
	TimeElapsed     int     `json:"timeElapsedSeconds"`
	Lineup          Lineup  `json:"lineup"`
	Outcome         Outcome `json:"outcome"`
	BallAdvancement string  `json:"ballAdvancement,omitempty"`
	ShotQuality     string  `json:"shotQuality,omitempty"`
	ShooterID       string  `json:"shooterId,omitempty"`
	ShotType        string  `json:"shotType,omitempty"`
	ShotResult      string  `json:"shotResult,omitempty"`
	PointsScored    int     `json:"pointsScored"`
	MomentumState   int     `json:"momentumState"`
}

// Shot is a committed shot row.
type Shot struct {
	ID          string   `json:"id"`
	GameID      string   `json:"gameId"`
	PlayerID    string   `json:"playerId"`
	Quarter     int      `json:"quarter"`
	TimeElapsed int      `json:"timeElapsedSeconds"`
	ShotType    string   `json:"shotType"`
	Made        bool     `json:"made"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
}

// LineupStint is one contiguous interval with a fixed five-player lineup.
// EndTime/Duration are nil while the stint is open.
type LineupStint struct {
	ID            string `json:"id"`
	GameID        string `json:"gameId"`
	Lineup        Lineup `json:"lineup"`
	StartTime     int    `json:"startTimeSeconds"`
	EndTime       *int   `json:"endTimeSeconds,omitempty"`
	Duration      *int   `json:"durationSeconds,omitempty"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
}

// Open reports whether the stint has not been closed yet.
func (s LineupStint) Open() bool { return s.EndTime == nil }

// EnergySample is an append-only fatigue reading for one player.
type EnergySample struct {
	ID          string  `json:"id"`
	GameID      string  `json:"gameId"`
	PlayerID    string  `json:"playerId"`
	TimeElapsed int     `json:"timeElapsedSeconds"`
	EnergyLevel float64 `json:"energyLevel"`
}

// PlayerGameStat is the per-player box score row, mutated incrementally.
// All counters are monotonically non-decreasing except PlusMinus.
type PlayerGameStat struct {
	GameID            string  `json:"gameId"`
	PlayerID          string  `json:"playerId"`
	MinutesPlayed     float64 `json:"minutesPlayed"`
	Points            int     `json:"points"`
	Assists           int     `json:"assists"`
	ReboundsOffensive int     `json:"reboundsOffensive"`
	ReboundsDefensive int     `json:"reboundsDefensive"`
	Turnovers         int     `json:"turnovers"`
	Steals            int     `json:"steals"`
	Blocks            int     `json:"blocks"`
	Fouls             int     `json:"fouls"`
	PlusMinus         int     `json:"plusMinus"`
}

// RowSet is the complete derived output of one event, committed atomically:
// either every row lands or none do.
type RowSet struct {
	Possessions []Possession         `json:"possessions,omitempty"`
	Detailed    []DetailedPossession `json:"detailed,omitempty"`
	Shots       []Shot               `json:"shots,omitempty"`
	StintsClosed []LineupStint       `json:"stintsClosed,omitempty"`
	StintOpened  *LineupStint        `json:"stintOpened,omitempty"`
	Energy      []EnergySample       `json:"energy,omitempty"`
	Stats       []PlayerGameStat     `json:"stats,omitempty"`
	Game        *Game                `json:"game,omitempty"`
}

// Empty reports whether the set carries no rows at all.
func (r RowSet) Empty() bool {
	return len(r.Possessions) == 0 && len(r.Detailed) == 0 && len(r.Shots) == 0 &&
		len(r.StintsClosed) == 0 && r.StintOpened == nil && len(r.Energy) == 0 &&
		len(r.Stats) == 0 && r.Game == nil
}
