package domain

// Location distinguishes home and away games.
type Location string

const (
	LocationHome Location = "HOME"
	LocationAway Location = "AWAY"
)

// PossessionModel selects which possession record shape a game uses. The
// choice is fixed at game creation by the roster service and never changes.
type PossessionModel string

const (
	// ModelSimple records only possession outcomes.
	ModelSimple PossessionModel = "SIMPLE"
	// ModelDetailed records ball advancement, shot quality and momentum.
	ModelDetailed PossessionModel = "DETAILED"
)

// Game is the canonical game row.
type Game struct {
	ID             string          `json:"id"`
	TeamID         string          `json:"teamId"`
	Date           string          `json:"date"`
	Opponent       string          `json:"opponent"`
	Location       Location        `json:"location"`
	Model          PossessionModel `json:"model"`
	FinalScoreUs   int             `json:"finalScoreUs"`
	FinalScoreThem int             `json:"finalScoreThem"`
	Completed      bool            `json:"completed"`
}

// FinalScore carries the closing score for a game.
type FinalScore struct {
	Us   int `json:"us"`
	Them int `json:"them"`
}
