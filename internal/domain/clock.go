package domain

import "fmt"

// GameClock locates a moment inside a game: quarter number plus seconds
// elapsed within that quarter. Elapsed resets to zero on quarter changes.
type GameClock struct {
	Quarter int `json:"quarter"`
	Elapsed int `json:"elapsed"`
}

// Before reports whether c is strictly earlier than other.
func (c GameClock) Before(other GameClock) bool {
	if c.Quarter != other.Quarter {
		return c.Quarter < other.Quarter
	}
	return c.Elapsed < other.Elapsed
}

// Absolute converts the clock to seconds since tip-off given a fixed
// quarter length.
func (c GameClock) Absolute(quarterSeconds int) int {
	return (c.Quarter-1)*quarterSeconds + c.Elapsed
}

func (c GameClock) String() string {
	return fmt.Sprintf("Q%d+%ds", c.Quarter, c.Elapsed)
}
