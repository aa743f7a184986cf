package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatGameTime renders seconds since tip-off as a scoreboard-style
// quarter/minute/second string, e.g. 630s with 600s quarters -> "Q2 00:30".
func FormatGameTime(absoluteSeconds, quarterSeconds int) string {
	if quarterSeconds <= 0 || absoluteSeconds < 0 {
		return "Q1 00:00"
	}
	quarter := absoluteSeconds/quarterSeconds + 1
	within := absoluteSeconds % quarterSeconds
	return fmt.Sprintf("Q%d %02d:%02d", quarter, within/60, within%60)
}

// MinutesFromSeconds converts a duration in whole seconds to fractional
// minutes for box-score minutes-played totals.
func MinutesFromSeconds(seconds int) float64 {
	return float64(seconds) / 60.0
}
