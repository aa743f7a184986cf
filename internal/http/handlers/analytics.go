package handlers

import (
	"net/http"
	"sort"
	"strings"

	"hooptrack/internal/domain"
)

// FailureBreakdown summarizes how possessions fail.
type FailureBreakdown struct {
	GameID      string         `json:"gameId"`
	Possessions int            `json:"possessions"`
	Failed      int            `json:"failed"`
	FailureRate float64        `json:"failureRate"`
	ByType      map[string]int `json:"byType,omitempty"`
}

// LineupLine aggregates performance for one distinct lineup.
type LineupLine struct {
	Lineup        domain.Lineup `json:"lineup"`
	Stints        int           `json:"stints"`
	Seconds       int           `json:"seconds"`
	PointsFor     int           `json:"pointsFor"`
	PointsAgainst int           `json:"pointsAgainst"`
	PlusMinus     int           `json:"plusMinus"`
}

// ShootingLine aggregates shot attempts for one player and shot type.
type ShootingLine struct {
	PlayerID string  `json:"playerId"`
	ShotType string  `json:"shotType"`
	Attempts int     `json:"attempts"`
	Makes    int     `json:"makes"`
	Pct      float64 `json:"pct"`
}

// AnalyticsFailures breaks FAILED possessions down by failure type.
func (h *Handler) AnalyticsFailures(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	logger := loggerFromContext(r, h.logger)

	simple, err := h.gw.Possessions(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}
	detailed, err := h.gw.DetailedPossessions(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, logger)
		return
	}

	out := FailureBreakdown{GameID: gameID, ByType: make(map[string]int)}
	for _, p := range simple {
		out.Possessions++
		if p.Outcome == domain.OutcomeFailed {
			out.Failed++
			key := p.FailureType
			if key == "" {
				key = "unspecified"
			}
			out.ByType[key]++
		}
	}
	for _, d := range detailed {
		out.Possessions++
		if d.Outcome == domain.OutcomeFailed {
			out.Failed++
			out.ByType["unspecified"]++
		}
	}
	if out.Possessions > 0 {
		out.FailureRate = float64(out.Failed) / float64(out.Possessions)
	}
	if len(out.ByType) == 0 {
		out.ByType = nil
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// AnalyticsLineups aggregates stint performance per distinct lineup.
func (h *Handler) AnalyticsLineups(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	stints, err := h.gw.Stints(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}

	byKey := make(map[string]*LineupLine)
	for _, s := range stints {
		key := strings.Join(s.Lineup, "|")
		line, ok := byKey[key]
		if !ok {
			line = &LineupLine{Lineup: s.Lineup}
			byKey[key] = line
		}
		line.Stints++
		if s.Duration != nil {
			line.Seconds += *s.Duration
		}
		line.PointsFor += s.PointsFor
		line.PointsAgainst += s.PointsAgainst
		line.PlusMinus += s.PointsFor - s.PointsAgainst
	}

	lines := make([]LineupLine, 0, len(byKey))
	for _, line := range byKey {
		lines = append(lines, *line)
	}
	// Best lineups first, longest run breaking ties.
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].PlusMinus != lines[j].PlusMinus {
			return lines[i].PlusMinus > lines[j].PlusMinus
		}
		return lines[i].Seconds > lines[j].Seconds
	})
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "lineups": lines}, h.logger)
}

// AnalyticsShooting aggregates shot attempts by player and shot type.
func (h *Handler) AnalyticsShooting(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	shots, err := h.gw.Shots(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, r, err, loggerFromContext(r, h.logger))
		return
	}

	type key struct{ player, shotType string }
	byKey := make(map[key]*ShootingLine)
	for _, s := range shots {
		k := key{s.PlayerID, s.ShotType}
		line, ok := byKey[k]
		if !ok {
			line = &ShootingLine{PlayerID: s.PlayerID, ShotType: s.ShotType}
			byKey[k] = line
		}
		line.Attempts++
		if s.Made {
			line.Makes++
		}
	}

	lines := make([]ShootingLine, 0, len(byKey))
	for _, line := range byKey {
		line.Pct = float64(line.Makes) / float64(line.Attempts)
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].PlayerID != lines[j].PlayerID {
			return lines[i].PlayerID < lines[j].PlayerID
		}
		return lines[i].ShotType < lines[j].ShotType
	})
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "shooting": lines}, h.logger)
}
