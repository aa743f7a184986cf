package httpclient

import (
	"fmt"
	"strings"

	"hooptrack/internal/domain"
	"hooptrack/internal/roster"
)

func mapGameInfo(payload gameInfoResponse) (roster.GameInfo, error) {
	location := domain.Location(strings.ToUpper(payload.Location))
	switch location {
	case domain.LocationHome, domain.LocationAway:
	case "":
		location = domain.LocationHome
	default:
		return roster.GameInfo{}, fmt.Errorf("roster service: unknown location %q", payload.Location)
	}

	model := domain.PossessionModel(strings.ToUpper(payload.Model))
	switch model {
	case domain.ModelSimple, domain.ModelDetailed:
	case "":
		model = domain.ModelSimple
	default:
		return roster.GameInfo{}, fmt.Errorf("roster service: unknown possession model %q", payload.Model)
	}

	return roster.GameInfo{
		GameID:   payload.ID,
		TeamID:   payload.TeamID,
		Opponent: payload.Opponent,
		Date:     payload.Date,
		Location: location,
		Model:    model,
		Roster:   payload.Roster,
	}, nil
}
