package httpclient

type gameInfoResponse struct {
	ID       string   `json:"id"`
	TeamID   string   `json:"team_id"`
	Opponent string   `json:"opponent"`
	Date     string   `json:"date"`
	Location string   `json:"location"`
	Model    string   `json:"possession_model"`
	Roster   []string `json:"roster"`
}
