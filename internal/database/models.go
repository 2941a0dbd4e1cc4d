package database

// MatchResult is one finished harness match.
type MatchResult struct {
	ID             string `json:"id"`
	CreatedAt      string `json:"created_at"`
	Player         string `json:"player"`
	Opponent       string `json:"opponent"`
	PlayerPoints   int    `json:"player_points"`
	OpponentPoints int    `json:"opponent_points"`
	Outcome        string `json:"outcome"`
}
