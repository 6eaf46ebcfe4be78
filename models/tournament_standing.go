package models

// Standing is one line of the final ranking.
type Standing struct {
	Place       int          `json:"place"`
	Participant *Participant `json:"participant"`
	Points      *float64     `json:"points,omitempty"`
}

type TournamentStandings struct {
	TournamentID string       `json:"tournament_id"`
	Finished     bool         `json:"finished"`
	Champion     *Participant `json:"champion,omitempty"`
	FinalTable   []Standing   `json:"final_table"`
}
