package models

import "strconv"

const (
	RoundNameSemifinal  = "Semifinal"
	RoundNameFinalTable = "Final Table"
)

// RoundName returns "Round N" for a one-based round ordinal.
func RoundName(ordinal int) string {
	return "Round " + strconv.Itoa(ordinal)
}

type Round struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Matches []*Match `json:"matches"`

	// Computed locks the standings and allows building the next round.
	Computed bool `json:"computed"`
}

func (r *Round) IsFinalTable() bool {
	return r != nil && r.Name == RoundNameFinalTable
}

func (r *Round) IsSemifinal() bool {
	return r != nil && r.Name == RoundNameSemifinal
}
