package models

import "time"

// Tournament is the state container: the roster in load order plus the
// append-only sequence of rounds.
type Tournament struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Participants []*Participant `json:"participants" db:"-"`
	Rounds       []*Round       `json:"rounds" db:"-"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// CurrentRound returns the last round or nil before seeding.
func (t *Tournament) CurrentRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1]
}

func (t *Tournament) ParticipantByID(id string) *Participant {
	for _, p := range t.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Finished reports whether the Final Table has been played and locked.
func (t *Tournament) Finished() bool {
	r := t.CurrentRound()
	return r.IsFinalTable() && r.Computed
}

// TournamentSummary is the list view of a tournament.
type TournamentSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ParticipantCount int       `json:"participant_count"`
	RoundCount       int       `json:"round_count"`
	CurrentRound     string    `json:"current_round,omitempty"`
	Finished         bool      `json:"finished"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (t *Tournament) Summary() TournamentSummary {
	s := TournamentSummary{
		ID:               t.ID,
		Name:             t.Name,
		ParticipantCount: len(t.Participants),
		RoundCount:       len(t.Rounds),
		Finished:         t.Finished(),
		UpdatedAt:        t.UpdatedAt,
	}
	if r := t.CurrentRound(); r != nil {
		s.CurrentRound = r.Name
	}
	return s
}
