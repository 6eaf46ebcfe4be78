package models

// Slot is one position in a match. A nil Competitor is an empty slot
// (manual seeding only), nil Points means no score has been entered yet.
type Slot struct {
	Competitor *Competitor `json:"competitor,omitempty"`
	Points     *float64    `json:"points,omitempty"`
}

func (s *Slot) IsEmpty() bool {
	return s == nil || s.Competitor == nil
}

// Scorable reports whether the slot holds a real player that needs points.
func (s *Slot) Scorable() bool {
	return s != nil && s.Competitor.IsPlayer()
}

// Holds reports whether the slot seats the participant with the given id.
func (s *Slot) Holds(participantID string) bool {
	return s.Scorable() && s.Competitor.Participant.ID == participantID
}

type Match struct {
	ID       string  `json:"id"`
	Slots    []*Slot `json:"slots"`
	Complete bool    `json:"complete"`

	// Placements is best first; only set while Complete is true.
	Placements []*Competitor `json:"placements,omitempty"`
}

// PlayerCount is the number of non-BYE, non-empty slots.
func (m *Match) PlayerCount() int {
	n := 0
	for _, s := range m.Slots {
		if s.Scorable() {
			n++
		}
	}
	return n
}

// PointsOf returns the recorded points of the competitor with the given id.
func (m *Match) PointsOf(id string) *float64 {
	for _, s := range m.Slots {
		if !s.IsEmpty() && s.Competitor.ID() == id {
			return s.Points
		}
	}
	return nil
}
