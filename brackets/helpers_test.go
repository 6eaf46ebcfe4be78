package brackets

import (
	"fmt"

	"github.com/Dosada05/multiplayer-tournament/models"
)

type entry struct {
	p      *models.Participant
	points *float64
}

func pts(v float64) *float64 { return &v }

func participant(id, name string) *models.Participant {
	return &models.Participant{ID: id, Name: name}
}

// roster returns n participants named P01..Pnn with ids p01..pnn.
func roster(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := range out {
		out[i] = participant(fmt.Sprintf("p%02d", i+1), fmt.Sprintf("P%02d", i+1))
	}
	return out
}

func scored(p *models.Participant, v float64) entry { return entry{p: p, points: pts(v)} }

func unscored(p *models.Participant) entry { return entry{p: p} }

// bye marks a BYE slot in a match literal.
var bye = entry{}

func match(id string, entries ...entry) *models.Match {
	m := &models.Match{ID: id}
	for i, e := range entries {
		slot := &models.Slot{Points: e.points}
		if e.p == nil {
			slot.Competitor = models.NewBye(fmt.Sprintf("BYE-%s-%d", id, i+1))
		} else {
			slot.Competitor = models.NewPlayer(e.p)
		}
		m.Slots = append(m.Slots, slot)
	}
	return m
}

func round(name string, matches ...*models.Match) *models.Round {
	return &models.Round{ID: "prev", Name: name, Matches: matches, Computed: true}
}

func slotNames(m *models.Match) []string {
	out := make([]string, len(m.Slots))
	for i, s := range m.Slots {
		out[i] = s.Competitor.Name()
	}
	return out
}

func competitorNames(cs []*models.Competitor) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}
