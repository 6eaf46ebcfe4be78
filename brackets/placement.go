package brackets

import (
	"math"
	"sort"

	"github.com/Dosada05/multiplayer-tournament/models"
)

// PlacementResult is the derived standing of a single match.
type PlacementResult struct {
	Complete   bool
	Placements []*models.Competitor
}

// finisher is a ranked competitor together with the points it scored.
type finisher struct {
	competitor *models.Competitor
	points     *float64
}

func (f finisher) id() string { return f.competitor.ID() }

// IsMatchComplete reports whether every slot holding a real player has
// points. Empty and BYE slots never block completion.
func IsMatchComplete(m *models.Match) bool {
	for _, s := range m.Slots {
		if s.Scorable() && s.Points == nil {
			return false
		}
	}
	return true
}

// ComputePlacements ranks a match by points desc, then name, then id.
// Empty slots are dropped, BYEs always rank last. It does not modify m.
func ComputePlacements(m *models.Match) PlacementResult {
	if !IsMatchComplete(m) {
		return PlacementResult{}
	}
	ranked := rankMatch(m)
	placements := make([]*models.Competitor, len(ranked))
	for i, f := range ranked {
		placements[i] = f.competitor
	}
	return PlacementResult{Complete: true, Placements: placements}
}

// UpdatePlacements stores the result of ComputePlacements on the match and
// returns the new completeness flag.
func UpdatePlacements(m *models.Match) bool {
	res := ComputePlacements(m)
	m.Complete = res.Complete
	m.Placements = res.Placements
	return res.Complete
}

func rankMatch(m *models.Match) []finisher {
	out := make([]finisher, 0, len(m.Slots))
	for _, s := range m.Slots {
		if s.IsEmpty() {
			continue
		}
		f := finisher{competitor: s.Competitor}
		if s.Scorable() {
			f.points = s.Points
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	return out
}

func sortValue(f finisher) float64 {
	if f.competitor.IsBye() || f.points == nil {
		return math.Inf(-1)
	}
	return *f.points
}

// better is the total order used everywhere a ranking is needed.
func better(a, b finisher) bool {
	pa, pb := sortValue(a), sortValue(b)
	if pa != pb {
		return pa > pb
	}
	if na, nb := a.competitor.Name(), b.competitor.Name(); na != nb {
		return na < nb
	}
	return a.id() < b.id()
}

func sortFinishers(in []finisher) []finisher {
	out := make([]finisher, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	return out
}
