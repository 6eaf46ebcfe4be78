package brackets

import (
	"fmt"

	"github.com/Dosada05/multiplayer-tournament/models"
)

const (
	minGroupSize = 4
	maxGroupSize = 5
)

// GroupCount picks how many matches n players are split into. When groups
// of 4 and 5 can tile n it prefers more, smaller groups; otherwise it falls
// back to ceil(n/4) and leaves an undersized group for the caller to pad.
func GroupCount(n int) int {
	if n <= 0 {
		return 0
	}
	fewest := (n + maxGroupSize - 1) / maxGroupSize
	most := n / minGroupSize
	if fewest <= most {
		return most
	}
	return (n + minGroupSize - 1) / minGroupSize
}

// DistributeIntoGroups cuts players into GroupCount contiguous slices. The
// first n mod m groups get one extra member. Input order is preserved.
func DistributeIntoGroups[T any](players []T) [][]T {
	n := len(players)
	m := GroupCount(n)
	if m == 0 {
		return nil
	}

	base, extra := n/m, n%m
	groups := make([][]T, 0, m)
	start := 0
	for i := 0; i < m; i++ {
		size := base
		if i < extra {
			size++
		}
		group := make([]T, size)
		copy(group, players[start:start+size])
		groups = append(groups, group)
		start += size
	}
	return groups
}

// SeedFirstRound builds "Round 1" from the roster in load order. Groups
// below four players are padded with BYEs.
func SeedFirstRound(roster []*models.Participant) (*models.Round, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	round := &models.Round{ID: roundID(1), Name: models.RoundName(1)}
	for i, group := range DistributeIntoGroups(roster) {
		matchID := matchID(1, i+1)
		match := &models.Match{ID: matchID, Slots: make([]*models.Slot, 0, minGroupSize)}
		for _, p := range group {
			match.Slots = append(match.Slots, &models.Slot{Competitor: models.NewPlayer(p)})
		}
		for len(match.Slots) < minGroupSize {
			byeID := fmt.Sprintf("BYE-%s-%d", matchID, len(match.Slots)+1)
			match.Slots = append(match.Slots, &models.Slot{Competitor: models.NewBye(byeID)})
		}
		round.Matches = append(round.Matches, match)
	}
	return round, nil
}

func roundID(ordinal int) string {
	return fmt.Sprintf("R%d", ordinal)
}

func matchID(ordinal, order int) string {
	return fmt.Sprintf("R%dM%d", ordinal, order)
}
