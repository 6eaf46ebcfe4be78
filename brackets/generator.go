package brackets

import (
	"github.com/Dosada05/multiplayer-tournament/models"
)

// RoundGenerator seeds the first round from a roster and derives each
// following round from the one before it.
type RoundGenerator interface {
	FirstRound(roster []*models.Participant) (*models.Round, error)
	NextRound(prev *models.Round, roundIndex int) (*models.Round, error)

	GetName() string
}

var _ RoundGenerator = (*RoundBuilder)(nil)
