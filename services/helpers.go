package services

import (
	"fmt"

	"github.com/Dosada05/multiplayer-tournament/models"
)

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, interface{}) {}

func latestSnapshotKey(tournamentID string) string {
	return "tournaments/" + tournamentID + "/latest.json"
}

func locate(t *models.Tournament, ref SlotRef) (*models.Round, *models.Match, *models.Slot, error) {
	if ref.Round < 0 || ref.Round >= len(t.Rounds) {
		return nil, nil, nil, fmt.Errorf("%w: round %d", ErrIndexOutOfRange, ref.Round)
	}
	round := t.Rounds[ref.Round]
	if ref.Match < 0 || ref.Match >= len(round.Matches) {
		return nil, nil, nil, fmt.Errorf("%w: match %d", ErrIndexOutOfRange, ref.Match)
	}
	match := round.Matches[ref.Match]
	if ref.Slot < 0 || ref.Slot >= len(match.Slots) {
		return nil, nil, nil, fmt.Errorf("%w: slot %d", ErrIndexOutOfRange, ref.Slot)
	}
	return round, match, match.Slots[ref.Slot], nil
}

func findSeat(round *models.Round, participantID string) (*models.Match, *models.Slot) {
	for _, m := range round.Matches {
		for _, slot := range m.Slots {
			if slot.Holds(participantID) {
				return m, slot
			}
		}
	}
	return nil, nil
}
