package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedSnapshot = errors.New("malformed tournament snapshot")

// Snapshot is the flat export/import format of a tournament.
type Snapshot struct {
	Participants []*Participant `json:"participants"`
	Rounds       []*Round       `json:"rounds"`
}

func (t *Tournament) Snapshot() *Snapshot {
	s := &Snapshot{Participants: t.Participants, Rounds: t.Rounds}
	if s.Participants == nil {
		s.Participants = []*Participant{}
	}
	if s.Rounds == nil {
		s.Rounds = []*Round{}
	}
	return s
}

// Restore replaces the roster and rounds with the snapshot contents.
func (t *Tournament) Restore(s *Snapshot) {
	t.Participants = s.Participants
	t.Rounds = s.Rounds
}

// ParseSnapshot decodes and validates an exported snapshot. Both top-level
// fields must be present and be arrays.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	for _, key := range []string{"participants", "rounds"} {
		value, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformedSnapshot, key)
		}
		if !isJSONArray(value) {
			return nil, fmt.Errorf("%w: %q is not an array", ErrMalformedSnapshot, key)
		}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.Relink()
	return &s, nil
}

func isJSONArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}

func (s *Snapshot) validate() error {
	roster := make(map[string]bool, len(s.Participants))
	for i, p := range s.Participants {
		if p == nil || p.ID == "" {
			return fmt.Errorf("%w: participant %d has no id", ErrMalformedSnapshot, i)
		}
		roster[p.ID] = true
	}
	for i, r := range s.Rounds {
		if r == nil {
			return fmt.Errorf("%w: round %d is null", ErrMalformedSnapshot, i)
		}
		for j, m := range r.Matches {
			if m == nil {
				return fmt.Errorf("%w: round %d match %d is null", ErrMalformedSnapshot, i, j)
			}
			for k, slot := range m.Slots {
				if slot == nil {
					m.Slots[k] = &Slot{}
					continue
				}
				if slot.Competitor == nil {
					continue
				}
				if err := checkCompetitor(slot.Competitor, roster); err != nil {
					return fmt.Errorf("%w: round %d match %d slot %d: %v", ErrMalformedSnapshot, i, j, k, err)
				}
			}
			for k, c := range m.Placements {
				if c == nil {
					return fmt.Errorf("%w: round %d match %d placement %d is null", ErrMalformedSnapshot, i, j, k)
				}
				if err := checkCompetitor(c, roster); err != nil {
					return fmt.Errorf("%w: round %d match %d placement %d: %v", ErrMalformedSnapshot, i, j, k, err)
				}
			}
		}
	}
	return nil
}

func checkCompetitor(c *Competitor, roster map[string]bool) error {
	switch c.Kind {
	case CompetitorBye:
		return nil
	case CompetitorPlayer:
		if c.Participant == nil {
			return errors.New("player without participant")
		}
		if !roster[c.Participant.ID] {
			return fmt.Errorf("participant %q is not on the roster", c.Participant.ID)
		}
		return nil
	}
	return fmt.Errorf("unknown competitor kind %q", c.Kind)
}

// Relink points every player competitor back at the roster entry with the
// same id, so slots borrow participants instead of holding decoded copies.
func (s *Snapshot) Relink() {
	byID := make(map[string]*Participant, len(s.Participants))
	for _, p := range s.Participants {
		byID[p.ID] = p
	}
	relink := func(c *Competitor) {
		if c == nil || c.Kind != CompetitorPlayer || c.Participant == nil {
			return
		}
		if p, ok := byID[c.Participant.ID]; ok {
			c.Participant = p
		}
	}
	for _, r := range s.Rounds {
		for _, m := range r.Matches {
			for _, slot := range m.Slots {
				relink(slot.Competitor)
			}
			for _, c := range m.Placements {
				relink(c)
			}
		}
	}
}
