package models

type CompetitorKind string

const (
	CompetitorPlayer CompetitorKind = "player"
	CompetitorBye    CompetitorKind = "bye"
)

// ByeName is only used for display; BYE detection always goes through Kind.
const ByeName = "BYE"

// Competitor occupies a slot. A player borrows its Participant from the
// roster, a BYE is a placeholder that never scores and never advances.
type Competitor struct {
	Kind        CompetitorKind `json:"kind"`
	Participant *Participant   `json:"participant,omitempty"`
	ByeID       string         `json:"bye_id,omitempty"`
}

func NewPlayer(p *Participant) *Competitor {
	return &Competitor{Kind: CompetitorPlayer, Participant: p}
}

func NewBye(id string) *Competitor {
	return &Competitor{Kind: CompetitorBye, ByeID: id}
}

func (c *Competitor) IsBye() bool {
	return c != nil && c.Kind == CompetitorBye
}

func (c *Competitor) IsPlayer() bool {
	return c != nil && c.Kind == CompetitorPlayer && c.Participant != nil
}

func (c *Competitor) ID() string {
	switch {
	case c == nil:
		return ""
	case c.IsBye():
		return c.ByeID
	case c.Participant != nil:
		return c.Participant.ID
	}
	return ""
}

func (c *Competitor) Name() string {
	switch {
	case c == nil:
		return ""
	case c.IsBye():
		return ByeName
	case c.Participant != nil:
		return c.Participant.Name
	}
	return ""
}
