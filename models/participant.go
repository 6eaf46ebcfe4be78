package models

// Participant is a roster entry. It is created once at ingestion and never
// mutated by tournament logic.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"` // flag / avatar reference
}
