package models

import "time"

// Event is a changelog/roadmap entry. It belongs to exactly one status and may
// move freely between statuses.
type Event struct {
	ID        int       `json:"id"`
	PublicID  string    `json:"public_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	StatusID  int       `json:"status_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the event ID
func (e *Event) GetID() int {
	return e.ID
}
