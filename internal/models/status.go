package models

import "time"

// Status is a user-definable workflow column (e.g., "Proposed", "Release").
// Statuses are kept in a dense order: Position runs 0..n-1 without gaps.
type Status struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Reserved  bool      `json:"reserved"` // System-defined; cannot be deleted
	CreatedAt time.Time `json:"created_at"`
}

// GetID returns the status ID (used by the CLI quiet output mode)
func (s *Status) GetID() int {
	return s.ID
}

// CategoryMapping binds a status to a category from the active theme manifest.
// A status has at most one mapping.
type CategoryMapping struct {
	StatusID   int    `json:"status_id"`
	CategoryID string `json:"category_id"`
	Exclusive  bool   `json:"exclusive"` // Category allowed a single status when mapped
}
