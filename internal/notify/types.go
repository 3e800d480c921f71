// Package notify broadcasts workflow change notifications so caches and live
// dashboards can refresh after a committed mutation.
package notify

import "time"

// ChangeType indicates what kind of change occurred
type ChangeType string

const (
	StatusCreated   ChangeType = "status_created"
	StatusRenamed   ChangeType = "status_renamed"
	StatusDeleted   ChangeType = "status_deleted"
	StatusReordered ChangeType = "status_reordered"
	MappingChanged  ChangeType = "mapping_changed"
	EventChanged    ChangeType = "event_changed"
	ThemeReloaded   ChangeType = "theme_reloaded"
)

// Change represents a committed workflow mutation
type Change struct {
	Type       ChangeType `json:"type"`
	StatusID   int        `json:"status_id,omitempty"`
	EventID    int        `json:"event_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	SequenceID int64      `json:"sequence_id"`      // Monotonically increasing per publisher
	Origin     string     `json:"origin,omitempty"` // Instance that committed the change
}
