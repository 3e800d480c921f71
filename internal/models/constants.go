package models

import (
	"fmt"
	"strings"
)

// ============================================================================
// NAME LIMITS
// ============================================================================

const (
	// MaxStatusNameLength is the maximum number of characters in a status name
	MaxStatusNameLength = 50

	// MaxEventTitleLength is the maximum number of characters in an event title
	MaxEventTitleLength = 200
)

// ============================================================================
// PLACEMENT
// ============================================================================

// Placement says on which side of the target a reordered status lands
type Placement string

const (
	PlaceBefore Placement = "before"
	PlaceAfter  Placement = "after"
)

// ParsePlacement converts user input ("before"/"after", any case) to a Placement
func ParsePlacement(s string) (Placement, error) {
	switch Placement(strings.ToLower(strings.TrimSpace(s))) {
	case PlaceBefore:
		return PlaceBefore, nil
	case PlaceAfter:
		return PlaceAfter, nil
	}
	return "", fmt.Errorf("invalid placement %q (want before or after)", s)
}

// ============================================================================
// CAPACITY POLICY
// ============================================================================

// CapacityPolicy decides what happens when a status is mapped to a
// single-status category that is already taken.
type CapacityPolicy string

const (
	// CapacityReplace unmaps the previous holder
	CapacityReplace CapacityPolicy = "replace"

	// CapacityReject refuses the new mapping
	CapacityReject CapacityPolicy = "reject"
)

// Valid reports whether p is a known policy
func (p CapacityPolicy) Valid() bool {
	return p == CapacityReplace || p == CapacityReject
}

// ============================================================================
// DEFAULT WORKFLOW
// ============================================================================

// SeedStatus describes a status inserted into an empty database
type SeedStatus struct {
	Name     string `yaml:"name"`
	Reserved bool   `yaml:"reserved"`
}

// DefaultSeedStatuses is the workflow a fresh install starts with
func DefaultSeedStatuses() []SeedStatus {
	return []SeedStatus{
		{Name: "Backlogs", Reserved: true},
		{Name: "Proposed"},
		{Name: "Release"},
		{Name: "Archived", Reserved: true},
	}
}
