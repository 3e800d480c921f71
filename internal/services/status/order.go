package status

import (
	"context"
	"fmt"

	"github.com/shipnotes/shipnotes/internal/database"
	"github.com/shipnotes/shipnotes/internal/models"
)

// indexOf returns the index of the status with id, or -1
func indexOf(statuses []*models.Status, id int) int {
	for i, s := range statuses {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// moveAdjacent returns a new slice with id placed directly before or after
// targetID. Both ids must be present and distinct.
func moveAdjacent(statuses []*models.Status, id, targetID int, placement models.Placement) []*models.Status {
	from := indexOf(statuses, id)
	moving := statuses[from]

	rest := make([]*models.Status, 0, len(statuses))
	rest = append(rest, statuses[:from]...)
	rest = append(rest, statuses[from+1:]...)

	at := indexOf(rest, targetID)
	if placement == models.PlaceAfter {
		at++
	}

	out := make([]*models.Status, 0, len(statuses))
	out = append(out, rest[:at]...)
	out = append(out, moving)
	return append(out, rest[at:]...)
}

func sameOrder(a, b []*models.Status) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// renumber assigns positions 0..n-1 following the slice order. Positions are
// parked first so no intermediate write collides with the unique index.
func renumber(ctx context.Context, q database.Querier, ordered []*models.Status) error {
	if err := q.ParkStatusPositions(ctx); err != nil {
		return fmt.Errorf("failed to park positions: %w", err)
	}
	for i, st := range ordered {
		if err := q.UpdateStatusPosition(ctx, st.ID, i); err != nil {
			return fmt.Errorf("failed to update position of status %d: %w", st.ID, err)
		}
		st.Position = i
	}
	return nil
}
