package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/services/status"
)

// ResolveStatus finds a status by numeric ID or by exact name
func ResolveStatus(ctx context.Context, svc status.Service, ref string) (*models.Status, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return svc.GetStatus(ctx, id)
	}

	statuses, err := svc.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range statuses {
		if s.Name == ref {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w (name %q)", status.ErrStatusNotFound, ref)
}

// StatusNames maps status IDs to names for event listings
func StatusNames(ctx context.Context, svc status.Service) (map[int]string, error) {
	statuses, err := svc.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(statuses))
	for _, s := range statuses {
		names[s.ID] = s.Name
	}
	return names, nil
}

// ParseEventID parses a positional event ID argument
func ParseEventID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid event id %q", arg)
	}
	return id, nil
}
