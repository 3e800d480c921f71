package notify

import (
	"context"
	"errors"
)

// Fanout delivers a change to every publisher, nil entries are skipped.
// All publishers are attempted even if one fails.
type Fanout []Publisher

// Publish implements Publisher
func (f Fanout) Publish(ctx context.Context, change Change) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
