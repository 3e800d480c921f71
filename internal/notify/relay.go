package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Relay forwards changes received from a shared channel to dst until changes
// is closed or ctx is done. Changes stamped with skipOrigin were committed by
// this instance and already delivered locally, so they are dropped.
func Relay(ctx context.Context, changes <-chan Change, skipOrigin string, dst Publisher, logger log.FieldLogger) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if skipOrigin != "" && change.Origin == skipOrigin {
				continue
			}
			if err := dst.Publish(ctx, change); err != nil {
				logger.WithError(err).WithFields(log.Fields{
					"change_type": change.Type,
					"origin":      change.Origin,
				}).Warn("relaying remote change failed")
			}
		}
	}
}
