package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/notify"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publishers []notify.Publisher
	logger     log.FieldLogger
}

// WithPublishers adds receivers of committed changes (server metrics, the
// live change hub) next to the cache and Redis publishers.
func WithPublishers(p ...notify.Publisher) Option {
	return func(cfg *appConfig) {
		for _, pub := range p {
			if pub != nil {
				cfg.publishers = append(cfg.publishers, pub)
			}
		}
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger log.FieldLogger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
