// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/config"
)

// Init configures the standard logrus logger from cfg and returns it along with
// a closer for the log file (a no-op when logging to stderr).
func Init(cfg config.LogConfig) (*log.Logger, func() error, error) {
	return configure(log.StandardLogger(), cfg)
}

func configure(logger *log.Logger, cfg config.LogConfig) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	closer := func() error { return nil }
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
		closer = file.Close
	}
	logger.SetOutput(out)

	// Redirect the standard log package (net/http, echo internals) to logrus
	stdlog.SetOutput(logger.WriterLevel(log.WarnLevel))
	stdlog.SetFlags(0)

	return logger, closer, nil
}
