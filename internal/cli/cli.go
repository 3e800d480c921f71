// Package cli holds what every shipnotes subcommand shares: the application
// container, output formatting and exit codes.
package cli

import (
	"context"
	"errors"

	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/config"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App
	Config *config.Config
	close  func() error
}

type contextKey struct{}

// ErrNoCLI is returned when a command runs without an initialized CLI
var ErrNoCLI = errors.New("cli not initialized")

// New wraps an application container. closeFn releases anything beyond the
// app itself (e.g., the log file).
func New(a *app.App, cfg *config.Config, closeFn func() error) *CLI {
	return &CLI{App: a, Config: cfg, close: closeFn}
}

// WithCLI stores c in ctx for subcommands
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the CLI stored by WithCLI
func FromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		return nil, ErrNoCLI
	}
	c, ok := ctx.Value(contextKey{}).(*CLI)
	if !ok || c == nil {
		return nil, ErrNoCLI
	}
	return c, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	var errs []error
	if c.App != nil {
		errs = append(errs, c.App.Close())
	}
	if c.close != nil {
		errs = append(errs, c.close())
	}
	return errors.Join(errs...)
}
