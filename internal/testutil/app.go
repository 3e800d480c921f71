// Package testutil provides shared helpers for command-level tests.
package testutil

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/config"
	"github.com/shipnotes/shipnotes/internal/database"
)

// TestConfig returns the default configuration on a private in-memory database
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Path = database.MemoryPath
	return cfg
}

// SetupTestApp creates an application container with the default seed statuses
// and a discarding logger. Cleanup is automatic via t.Cleanup().
func SetupTestApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()

	if cfg == nil {
		cfg = TestConfig()
	}
	logger, _ := test.NewNullLogger()

	a, err := app.New(context.Background(), cfg, app.WithLogger(logger))
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Logf("Warning: app close error during cleanup: %v", err)
		}
	})
	return a
}
