package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/cli"
)

// CommandResult holds what a command wrote to each stream
type CommandResult struct {
	Stdout string
	Stderr string
	Err    error
}

// ExecuteCLICommand runs cmd with args against testApp. The app is injected
// through the context the same way the root command does it.
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args ...string) CommandResult {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupTestApp must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := cli.WithCLI(context.Background(), cli.New(testApp, testApp.Config(), nil))
	err := cmd.ExecuteContext(ctx)

	return CommandResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := sonic.UnmarshalString(output, &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
