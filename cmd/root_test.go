package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnotes/shipnotes/internal/cli"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body += "\nlog:\n  level: warn\n  file: " + filepath.Join(dir, "shipnotes.log") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestRoot_RunsSubcommandWithConfig(t *testing.T) {
	path := writeConfig(t, `database:
  path: ":memory:"
workflow:
  seed:
    - name: Todo
    - name: Done
      reserved: true
`)

	stdout, _, err := execute(t, "--config", path, "status", "list", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", stdout)
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "workflow:\n  capacity_policy: sometimes\n")

	_, stderr, err := execute(t, "--config", path, "status", "list")
	require.Error(t, err)
	assert.Equal(t, cli.ExitDataErr, cli.ExitCode(err))
	assert.Contains(t, stderr, "capacity_policy")
}

func TestRoot_UnknownFlagIsUsageError(t *testing.T) {
	path := writeConfig(t, "database:\n  path: \":memory:\"\n")

	_, stderr, err := execute(t, "--config", path, "status", "list", "--bogus")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.Contains(t, stderr, "unknown flag: --bogus")
}

func TestRoot_CommandTree(t *testing.T) {
	root := NewRootCmd()
	for _, path := range [][]string{
		{"status", "list"},
		{"status", "move"},
		{"status", "map"},
		{"event", "create"},
		{"event", "move"},
		{"columns"},
		{"category", "list"},
		{"serve"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name(), path)
	}
}
