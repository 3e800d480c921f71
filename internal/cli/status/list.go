package status

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// ListCmd returns the status list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List statuses in workflow order",
		Long: `List all statuses in workflow order.

Examples:
  # Human-readable list
  shipnotes status list

  # JSON output for agents
  shipnotes status list --json

  # Quiet mode (one ID per line)
  shipnotes status list --quiet
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	statuses, err := c.App.Statuses.ListStatuses(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(statuses)
	}

	if len(statuses) == 0 {
		formatter.Print("No statuses found")
		return nil
	}
	formatter.Print(styles.TitleStyle.Render("Statuses:"))
	for _, s := range statuses {
		formatter.Print("  " + styles.RenderStatus(s))
	}
	return nil
}
