package status

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	statusservice "github.com/shipnotes/shipnotes/internal/services/status"
)

// CreateCmd returns the status create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a status at the end of the workflow",
		Long: `Create a new status. It is appended after the last status.

Examples:
  # Create a status
  shipnotes status create "Beta"

  # Create and map it to a theme category in one step
  shipnotes status create "Shipped" --category=released

  # Quiet mode for bash capture
  STATUS_ID=$(shipnotes status create "QA" --quiet)
`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}

	cmd.Flags().String("category", "", "Theme category to map the status to")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	req := statusservice.CreateStatusRequest{Name: args[0]}
	if cmd.Flags().Changed("category") {
		category, _ := cmd.Flags().GetString("category")
		req.CategoryID = &category
	}

	st, err := c.App.Statuses.CreateStatus(ctx, req)
	if err != nil {
		return formatter.FailWithSuggestion(err, categorySuggestion(err))
	}

	if formatter.Machine() {
		return formatter.Success(st)
	}

	formatter.Print(styles.Success("Status '%s' created (ID: %d, position %d)", st.Name, st.ID, st.Position))
	return nil
}
