package status

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	"github.com/shipnotes/shipnotes/internal/models"
)

// MoveCmd returns the status move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <status>",
		Short: "Move a status before or after another status",
		Long: `Reorder the workflow by placing a status directly before or after another
one. Positions stay dense (0..n-1).

Examples:
  # Archived right before Proposed
  shipnotes status move Archived --before=Proposed

  # Print the new order as JSON
  shipnotes status move 4 --after=1 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("before", "", "Place the status before this status")
	cmd.Flags().String("after", "", "Place the status after this status")
	cmd.MarkFlagsMutuallyExclusive("before", "after")
	cmd.MarkFlagsOneRequired("before", "after")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	before, _ := cmd.Flags().GetString("before")
	after, _ := cmd.Flags().GetString("after")
	placement, ref := models.PlaceBefore, before
	if after != "" {
		placement, ref = models.PlaceAfter, after
	}
	if ref == "" {
		return formatter.Usage(errors.New("one of --before or --after is required"))
	}

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	st, err := cli.ResolveStatus(ctx, c.App.Statuses, args[0])
	if err != nil {
		return formatter.Fail(err)
	}
	target, err := cli.ResolveStatus(ctx, c.App.Statuses, ref)
	if err != nil {
		return formatter.Fail(err)
	}

	ordered, err := c.App.Statuses.ReorderStatus(ctx, st.ID, target.ID, placement)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(ordered)
	}

	formatter.Print(styles.Success("Status '%s' moved %s '%s'", st.Name, placement, target.Name))
	for _, s := range ordered {
		formatter.Print("  " + styles.RenderStatus(s))
	}
	return nil
}
