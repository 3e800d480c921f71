package status

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	statusservice "github.com/shipnotes/shipnotes/internal/services/status"
)

// DeleteCmd returns the status delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <status>",
		Short: "Delete a status",
		Long: `Delete a status. Reserved statuses and the last remaining status cannot be
deleted. A status that still holds events needs --reassign-to; its events
move there in the same transaction.

Examples:
  shipnotes status delete Beta
  shipnotes status delete Proposed --reassign-to=Backlogs
`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().String("reassign-to", "", "Status that receives the deleted status's events")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	st, err := cli.ResolveStatus(ctx, c.App.Statuses, args[0])
	if err != nil {
		return formatter.Fail(err)
	}

	var req statusservice.DeleteStatusRequest
	if ref, _ := cmd.Flags().GetString("reassign-to"); ref != "" {
		target, err := cli.ResolveStatus(ctx, c.App.Statuses, ref)
		if err != nil {
			return formatter.Fail(err)
		}
		req.ReassignTo = &target.ID
	}

	if err := c.App.Statuses.DeleteStatus(ctx, st.ID, req); err != nil {
		return formatter.FailWithSuggestion(err, suggestionFor(err))
	}

	if formatter.Machine() {
		return formatter.Success(st)
	}

	formatter.Print(styles.Success("Status '%s' deleted", st.Name))
	return nil
}

func suggestionFor(err error) string {
	if errors.Is(err, statusservice.ErrReassignRequired) {
		return "Move its events elsewhere with --reassign-to=<status>"
	}
	return ""
}
