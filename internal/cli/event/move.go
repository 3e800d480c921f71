package event

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// MoveCmd returns the event move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <event-id> <status>",
		Short: "Move an event to another status",
		Long: `Move an event to any status. There are no transition rules: events may move
forward, backward or skip statuses.

Examples:
  shipnotes event move 12 Release
  shipnotes event move 12 3 --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runMove,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id, err := cli.ParseEventID(args[0])
	if err != nil {
		return formatter.Usage(err)
	}

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	st, err := cli.ResolveStatus(ctx, c.App.Statuses, args[1])
	if err != nil {
		return formatter.Fail(err)
	}

	e, err := c.App.Events.MoveEvent(ctx, id, st.ID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(e)
	}

	formatter.Print(styles.Success("Event '%s' moved to '%s'", e.Title, st.Name))
	return nil
}
