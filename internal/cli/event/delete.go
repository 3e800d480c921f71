package event

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// DeleteCmd returns the event delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	e, err := c.App.Events.GetEvent(ctx, id)
	if err != nil {
		return formatter.Fail(err)
	}
	if err := c.App.Events.DeleteEvent(ctx, id); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(e)
	}

	formatter.Print(styles.Success("Event '%s' deleted", e.Title))
	return nil
}
