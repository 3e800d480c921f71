package event

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	eventservice "github.com/shipnotes/shipnotes/internal/services/event"
)

// UpdateCmd returns the event update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Edit an event's title or content",
		Long: `Edit an event. Only the flags given are changed.

Examples:
  shipnotes event update 12 --title="Dark mode (beta)"
  shipnotes event update 12 --content="" --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("content", "", "New markdown body")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	id, err := cli.ParseEventID(args[0])
	if err != nil {
		return formatter.Usage(err)
	}

	var req eventservice.UpdateEventRequest
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		req.Title = &title
	}
	if cmd.Flags().Changed("content") {
		content, _ := cmd.Flags().GetString("content")
		req.Content = &content
	}
	if req.Title == nil && req.Content == nil {
		return formatter.Usage(errors.New("nothing to update: pass --title and/or --content"))
	}

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	e, err := c.App.Events.UpdateEvent(ctx, id, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(e)
	}

	formatter.Print(styles.Success("Event %d updated", e.ID))
	return nil
}
