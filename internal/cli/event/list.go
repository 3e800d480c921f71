package event

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	eventservice "github.com/shipnotes/shipnotes/internal/services/event"
)

// ListCmd returns the event list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, newest first",
		Long: `List events newest first, optionally limited to one status.

Examples:
  shipnotes event list
  shipnotes event list --status=Release --json
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("status", "", "Only events in this status (ID or name)")
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

	var req eventservice.ListEventsRequest
	if ref, _ := cmd.Flags().GetString("status"); ref != "" {
		st, err := cli.ResolveStatus(ctx, c.App.Statuses, ref)
		if err != nil {
			return formatter.Fail(err)
		}
		req.StatusID = &st.ID
	}

	events, err := c.App.Events.ListEvents(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(events)
	}

	if len(events) == 0 {
		formatter.Print("No events found")
		return nil
	}
	names, err := cli.StatusNames(ctx, c.App.Statuses)
	if err != nil {
		return formatter.Fail(err)
	}
	for _, e := range events {
		formatter.Print(styles.RenderEvent(e, names[e.StatusID]))
	}
	return nil
}
