package event

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	eventservice "github.com/shipnotes/shipnotes/internal/services/event"
)

// CreateCmd returns the event create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event in a status",
		Long: `Create a new changelog/roadmap event.

Examples:
  shipnotes event create --title="Dark mode" --status=Proposed
  shipnotes event create --title="v2.1" --content="## Fixes" --status=Release --json
  EVENT_ID=$(shipnotes event create --title="Search" --status=Backlogs --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("title", "", "Event title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("status", "", "Status ID or name (required)")
	if err := cmd.MarkFlagRequired("status"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags
	cmd.Flags().String("content", "", "Markdown body")

	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")
	statusRef, _ := cmd.Flags().GetString("status")

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	st, err := cli.ResolveStatus(ctx, c.App.Statuses, statusRef)
	if err != nil {
		return formatter.Fail(err)
	}

	e, err := c.App.Events.CreateEvent(ctx, eventservice.CreateEventRequest{
		Title:    title,
		Content:  content,
		StatusID: st.ID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(e)
	}

	formatter.Print(styles.Success("Event '%s' created in '%s' (ID: %d)", e.Title, st.Name, e.ID))
	return nil
}
