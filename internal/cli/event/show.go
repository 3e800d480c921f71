package event

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// contentWidth wraps rendered event bodies
const contentWidth = 80

// ShowCmd returns the event show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show an event with its rendered content",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	if formatter.Machine() {
		return formatter.Success(e)
	}

	statusName := ""
	if st, err := c.App.Statuses.GetStatus(ctx, e.StatusID); err == nil {
		statusName = st.Name
	}
	formatter.Print(styles.RenderEvent(e, statusName))
	formatter.Print(styles.SubtitleStyle.Render(fmt.Sprintf("%s · created %s", e.PublicID, e.CreatedAt.Format("2006-01-02 15:04"))))
	if body := styles.Markdown(e.Content, contentWidth); body != "" {
		formatter.Print("")
		formatter.Print(body)
	}
	return nil
}
