package status

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	"github.com/shipnotes/shipnotes/internal/models"
	statusservice "github.com/shipnotes/shipnotes/internal/services/status"
)

// ShowCmd returns the status show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <status>",
		Short: "Show a status with its category and event count",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

type statusDetail struct {
	*models.Status
	CategoryID *string `json:"category_id"`
	Events     int     `json:"events"`
}

func runShow(cmd *cobra.Command, args []string) error {
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

	detail := statusDetail{Status: st}
	mapping, err := c.App.Statuses.GetCategoryMapping(ctx, st.ID)
	switch {
	case err == nil:
		detail.CategoryID = &mapping.CategoryID
	case !errors.Is(err, statusservice.ErrMappingNotFound):
		return formatter.Fail(err)
	}
	if detail.Events, err = c.App.Events.CountForStatus(ctx, st.ID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(detail)
	}

	formatter.Print(styles.RenderStatus(st))
	category := "(unmapped)"
	if detail.CategoryID != nil {
		category = styles.CategoryStyle.Render(*detail.CategoryID)
		if cat, ok := c.App.Themes.Manifest().Category(*detail.CategoryID); ok {
			category += " " + styles.SubtitleStyle.Render(cat.Label)
		}
	}
	formatter.Print(fmt.Sprintf("  Category: %s", category))
	formatter.Print(fmt.Sprintf("  Events:   %d", detail.Events))
	return nil
}
