// Package column implements `shipnotes columns`, the board view of the workflow.
package column

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// ListCmd returns the columns command
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "columns",
		Aliases: []string{"board"},
		Short:   "Show the workflow board with event counts",
		Long: `List statuses in workflow order with the number of events each holds and
the theme category it is mapped to.

Examples:
  shipnotes columns
  shipnotes columns --json
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

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

	columns, err := c.App.Columns.ListColumns(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(columns)
	}

	if len(columns) == 0 {
		formatter.Print("No columns found")
		return nil
	}
	total := 0
	formatter.Print(styles.TitleStyle.Render("Board:"))
	for _, col := range columns {
		formatter.Print("  " + styles.RenderColumn(col))
		total += col.Count
	}
	formatter.Print(styles.SubtitleStyle.Render(pluralEvents(total)))
	return nil
}

func pluralEvents(n int) string {
	if n == 1 {
		return "1 event in total"
	}
	return fmt.Sprintf("%d events in total", n)
}
