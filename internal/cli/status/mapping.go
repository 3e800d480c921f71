package status

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	"github.com/shipnotes/shipnotes/internal/models"
)

// MapCmd returns the status map subcommand
func MapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <status> <category>",
		Short: "Map a status onto a theme category",
		Long: `Map a status onto a category of the active theme manifest. A status has at
most one category; mapping again replaces it.

Categories that allow a single status either move the mapping to this status
(capacity policy "replace") or refuse it ("reject").

Examples:
  shipnotes status map Release released
  shipnotes status map Proposed upcoming --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runMap,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// UnmapCmd returns the status unmap subcommand
func UnmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmap <status>",
		Short: "Remove a status's category mapping",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnmap,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMap(cmd *cobra.Command, args []string) error {
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

	category := args[1]
	if err := c.App.Statuses.SetCategoryMapping(ctx, st.ID, &category); err != nil {
		return formatter.FailWithSuggestion(err, categorySuggestion(err))
	}
	mapping, err := c.App.Statuses.GetCategoryMapping(ctx, st.ID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(mapping)
	}

	formatter.Print(styles.Success("Status '%s' mapped to %s", st.Name, styles.CategoryStyle.Render(mapping.CategoryID)))
	return nil
}

func runUnmap(cmd *cobra.Command, args []string) error {
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

	if err := c.App.Statuses.SetCategoryMapping(ctx, st.ID, nil); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(st)
	}

	formatter.Print(styles.Success("Status '%s' unmapped", st.Name))
	return nil
}

func categorySuggestion(err error) string {
	if errors.Is(err, models.ErrUnknownCategory) {
		return "List categories with: shipnotes category list"
	}
	return ""
}
