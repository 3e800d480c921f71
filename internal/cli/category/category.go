// Package category implements the `shipnotes category` commands.
package category

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	"github.com/shipnotes/shipnotes/internal/theme"
)

// descriptionWidth wraps rendered category descriptions
const descriptionWidth = 72

// CategoryCmd returns the category parent command
func CategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Inspect theme categories",
	}

	cmd.AddCommand(ListCmd())
	return cmd
}

// ListCmd returns the category list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the categories of the active theme and their mapped statuses",
		Long: `List the categories declared by the active theme manifest, in display
order, with the statuses currently mapped to each.

Examples:
  shipnotes category list
  shipnotes category list --json
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

type categoryView struct {
	theme.Category
	Statuses []string `json:"statuses"`
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	c, err := cli.FromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	manifest := c.App.Themes.Manifest()
	mappings, err := c.App.Statuses.ListCategoryMappings(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	names, err := cli.StatusNames(ctx, c.App.Statuses)
	if err != nil {
		return formatter.Fail(err)
	}

	byCategory := make(map[string][]string)
	for _, m := range mappings {
		byCategory[m.CategoryID] = append(byCategory[m.CategoryID], names[m.StatusID])
	}

	views := []categoryView{}
	if manifest != nil {
		for _, cat := range manifest.Categories {
			statuses := byCategory[cat.ID]
			if statuses == nil {
				statuses = []string{}
			}
			views = append(views, categoryView{Category: cat, Statuses: statuses})
		}
	}

	if formatter.JSON {
		return formatter.Success(views)
	}
	if formatter.Quiet {
		for _, v := range views {
			formatter.Print(v.ID)
		}
		return nil
	}

	if len(views) == 0 {
		formatter.Print("The active theme declares no categories")
		return nil
	}
	formatter.Print(styles.TitleStyle.Render(fmt.Sprintf("Categories of theme '%s':", manifest.Name)))
	for _, v := range views {
		capacity := "multiple statuses"
		if !v.Multiple {
			capacity = "single status"
		}
		formatter.Print(fmt.Sprintf("  %s %s %s",
			styles.CategoryStyle.Render(v.ID),
			styles.NameStyle.Render(v.Label),
			styles.SubtitleStyle.Render("("+capacity+")")))
		if desc := styles.Markdown(v.Description, descriptionWidth); desc != "" {
			for _, line := range strings.Split(desc, "\n") {
				formatter.Print("      " + strings.TrimSpace(line))
			}
		}
		mapped := "none"
		if len(v.Statuses) > 0 {
			mapped = strings.Join(v.Statuses, ", ")
		}
		formatter.Print("    Statuses: " + mapped)
	}
	return nil
}
