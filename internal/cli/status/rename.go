package status

import (
	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
)

// RenameCmd returns the status rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <status> <new-name>",
		Short: "Rename a status",
		Long: `Rename a status. Reserved statuses can be renamed.

Examples:
  shipnotes status rename Proposed "Planned"
  shipnotes status rename 2 "Planned" --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runRename,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
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
	oldName := st.Name

	st, err = c.App.Statuses.RenameStatus(ctx, st.ID, args[1])
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Machine() {
		return formatter.Success(st)
	}

	formatter.Print(styles.Success("Status '%s' renamed to '%s'", oldName, st.Name))
	return nil
}
