// Package status implements the `shipnotes status` commands.
package status

import (
	"github.com/spf13/cobra"
)

// StatusCmd returns the status parent command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage workflow statuses",
		Long: `Statuses are the ordered columns of the workflow board. Every event sits
in exactly one status, and a status can be mapped onto a category of the
public theme.

Statuses may be referenced by ID or by exact name.`,
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(MapCmd())
	cmd.AddCommand(UnmapCmd())

	return cmd
}
