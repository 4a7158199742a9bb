package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewWorkspacesCommand creates the workspaces command group for managing
// saved workspaces
func NewWorkspacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Manage saved workspaces",
	}
	cmd.AddCommand(newWorkspacesListCommand())
	cmd.AddCommand(newWorkspacesRmCommand())
	return cmd
}

func newWorkspacesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			saved, err := repo.List()
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved workspaces")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODIFIED")
			for _, sw := range saved {
				fmt.Fprintf(w, "%s\t%s\n", sw.Name, sw.ModifiedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newWorkspacesRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			if err := repo.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted %q\n", args[0])
			return nil
		},
	}
}
