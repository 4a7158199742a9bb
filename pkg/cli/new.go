package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/serialize"
	"github.com/dshills/goblocks/pkg/storage"
	"github.com/dshills/goblocks/pkg/workspace"
)

// NewNewCommand creates the new command for scaffolding an empty workspace
func NewNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty saved workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ser := serialize.NewSerializer(blockdef.StandardRegistry())
			data, err := ser.Save(workspace.NewWorkspace())
			if err != nil {
				return fmt.Errorf("failed to scaffold workspace: %w", err)
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			if err := repo.Save(&storage.SavedWorkspace{Name: args[0], XML: data}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ created empty workspace %q\n", args[0])
			return nil
		},
	}
}
