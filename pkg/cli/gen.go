package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/codegen"
	gberrors "github.com/dshills/goblocks/pkg/errors"
	"github.com/dshills/goblocks/pkg/serialize"
	"github.com/dshills/goblocks/pkg/workspace"
)

// NewGenCommand creates the gen command for generating code from a saved
// workspace
func NewGenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <name>",
		Short: "Generate code from a saved workspace",
		Long: `Gen loads a saved workspace, rebuilds its block trees, and prints the
generated code for every root tree, top-to-bottom.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			sw, err := repo.Load(args[0])
			if err != nil {
				return err
			}

			ws := workspace.NewWorkspace()
			ser := serialize.NewSerializer(blockdef.StandardRegistry())
			if err := ser.Load(sw.XML, ws); err != nil {
				return gberrors.NewOperationalError("rebuilding workspace", sw.ID, "", err)
			}

			code, err := codegen.NewGenerator().WorkspaceCode(ws)
			if err != nil {
				return gberrors.NewOperationalError("generating code", sw.ID, "", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	return cmd
}
