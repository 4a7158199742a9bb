package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/goblocks/pkg/blockdef"
	gberrors "github.com/dshills/goblocks/pkg/errors"
	"github.com/dshills/goblocks/pkg/serialize"
	"github.com/dshills/goblocks/pkg/storage"
	"github.com/dshills/goblocks/pkg/workspace"
)

// NewImportCommand creates the import command for loading workspace XML
// files into the repository
func NewImportCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <workspace.xml>",
		Short: "Import a workspace XML file into the repository",
		Long: `Import parses a workspace XML document, rebuilds the block trees through
full connection validation, and stores the document in the workspace
repository. A document that fails validation is not stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read workspace file: %w", err)
			}

			// Round-trip through a live workspace so only loadable
			// documents reach the repository.
			ws := workspace.NewWorkspace()
			ser := serialize.NewSerializer(blockdef.StandardRegistry())
			if err := ser.Load(data, ws); err != nil {
				return err
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), ".xml")
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			if err := repo.Save(&storage.SavedWorkspace{Name: name, XML: data}); err != nil {
				return gberrors.NewOperationalErrorWithAttrs("storing workspace", ws.ID(), "", err,
					map[string]interface{}{"name": name, "file": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ imported %q (%d blocks, %d root trees)\n",
				name, ws.BlockCount(), len(ws.RootBlocks()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name to store the workspace under (default: file basename)")
	return cmd
}
