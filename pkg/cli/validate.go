package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/goblocks/pkg/blockdef"
)

// NewValidateCommand creates the validate command for checking block
// definition and toolbox files
func NewValidateCommand() *cobra.Command {
	var toolboxPath string

	cmd := &cobra.Command{
		Use:   "validate <definitions.json>",
		Short: "Validate block definition and toolbox files",
		Long: `Validate checks a block definition document against the definition schema,
builds every definition, and optionally checks a YAML toolbox against the
resulting block set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read definitions: %w", err)
			}

			reg := blockdef.NewRegistry()
			if err := reg.RegisterJSON(data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d block definition(s) valid\n", args[0], len(reg.Types()))

			if toolboxPath != "" {
				tbData, err := os.ReadFile(toolboxPath)
				if err != nil {
					return fmt.Errorf("failed to read toolbox: %w", err)
				}
				tb, err := blockdef.ParseToolbox(tbData)
				if err != nil {
					return err
				}
				if err := tb.Validate(reg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: toolbox references %d block type(s)\n",
					toolboxPath, len(tb.BlockTypes()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toolboxPath, "toolbox", "", "YAML toolbox file to validate against the definitions")
	return cmd
}
