package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/goblocks/pkg/storage"
)

const (
	// Version is the current version of GoBlocks
	Version = "1.0.0"
)

// Config holds the global configuration for the GoBlocks CLI
type Config struct {
	ConfigDir string
	Debug     bool
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command for GoBlocks
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goblocks",
		Short: "GoBlocks - Block-based visual program editing",
		Long: `GoBlocks is a headless block editor engine: a connection and drag model
for snap-together visual programs. The CLI validates block definitions,
imports and exports workspace documents, and generates code from saved
workspaces.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			if GlobalConfig.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}

			return nil
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.goblocks)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewNewCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewGenCommand())
	cmd.AddCommand(NewWorkspacesCommand())

	return cmd
}

// initConfig initializes the GoBlocks configuration directory and files
func initConfig() error {
	// Environment variable always takes priority (for testing)
	if envDir := os.Getenv("GOBLOCKS_CONFIG_DIR"); envDir != "" {
		GlobalConfig.ConfigDir = envDir
	} else if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		GlobalConfig.ConfigDir = filepath.Join(homeDir, ".goblocks")
	}

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load or create config file
	configFile := filepath.Join(GlobalConfig.ConfigDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := map[string]interface{}{
			"version": "1.0",
		}
		data, err := yaml.Marshal(defaultConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	return nil
}

// GetConfigDir returns the configuration directory path
// Priority order: 1) GOBLOCKS_CONFIG_DIR env var (for testing), 2) GlobalConfig.ConfigDir, 3) ~/.goblocks
func GetConfigDir() string {
	if envDir := os.Getenv("GOBLOCKS_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home dir cannot be determined
			return ".goblocks"
		}
		return filepath.Join(homeDir, ".goblocks")
	}
	return GlobalConfig.ConfigDir
}

// openRepository opens the workspace repository backing the CLI commands
func openRepository() (storage.Repository, error) {
	return storage.NewSQLiteRepositoryWithPath(filepath.Join(GetConfigDir(), "goblocks.db"))
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
