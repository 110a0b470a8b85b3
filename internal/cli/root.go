// Package cli provides the command-line interface for gregodump.
package cli

import (
	"fmt"
	"os"

	"github.com/cantus-labs/gregodump/internal/cli/commands"
	"github.com/cantus-labs/gregodump/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gregodump",
		Short: "gregodump - GregoBase SQL dump extraction",
		Long: `gregodump parses a GregoBase MySQL dump and re-projects its tables
into per-table CSV files and a unified chants.jsonl stream, where each chant
carries its source citations inline.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gregodump.yaml)")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to the SQL dump")
	rootCmd.PersistentFlags().StringP("out-dir", "o", "", "Output directory for per-table CSVs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewExtractCommand(),
		commands.NewUnifyCommand(),
		commands.NewRunCommand(),
		commands.NewTablesCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
