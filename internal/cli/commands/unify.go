package commands

import (
	"fmt"

	"github.com/cantus-labs/gregodump/internal/config"
	"github.com/cantus-labs/gregodump/internal/unify"
	"github.com/spf13/cobra"
)

// NewUnifyCommand creates the unify command.
func NewUnifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unify",
		Short: "Unify extracted CSVs into a chants JSONL stream",
		Long: `Unify reads the chants, sources, and chant-sources CSVs produced by
extract and writes one JSON object per chant, with the chant's source
citations embedded as an ordered array.

Links pointing at a chant or source that does not exist are dropped and
counted; the command exits non-zero when any link was dropped.`,
		Example: `  # Unify the default extract/csv tables into extract/chants.jsonl
  gregodump unify

  # Write elsewhere and gzip the result
  gregodump unify --unified temp/chants.jsonl --gzip --rm`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUnify(cmd)
		},
	}

	addUnifyFlags(cmd)

	return cmd
}

func runUnify(cmd *cobra.Command) error {
	cfg := getConfig()
	applyUnifyFlags(cmd, cfg)

	tables := config.DefaultTables()
	report, err := createPipeline(cfg).Unify(tables[0], tables[1], tables[2])
	if err != nil {
		return err
	}

	return reportUnified(cmd, cfg, report)
}

func addUnifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("unified", "u", "", "Output path for the unified JSONL")
	cmd.Flags().Bool("gzip", false, "Also gzip the output JSONL")
	cmd.Flags().Bool("rm", false, "Remove the uncompressed JSONL after gzip")
}

func applyUnifyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("unified") {
		cfg.Unified, _ = cmd.Flags().GetString("unified")
	}
	if cmd.Flags().Changed("gzip") {
		cfg.Gzip, _ = cmd.Flags().GetBool("gzip")
	}
	if cmd.Flags().Changed("rm") {
		cfg.RemoveRaw, _ = cmd.Flags().GetBool("rm")
	}
}

// reportUnified prints the unify outcome and turns dropped links into a
// non-zero exit.
func reportUnified(cmd *cobra.Command, cfg *config.Config, report *unify.Report) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d chants, %d links)\n",
		cfg.Unified, report.Entities, report.Links)
	if n := report.Dangling(); n > 0 {
		return fmt.Errorf("unification finished with %d dangling links omitted (%d missing chants, %d missing sources)",
			n, report.DanglingChants, report.DanglingSources)
	}
	return nil
}
