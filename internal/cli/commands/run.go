package commands

import (
	"fmt"
	"time"

	"github.com/cantus-labs/gregodump/internal/config"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"pipeline"},
		Short:   "Run the full extract and unify pipeline",
		Long: `Run parses the dump once, writes the per-table CSVs, and unifies the
three GregoBase tables into the chants JSONL stream, keeping the datasets
in memory between the two stages.`,
		Example: `  # Full pipeline with defaults
  gregodump run

  # Full pipeline with a gzipped unified stream
  gregodump run -i raw/gregobase_online.sql --gzip`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd)
		},
	}

	addUnifyFlags(cmd)

	return cmd
}

func runPipeline(cmd *cobra.Command) error {
	cfg := getConfig()
	applyUnifyFlags(cmd, cfg)
	start := time.Now()

	tables := config.DefaultTables()
	results, report, err := createPipeline(cfg).Run(tables[0], tables[1], tables[2])
	if len(results) > 0 {
		renderExtractSummary(cmd, results)
	}
	if err != nil {
		return err
	}

	rerr := reportUnified(cmd, cfg, report)
	fmt.Fprintf(cmd.OutOrStdout(), "Completed in %s\n", time.Since(start).Round(time.Millisecond))
	if rerr != nil {
		return rerr
	}

	var skipped int
	for _, res := range results {
		skipped += len(res.Skipped)
	}
	if skipped > 0 {
		return fmt.Errorf("pipeline finished with %d skipped tuples", skipped)
	}
	return nil
}
