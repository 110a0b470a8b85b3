package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/cantus-labs/gregodump/internal/dump"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the table schemas found in the dump",
		Example: `  # Show every table the dump defines
  gregodump tables -i raw/gregobase_online.sql

  # Include column names
  gregodump tables --columns`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(cmd)
		},
	}

	cmd.Flags().Bool("columns", false, "Show column names per table")

	return cmd
}

func runTables(cmd *cobra.Command) error {
	cfg := getConfig()
	showColumns, _ := cmd.Flags().GetBool("columns")

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}
	dumpText := strings.ToValidUTF8(string(data), "�")

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	if showColumns {
		t.AppendHeader(table.Row{"Table", "Columns", "Names"})
	} else {
		t.AppendHeader(table.Row{"Table", "Columns"})
	}

	for _, schema := range dump.Tables(dumpText) {
		if showColumns {
			t.AppendRow(table.Row{schema.Table, len(schema.Columns), strings.Join(schema.Columns, ", ")})
		} else {
			t.AppendRow(table.Row{schema.Table, len(schema.Columns)})
		}
	}
	t.Render()
	return nil
}
