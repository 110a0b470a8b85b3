package commands

import (
	"log/slog"
	"os"

	"github.com/cantus-labs/gregodump/internal/config"
	"github.com/cantus-labs/gregodump/internal/pipeline"
)

// getConfig returns the loaded CLI configuration. The root command loads it
// in PersistentPreRunE before any subcommand runs; the fallback only matters
// for commands constructed in isolation (tests).
func getConfig() *config.Config {
	if cfg := config.Current(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Input:   config.DefaultInput,
		OutDir:  config.DefaultOutDir,
		Tables:  config.DefaultTables(),
		Unified: config.DefaultUnified,
	}
}

// newLogger builds the command logger. Verbose switches on debug level.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// createPipeline builds a pipeline from the CLI configuration.
func createPipeline(cfg *config.Config) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Input:     cfg.Input,
		OutDir:    cfg.OutDir,
		Tables:    cfg.Tables,
		Unified:   cfg.Unified,
		Gzip:      cfg.Gzip,
		RemoveRaw: cfg.RemoveRaw,
		Logger:    newLogger(cfg.Verbose),
	})
}
