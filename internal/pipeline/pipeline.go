// Package pipeline orchestrates the two extraction passes: dump to per-table
// CSV files, and per-table datasets to the unified chants JSONL stream.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cantus-labs/gregodump/internal/dump"
	"github.com/cantus-labs/gregodump/internal/export"
	"github.com/cantus-labs/gregodump/internal/unify"
)

// Config holds pipeline configuration.
type Config struct {
	// Input is the path to the SQL dump.
	Input string
	// OutDir is the directory receiving the per-table CSV files.
	OutDir string
	// Tables are the tables to extract.
	Tables []string
	// Unified is the output path for the unified JSONL stream.
	Unified string
	// Gzip applies the gzip post-filter to the unified stream.
	Gzip bool
	// RemoveRaw deletes the uncompressed JSONL after a successful gzip.
	RemoveRaw bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Pipeline runs the extraction stages. Each stage is a single synchronous
// pass; datasets are built once and handed off immutably.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// TableResult reports one table's extraction outcome.
type TableResult struct {
	Table   string
	Rows    int
	Skipped []error // non-fatal tuple errors, in dump order
	Path    string  // written CSV path, empty when the table failed
	Err     error   // fatal for this table (schema missing, nothing parsed)
}

// Extract parses the dump and writes one CSV per configured table. Per-table
// failures land in the result slice, not the returned error, so one bad table
// does not prevent extracting the others.
func (p *Pipeline) Extract() ([]TableResult, error) {
	dumpText, err := p.readDump()
	if err != nil {
		return nil, err
	}
	results, _, err := p.extract(dumpText)
	return results, err
}

func (p *Pipeline) extract(dumpText string) ([]TableResult, map[string]*dump.Dataset, error) {
	datasets := make(map[string]*dump.Dataset, len(p.cfg.Tables))
	results := make([]TableResult, 0, len(p.cfg.Tables))
	for _, name := range p.cfg.Tables {
		res := TableResult{Table: name}

		ds, err := dump.ParseTable(dumpText, name)
		if err != nil {
			res.Err = err
			p.logger.Error("table extraction failed", "table", name, "error", err)
			results = append(results, res)
			continue
		}
		res.Rows = len(ds.Records)
		res.Skipped = ds.Errors
		for _, werr := range ds.Errors {
			p.logger.Warn("tuple skipped", "table", name, "error", werr)
		}

		path, err := export.WriteCSVFile(p.cfg.OutDir, ds)
		if err != nil {
			return results, datasets, err
		}
		res.Path = path
		p.logger.Info("table extracted", "table", name, "rows", res.Rows, "path", path)
		datasets[name] = ds
		results = append(results, res)
	}
	return results, datasets, nil
}

// Unify loads the chants, sources, and link CSVs from OutDir, joins them,
// and writes the unified stream. chants, sources, links name the three
// tables, in that order.
func (p *Pipeline) Unify(chants, sources, links string) (*unify.Report, error) {
	datasets := make([]*dump.Dataset, 3)
	for i, name := range []string{chants, sources, links} {
		path := filepath.Join(p.cfg.OutDir, name+".csv")
		ds, err := export.ReadCSVFile(path, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		p.logger.Debug("table loaded", "table", name, "rows", len(ds.Records))
		datasets[i] = ds
	}
	return p.unify(datasets[0], datasets[1], datasets[2])
}

// Run executes the full pipeline in one pass, keeping the datasets in memory
// between the extract and unify stages. chants, sources, links must be among
// the configured tables.
func (p *Pipeline) Run(chants, sources, links string) ([]TableResult, *unify.Report, error) {
	dumpText, err := p.readDump()
	if err != nil {
		return nil, nil, err
	}

	results, datasets, err := p.extract(dumpText)
	if err != nil {
		return results, nil, err
	}

	for _, name := range []string{chants, sources, links} {
		if datasets[name] == nil {
			return results, nil, fmt.Errorf("cannot unify: table %q was not extracted", name)
		}
	}

	report, err := p.unify(datasets[chants], datasets[sources], datasets[links])
	return results, report, err
}

func (p *Pipeline) unify(chants, sources, links *dump.Dataset) (*unify.Report, error) {
	res, err := unify.Unify(chants, sources, links)
	if err != nil {
		return nil, err
	}

	if err := export.WriteJSONLFile(p.cfg.Unified, res); err != nil {
		return nil, err
	}
	p.logger.Info("unified stream written",
		"path", p.cfg.Unified, "chants", res.Report.Entities, "links", res.Report.Links)

	if p.cfg.Gzip {
		gzPath, err := export.CompressFile(p.cfg.Unified, p.cfg.RemoveRaw)
		if err != nil {
			return nil, err
		}
		p.logger.Info("unified stream compressed", "path", gzPath)
	}

	if n := res.Report.Dangling(); n > 0 {
		p.logger.Warn("dangling links omitted",
			"missing_chants", res.Report.DanglingChants,
			"missing_sources", res.Report.DanglingSources)
	}
	return &res.Report, nil
}

// readDump reads the dump file as UTF-8 text. Invalid byte sequences are
// replaced rather than rejected; partially mangled exports still extract.
func (p *Pipeline) readDump() (string, error) {
	data, err := os.ReadFile(p.cfg.Input)
	if err != nil {
		return "", fmt.Errorf("failed to read dump: %w", err)
	}
	p.logger.Debug("dump loaded", "path", p.cfg.Input, "bytes", len(data))
	return strings.ToValidUTF8(string(data), "�"), nil
}
