// Package export writes datasets and unified entities to their output
// formats: one CSV per table, and one JSON object per chant as JSONL.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cantus-labs/gregodump/internal/dump"
)

// WriteCSV writes the dataset as RFC 4180 CSV: header row in schema order,
// one data row per record, record order preserved.
func WriteCSV(w io.Writer, ds *dump.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Schema.Columns); err != nil {
		return err
	}
	row := make([]string, len(ds.Schema.Columns))
	for _, rec := range ds.Records {
		for i, col := range ds.Schema.Columns {
			row[i] = FormatValue(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the dataset to <dir>/<table>.csv, creating dir as
// needed, and returns the written path.
func WriteCSVFile(dir string, ds *dump.Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, ds.Schema.Table+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, ds); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}

// ReadCSV reads a per-table CSV back into a dataset. Every value comes back
// as a string, with no type recovery; the unifier joins on canonicalized
// strings so this is sufficient for the CSV-to-JSONL path.
func ReadCSV(r io.Reader, table string) (*dump.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table %q: CSV is empty", table)
	}
	if err != nil {
		return nil, err
	}

	ds := &dump.Dataset{Schema: &dump.Schema{Table: table, Columns: header}}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(dump.Record, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}
		ds.Records = append(ds.Records, rec)
	}
}

// ReadCSVFile reads <path> as the named table.
func ReadCSVFile(path, table string) (*dump.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, table)
}

// FormatValue renders one scalar for CSV output. NULL becomes the empty
// field and booleans round-trip as MySQL's 0/1.
func FormatValue(v dump.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", x)
	}
}
