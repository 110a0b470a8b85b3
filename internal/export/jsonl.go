package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cantus-labs/gregodump/internal/dump"
	"github.com/cantus-labs/gregodump/internal/unify"
)

// WriteJSONL writes one JSON object per unified chant. Fields follow the
// chant schema's column order with the embedded sources array last, so two
// runs over the same dump produce byte-identical output. encoding/json would
// sort map keys instead, which is why the objects are assembled by hand.
func WriteJSONL(w io.Writer, res *unify.Result) error {
	bw := bufio.NewWriter(w)
	var buf bytes.Buffer
	for i := range res.Entities {
		buf.Reset()
		if err := encodeEntity(&buf, &res.Entities[i], res); err != nil {
			return err
		}
		buf.WriteByte('\n')
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONLFile writes the unified stream to path, creating parent
// directories as needed.
func WriteJSONLFile(path string, res *unify.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSONL(f, res); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func encodeEntity(buf *bytes.Buffer, e *unify.Entity, res *unify.Result) error {
	buf.WriteByte('{')
	for _, col := range res.ChantColumns {
		if err := encodeField(buf, col, e.Chant[col]); err != nil {
			return err
		}
		buf.WriteByte(',')
	}
	buf.WriteString(`"sources":[`)
	for i, entry := range e.Sources {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeEntry(buf, entry, res.SourceColumns); err != nil {
			return err
		}
	}
	buf.WriteString("]}")
	return nil
}

func encodeEntry(buf *bytes.Buffer, entry dump.Record, cols []string) error {
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeField(buf, col, entry[col]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeField(buf *bytes.Buffer, name string, v dump.Value) error {
	if err := writeJSON(buf, name); err != nil {
		return err
	}
	buf.WriteByte(':')
	if err := writeJSON(buf, v); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return nil
}

// writeJSON marshals v into buf without HTML-escaping < > &, which incipits
// and commentary fields contain as-is.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
