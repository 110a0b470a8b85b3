// Package unify joins the normalized chant, source, and chant-source tables
// into one denormalized record per chant.
package unify

import (
	"fmt"

	"github.com/cantus-labs/gregodump/internal/dump"
)

// Keys names the join columns. GregoBase uses "id" primary keys and a link
// table whose foreign keys are chant_id and source.
type Keys struct {
	ChantID    string // primary key of the chants table
	SourceID   string // primary key of the sources table
	LinkChant  string // link-table column referencing a chant
	LinkSource string // link-table column referencing a source
}

// DefaultKeys returns the GregoBase column names.
func DefaultKeys() Keys {
	return Keys{
		ChantID:    "id",
		SourceID:   "id",
		LinkChant:  "chant_id",
		LinkSource: "source",
	}
}

// Entity is one unified chant: its own scalar fields plus the ordered
// embedded source entries resolved through the link table.
type Entity struct {
	Chant   dump.Record
	Sources []dump.Record
}

// Report counts what the unifier saw and what it had to drop.
type Report struct {
	Entities        int
	Links           int
	DanglingChants  int // links referencing a chant id absent from the chants table
	DanglingSources int // links referencing a source id absent from the sources table
}

// Dangling is the total number of omitted link entries.
func (r Report) Dangling() int {
	return r.DanglingChants + r.DanglingSources
}

// Result is the unifier's output: entities in chant dataset order, the column
// orders the writers need for deterministic output, and the anomaly report.
type Result struct {
	Entities      []Entity
	ChantColumns  []string
	SourceColumns []string // field order of an embedded source entry
	Report        Report
}

// Unify joins the three datasets with the default GregoBase keys.
func Unify(chants, sources, links *dump.Dataset) (*Result, error) {
	return UnifyWithKeys(chants, sources, links, DefaultKeys())
}

// UnifyWithKeys joins the three datasets.
//
// Entities come out in chant dataset order; each entity's source entries come
// out in link dataset order, which encodes citation order. A link referencing
// a missing chant or source is omitted and counted, never fatal: large dump
// exports are expected to be slightly imperfect. The only errors are
// structural, a join column missing from a schema entirely.
func UnifyWithKeys(chants, sources, links *dump.Dataset, keys Keys) (*Result, error) {
	if err := requireColumn(chants.Schema, keys.ChantID); err != nil {
		return nil, err
	}
	if err := requireColumn(sources.Schema, keys.SourceID); err != nil {
		return nil, err
	}
	for _, col := range []string{keys.LinkChant, keys.LinkSource} {
		if err := requireColumn(links.Schema, col); err != nil {
			return nil, err
		}
	}

	res := &Result{
		ChantColumns:  chants.Schema.Columns,
		SourceColumns: entryColumns(sources.Schema, links.Schema, keys),
	}

	// Source id -> source record.
	sourceByID := make(map[string]dump.Record, len(sources.Records))
	for _, s := range sources.Records {
		sourceByID[keyString(s[keys.SourceID])] = s
	}

	chantIDs := make(map[string]bool, len(chants.Records))
	for _, c := range chants.Records {
		chantIDs[keyString(c[keys.ChantID])] = true
	}

	// Chant id -> embedded entries, preserving link insertion order.
	entriesByChant := make(map[string][]dump.Record)
	for _, link := range links.Records {
		res.Report.Links++

		chantKey := keyString(link[keys.LinkChant])
		if !chantIDs[chantKey] {
			res.Report.DanglingChants++
			continue
		}

		src, ok := sourceByID[keyString(link[keys.LinkSource])]
		if !ok {
			res.Report.DanglingSources++
			continue
		}

		entriesByChant[chantKey] = append(entriesByChant[chantKey], buildEntry(link, src, keys))
	}

	res.Entities = make([]Entity, 0, len(chants.Records))
	for _, c := range chants.Records {
		res.Entities = append(res.Entities, Entity{
			Chant:   c,
			Sources: entriesByChant[keyString(c[keys.ChantID])],
		})
	}
	res.Report.Entities = len(res.Entities)

	return res, nil
}

// entryColumns fixes the field order of an embedded source entry: the source
// id first, then the link table's own fields (page, sequence, extent), then
// the source's remaining fields.
func entryColumns(sources, links *dump.Schema, keys Keys) []string {
	cols := []string{keys.SourceID}
	seen := map[string]bool{keys.SourceID: true}
	for _, c := range links.Columns {
		if c != keys.LinkChant && c != keys.LinkSource && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, c := range sources.Columns {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// buildEntry flattens one link record and its resolved source into a single
// embedded entry.
func buildEntry(link, src dump.Record, keys Keys) dump.Record {
	entry := make(dump.Record, len(link)+len(src))
	entry[keys.SourceID] = link[keys.LinkSource]
	for col, v := range link {
		if col != keys.LinkChant && col != keys.LinkSource {
			entry[col] = v
		}
	}
	for col, v := range src {
		if col == keys.SourceID {
			continue
		}
		if _, taken := entry[col]; !taken {
			entry[col] = v
		}
	}
	return entry
}

func requireColumn(s *dump.Schema, name string) error {
	for _, c := range s.Columns {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("table %q has no column %q", s.Table, name)
}

// keyString canonicalizes a join value. The dump path decodes ids as int64
// while the CSV re-load path yields strings; both must hit the same index
// slot.
func keyString(v dump.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
