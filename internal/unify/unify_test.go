package unify

import (
	"testing"

	"github.com/cantus-labs/gregodump/internal/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(table string, columns []string, rows ...dump.Record) *dump.Dataset {
	return &dump.Dataset{
		Schema:  &dump.Schema{Table: table, Columns: columns},
		Records: rows,
	}
}

func chantsDS(rows ...dump.Record) *dump.Dataset {
	return dataset("gregobase_chants", []string{"id", "incipit"}, rows...)
}

func sourcesDS(rows ...dump.Record) *dump.Dataset {
	return dataset("gregobase_sources", []string{"id", "title"}, rows...)
}

func linksDS(rows ...dump.Record) *dump.Dataset {
	return dataset("gregobase_chant_sources", []string{"chant_id", "source", "page"}, rows...)
}

func TestUnifyEmbedsSources(t *testing.T) {
	res, err := Unify(
		chantsDS(dump.Record{"id": int64(1), "incipit": "Kyrie"}),
		sourcesDS(dump.Record{"id": int64(10), "title": "A"}),
		linksDS(dump.Record{"chant_id": int64(1), "source": int64(10), "page": "3"}),
	)
	require.NoError(t, err)

	require.Len(t, res.Entities, 1)
	e := res.Entities[0]
	assert.Equal(t, int64(1), e.Chant["id"])
	require.Len(t, e.Sources, 1)
	assert.Equal(t, int64(10), e.Sources[0]["id"])
	assert.Equal(t, "A", e.Sources[0]["title"])
	assert.Equal(t, "3", e.Sources[0]["page"])

	assert.Equal(t, []string{"id", "page", "title"}, res.SourceColumns)
	assert.Equal(t, 1, res.Report.Links)
	assert.Zero(t, res.Report.Dangling())
}

func TestUnifyDanglingSourceOmitted(t *testing.T) {
	res, err := Unify(
		chantsDS(dump.Record{"id": int64(1), "incipit": "Kyrie"}),
		sourcesDS(),
		linksDS(dump.Record{"chant_id": int64(1), "source": int64(99), "page": "3"}),
	)
	require.NoError(t, err, "a dangling reference is never fatal")

	require.Len(t, res.Entities, 1)
	assert.Empty(t, res.Entities[0].Sources)
	assert.Equal(t, 1, res.Report.DanglingSources)
	assert.Equal(t, 0, res.Report.DanglingChants)
	assert.Equal(t, 1, res.Report.Dangling())
}

func TestUnifyDanglingChantOmitted(t *testing.T) {
	res, err := Unify(
		chantsDS(dump.Record{"id": int64(1), "incipit": "Kyrie"}),
		sourcesDS(dump.Record{"id": int64(10), "title": "A"}),
		linksDS(dump.Record{"chant_id": int64(77), "source": int64(10), "page": "1"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Report.DanglingChants)
	assert.Empty(t, res.Entities[0].Sources)
}

func TestUnifyPreservesOrders(t *testing.T) {
	res, err := Unify(
		chantsDS(
			dump.Record{"id": int64(2), "incipit": "Puer"},
			dump.Record{"id": int64(1), "incipit": "Kyrie"},
		),
		sourcesDS(
			dump.Record{"id": int64(10), "title": "A"},
			dump.Record{"id": int64(20), "title": "B"},
		),
		linksDS(
			dump.Record{"chant_id": int64(1), "source": int64(20), "page": "9"},
			dump.Record{"chant_id": int64(2), "source": int64(10), "page": "2"},
			dump.Record{"chant_id": int64(1), "source": int64(10), "page": "4"},
		),
	)
	require.NoError(t, err)

	// Entities follow chant dataset order, not id order.
	require.Len(t, res.Entities, 2)
	assert.Equal(t, int64(2), res.Entities[0].Chant["id"])
	assert.Equal(t, int64(1), res.Entities[1].Chant["id"])

	// A chant's sources follow link insertion order (citation order).
	kyrie := res.Entities[1]
	require.Len(t, kyrie.Sources, 2)
	assert.Equal(t, int64(20), kyrie.Sources[0]["id"])
	assert.Equal(t, int64(10), kyrie.Sources[1]["id"])
}

func TestUnifyStringAndIntKeysMatch(t *testing.T) {
	// The CSV re-load path yields string ids while the dump path yields
	// int64; both must join.
	res, err := Unify(
		chantsDS(dump.Record{"id": "1", "incipit": "Kyrie"}),
		sourcesDS(dump.Record{"id": int64(10), "title": "A"}),
		linksDS(dump.Record{"chant_id": int64(1), "source": "10", "page": "3"}),
	)
	require.NoError(t, err)

	require.Len(t, res.Entities, 1)
	require.Len(t, res.Entities[0].Sources, 1)
	assert.Equal(t, "A", res.Entities[0].Sources[0]["title"])
}

func TestUnifyMissingJoinColumnIsError(t *testing.T) {
	_, err := Unify(
		dataset("gregobase_chants", []string{"pk"}, dump.Record{"pk": int64(1)}),
		sourcesDS(),
		linksDS(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestUnifyLinkFieldWinsOverSourceField(t *testing.T) {
	res, err := UnifyWithKeys(
		chantsDS(dump.Record{"id": int64(1), "incipit": "Kyrie"}),
		dataset("gregobase_sources", []string{"id", "year"}, dump.Record{"id": int64(10), "year": int64(1961)}),
		dataset("gregobase_chant_sources", []string{"chant_id", "source", "year"},
			dump.Record{"chant_id": int64(1), "source": int64(10), "year": int64(1974)}),
		DefaultKeys(),
	)
	require.NoError(t, err)

	require.Len(t, res.Entities[0].Sources, 1)
	assert.Equal(t, int64(1974), res.Entities[0].Sources[0]["year"])
	assert.Equal(t, []string{"id", "year"}, res.SourceColumns)
}
