package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cantus-labs/gregodump/internal/config"
	"github.com/cantus-labs/gregodump/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, dir string) *Pipeline {
	t.Helper()
	return New(Config{
		Input:   filepath.Join("testdata", "gregobase_mini.sql"),
		OutDir:  filepath.Join(dir, "csv"),
		Tables:  config.DefaultTables(),
		Unified: filepath.Join(dir, "chants.jsonl"),
		Logger:  testutil.NewTestLogger(t),
	})
}

func TestExtractWritesCSVs(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)

	results, err := p.Extract()
	require.NoError(t, err)
	require.Len(t, results, 3)

	byTable := make(map[string]TableResult)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Empty(t, res.Skipped)
		byTable[res.Table] = res
	}
	assert.Equal(t, 4, byTable["gregobase_chants"].Rows)
	assert.Equal(t, 2, byTable["gregobase_sources"].Rows)
	assert.Equal(t, 4, byTable["gregobase_chant_sources"].Rows)

	data, err := os.ReadFile(filepath.Join(dir, "csv", "gregobase_chants.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id,incipit,cantus_id,mode,chant_published", lines[0])
	assert.Equal(t, `1,"Kyrie, 'eleison' (chant)",g01136,8,1`, lines[1])
	assert.Equal(t, "4,Salve regina,g00124,5,1", lines[4], "late INSERT statements append in dump order")
}

func TestRunFullPipeline(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)

	tables := config.DefaultTables()
	results, report, err := p.Run(tables[0], tables[1], tables[2])
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NotNil(t, report)
	assert.Equal(t, 4, report.Entities)
	assert.Equal(t, 4, report.Links)
	assert.Equal(t, 1, report.DanglingSources, "link to source 99 is dropped, not fatal")
	assert.Equal(t, 0, report.DanglingChants)

	data, err := os.ReadFile(filepath.Join(dir, "chants.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)

	// Chant 1 cites two sources, in link order.
	assert.Contains(t, lines[0], `"incipit":"Kyrie, 'eleison' (chant)"`)
	assert.Contains(t, lines[0], `"sources":[{"id":10,`)
	assert.Contains(t, lines[0], `{"id":20,`)

	// Chant 3's only link dangles, chant 4 never had one.
	assert.True(t, strings.HasSuffix(lines[2], `"sources":[]}`))
	assert.True(t, strings.HasSuffix(lines[3], `"sources":[]}`))
}

func TestUnifyFromCSVMatchesRun(t *testing.T) {
	// extract followed by unify over the CSVs yields the same stream the
	// in-memory run produces, modulo CSV stringification of scalars.
	dir := t.TempDir()
	p := newTestPipeline(t, dir)

	_, err := p.Extract()
	require.NoError(t, err)

	tables := config.DefaultTables()
	report, err := p.Unify(tables[0], tables[1], tables[2])
	require.NoError(t, err)
	assert.Equal(t, 4, report.Entities)
	assert.Equal(t, 1, report.DanglingSources)

	data, err := os.ReadFile(filepath.Join(dir, "chants.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sources":[{"id":"10",`,
		"CSV path carries string scalars")
}

func TestPipelineDeterministic(t *testing.T) {
	tables := config.DefaultTables()

	var outputs [2][]byte
	for i := range outputs {
		dir := t.TempDir()
		p := newTestPipeline(t, dir)
		_, _, err := p.Run(tables[0], tables[1], tables[2])
		require.NoError(t, err)

		unified, err := os.ReadFile(filepath.Join(dir, "chants.jsonl"))
		require.NoError(t, err)
		csvData, err := os.ReadFile(filepath.Join(dir, "csv", "gregobase_chants.csv"))
		require.NoError(t, err)
		outputs[i] = append(unified, csvData...)
	}
	assert.Equal(t, outputs[0], outputs[1], "two runs over the same dump are byte-identical")
}

func TestRunGzip(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{
		Input:     filepath.Join("testdata", "gregobase_mini.sql"),
		OutDir:    filepath.Join(dir, "csv"),
		Tables:    config.DefaultTables(),
		Unified:   filepath.Join(dir, "chants.jsonl"),
		Gzip:      true,
		RemoveRaw: true,
		Logger:    testutil.NewTestLogger(t),
	})

	tables := config.DefaultTables()
	_, _, err := p.Run(tables[0], tables[1], tables[2])
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "chants.jsonl.gz"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "chants.jsonl"))
	assert.True(t, os.IsNotExist(err), "RemoveRaw drops the uncompressed stream")
}

func TestRunMissingUnifyTable(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{
		Input:   filepath.Join("testdata", "gregobase_mini.sql"),
		OutDir:  filepath.Join(dir, "csv"),
		Tables:  []string{"gregobase_chants"},
		Unified: filepath.Join(dir, "chants.jsonl"),
		Logger:  testutil.NewTestLogger(t),
	})

	tables := config.DefaultTables()
	_, _, err := p.Run(tables[0], tables[1], tables[2])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gregobase_sources")
}
