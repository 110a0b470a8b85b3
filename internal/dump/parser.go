package dump

import (
	"errors"
	"fmt"
	"strings"
)

// ParseTable extracts the dataset for one table from the dump text.
//
// The schema comes from the table's CREATE TABLE statement; when the dump has
// none but the table's INSERT statements carry an explicit column list, that
// list serves as the schema (phpMyAdmin exports always write one). Non-fatal
// problems (malformed tuples, unterminated statements) accumulate on
// Dataset.Errors; the returned error is non-nil only for fatal conditions:
// no schema at all, or every single tuple failing to parse.
func ParseTable(dumpText, table string) (*Dataset, error) {
	return parseTable(scanStatements(dumpText), table)
}

// ParseAll extracts a dataset for every table that has a CREATE TABLE
// statement, keyed by table name. Per-table fatal errors are joined into the
// returned error; the map still holds every table that parsed.
func ParseAll(dumpText string) (map[string]*Dataset, error) {
	stmts := scanStatements(dumpText)
	out := make(map[string]*Dataset)
	var errs []error
	for _, name := range tableNames(stmts) {
		ds, err := parseTable(stmts, name)
		if err != nil {
			errs = append(errs, err)
		}
		if ds != nil {
			out[name] = ds
		}
	}
	return out, errors.Join(errs...)
}

// Tables returns the schema of every CREATE TABLE statement, in dump order.
func Tables(dumpText string) []*Schema {
	var schemas []*Schema
	seen := make(map[string]bool)
	for _, st := range scanStatements(dumpText) {
		if st.kind != stmtCreateTable || seen[st.table] {
			continue
		}
		seen[st.table] = true
		if s, err := parseCreateTable(st); err == nil {
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// tableNames lists the distinct CREATE TABLE targets in dump order.
func tableNames(stmts []statement) []string {
	var names []string
	seen := make(map[string]bool)
	for _, st := range stmts {
		if st.kind == stmtCreateTable && !seen[st.table] {
			seen[st.table] = true
			names = append(names, st.table)
		}
	}
	return names
}

func parseTable(stmts []statement, table string) (*Dataset, error) {
	var schema *Schema
	var inserts []statement
	for _, st := range stmts {
		if st.table != table {
			continue
		}
		switch st.kind {
		case stmtCreateTable:
			if schema == nil {
				s, err := parseCreateTable(st)
				if err != nil {
					return nil, err
				}
				schema = s
			}
		case stmtInsert:
			inserts = append(inserts, st)
		}
	}

	if schema == nil {
		schema = schemaFromInserts(table, inserts)
	}
	if schema == nil {
		return nil, &SchemaNotFoundError{Table: table}
	}

	ds := &Dataset{Schema: schema}
	tuples := 0
	for i, st := range inserts {
		cols, blob, base, err := splitInsert(st)
		if err != nil {
			ds.Errors = append(ds.Errors, fmt.Errorf("table %q: statement %d: %w", table, i, err))
			continue
		}
		if len(cols) == 0 {
			cols = schema.Columns
		}

		// Column j of this statement may not be column j of the schema when
		// the INSERT names its columns explicitly.
		boolCol := make([]bool, len(cols))
		for j, name := range cols {
			boolCol[j] = schema.IsBool(schema.columnIndex(name))
		}

		lx := &valueLexer{input: blob, base: base}
		rows, lerr := lx.tuples()
		if lerr != nil {
			// No safe resynchronization point: drop the whole statement,
			// including tuples tokenized before the open quote.
			var ule *UnterminatedLiteralError
			if errors.As(lerr, &ule) {
				ule.Table = table
				ule.Statement = i
			}
			ds.Errors = append(ds.Errors, lerr)
			continue
		}

		for j, row := range rows {
			tuples++
			if len(row) != len(cols) {
				ds.Errors = append(ds.Errors, &TupleError{
					Table: table, Statement: i, Tuple: j,
					Got: len(row), Want: len(cols),
				})
				continue
			}
			rec := make(Record, len(cols))
			for k, lit := range row {
				rec[cols[k]] = decodeValue(lit, boolCol[k])
			}
			ds.Records = append(ds.Records, rec)
		}
	}

	if len(ds.Records) == 0 && len(ds.Errors) > 0 {
		return ds, fmt.Errorf("table %q: no tuple parsed successfully (0 of %d tuples, %d errors)",
			table, tuples, len(ds.Errors))
	}
	return ds, nil
}

// schemaFromInserts recovers a column-list-only schema from the first INSERT
// statement that names its columns. Types are unknown, so no boolean decoding
// applies on this path.
func schemaFromInserts(table string, inserts []statement) *Schema {
	for _, st := range inserts {
		if cols, _, _, err := splitInsert(st); err == nil && len(cols) > 0 {
			return &Schema{Table: table, Columns: cols}
		}
	}
	return nil
}

// splitInsert splits an INSERT statement into its optional explicit column
// list and the raw VALUES blob. base is the blob's byte offset within the
// dump, so tokenizer errors can point back into the source file.
func splitInsert(st statement) (cols []string, blob string, base int, err error) {
	text := st.text
	lead := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
	pos := lead + len("INSERT INTO")
	_, pos = readIdentifier(text, pos)

	pos = skipSpace(text, pos)
	if pos < len(text) && text[pos] == '(' {
		end, cerr := matchParen(text, pos)
		if cerr != nil {
			return nil, "", 0, cerr
		}
		for _, c := range splitTopLevel(text[pos+1 : end]) {
			name, _ := readIdentifier(c, 0)
			if name != "" {
				cols = append(cols, name)
			}
		}
		pos = end + 1
	}

	pos = skipSpace(text, pos)
	kwEnd := pos
	for kwEnd < len(text) && isIdentChar(text[kwEnd]) {
		kwEnd++
	}
	if !strings.EqualFold(text[pos:kwEnd], "VALUES") {
		return nil, "", 0, fmt.Errorf("INSERT statement has no VALUES keyword")
	}

	return cols, text[kwEnd:], st.offset + kwEnd, nil
}

// matchParen returns the index of the parenthesis closing the one at open.
func matchParen(s string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' && quote != '`' && i+1 < len(s) {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parenthesis at offset %d", open)
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\r' || s[pos] == '\n') {
		pos++
	}
	return pos
}
