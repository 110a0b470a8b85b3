package dump

import "fmt"

// SchemaNotFoundError indicates the requested table has no CREATE TABLE
// statement and no INSERT with an explicit column list to recover the schema
// from. Fatal for that table.
type SchemaNotFoundError struct {
	Table string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("table %q: no CREATE TABLE statement found", e.Table)
}

// TupleError indicates one value tuple whose token count disagrees with the
// column count. The tuple is skipped; its siblings still parse.
type TupleError struct {
	Table     string
	Statement int // 0-based index among the table's INSERT statements
	Tuple     int // 0-based index within the statement
	Got       int
	Want      int
}

func (e *TupleError) Error() string {
	return fmt.Sprintf("table %q: statement %d tuple %d has %d values, schema has %d columns",
		e.Table, e.Statement, e.Tuple, e.Got, e.Want)
}

// UnterminatedLiteralError indicates a quoted string with no closing quote
// before the end of its statement. Fatal for that statement: there is no safe
// place to resynchronize, so the statement's remaining tuples are dropped.
type UnterminatedLiteralError struct {
	Table     string
	Statement int
	Offset    int // byte offset of the opening quote within the dump
}

func (e *UnterminatedLiteralError) Error() string {
	return fmt.Sprintf("table %q: statement %d has an unterminated string literal at byte offset %d",
		e.Table, e.Statement, e.Offset)
}
