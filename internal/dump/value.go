// Package dump parses MySQL/phpMyAdmin SQL dumps into per-table datasets.
//
// The package is deliberately not a SQL parser. It understands exactly the
// statement shapes a table export contains: one CREATE TABLE statement per
// table followed by one or more multi-row INSERT statements. Everything else
// in the dump is skipped.
package dump

import (
	"strconv"
	"strings"
)

// Value is one decoded SQL scalar: nil, string, int64, float64, or bool.
type Value any

// Record maps column names to decoded values. Every record of a dataset has
// exactly its schema's column set as keys.
type Record map[string]Value

// Schema is a table name plus its columns in declaration order.
type Schema struct {
	Table   string
	Columns []string
	// Types holds the raw lowercased column types, parallel to Columns.
	// Empty when the schema was recovered from an INSERT column list.
	Types []string
}

// IsBool reports whether the i-th column is a boolean column. MySQL exports
// booleans as tinyint(1).
func (s *Schema) IsBool(i int) bool {
	if i < 0 || i >= len(s.Types) {
		return false
	}
	t := s.Types[i]
	return strings.HasPrefix(t, "tinyint(1)") || strings.HasPrefix(t, "bool")
}

// columnIndex returns the position of the named column, or -1.
func (s *Schema) columnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Dataset is an ordered sequence of records sharing one schema. Record order
// is dump order (statement order, then tuple order within a statement) and is
// never re-sorted.
type Dataset struct {
	Schema  *Schema
	Records []Record

	// Errors collects the non-fatal parse errors encountered while building
	// the dataset (malformed tuples, unterminated statements), in the order
	// they were found.
	Errors []error
}

// decodeValue converts one tokenized SQL literal to a Value.
// boolCol marks columns whose type is boolean, so bare 0/1 decode to bool.
func decodeValue(lit literal, boolCol bool) Value {
	if lit.quoted {
		return lit.text
	}

	text := strings.TrimSpace(lit.text)
	if strings.EqualFold(text, "NULL") {
		return nil
	}

	if boolCol {
		switch text {
		case "0":
			return false
		case "1":
			return true
		}
	}

	if isNumeric(text) {
		if strings.Contains(text, ".") {
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				return f
			}
		} else if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
	}

	// Unrecognized bare token (hex literal, CURRENT_TIMESTAMP, ...): keep raw.
	return text
}

// isNumeric reports whether text is an optionally signed decimal number with
// at most one decimal point.
func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	if text[0] == '-' || text[0] == '+' {
		text = text[1:]
	}
	dots, digits := 0, 0
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '.':
			dots++
		case text[i] >= '0' && text[i] <= '9':
			digits++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
