package dump

import (
	"fmt"
	"strings"
)

// constraintKeywords are the leading words of CREATE TABLE body lines that
// declare constraints or indexes rather than columns. Detection is by keyword
// prefix only; a backquoted identifier is always a column, even `key`.
var constraintKeywords = map[string]bool{
	"PRIMARY":    true,
	"UNIQUE":     true,
	"KEY":        true,
	"CONSTRAINT": true,
	"FOREIGN":    true,
	"INDEX":      true,
	"FULLTEXT":   true,
	"SPATIAL":    true,
	"CHECK":      true,
}

// parseCreateTable extracts the schema from a CREATE TABLE statement.
func parseCreateTable(st statement) (*Schema, error) {
	body, err := tableBody(st.text)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", st.table, err)
	}

	schema := &Schema{Table: st.table}
	for _, def := range splitTopLevel(body) {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		if def[0] != '`' {
			first, _ := readIdentifier(def, 0)
			if constraintKeywords[strings.ToUpper(first)] {
				continue
			}
		}
		name, rest := readIdentifier(def, 0)
		if name == "" {
			continue
		}
		schema.Columns = append(schema.Columns, name)
		schema.Types = append(schema.Types, readType(def, rest))
	}

	if len(schema.Columns) == 0 {
		return nil, fmt.Errorf("table %q: CREATE TABLE has no column definitions", st.table)
	}
	return schema, nil
}

// tableBody returns the parenthesized column-definition body of a CREATE
// TABLE statement.
func tableBody(text string) (string, error) {
	open := indexOutsideQuotes(text, '(')
	if open < 0 {
		return "", fmt.Errorf("CREATE TABLE has no column list")
	}
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == '\\' && quote != '`' && i+1 < len(text) {
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
				return text[open+1 : i], nil
			}
		}
	}
	return "", fmt.Errorf("CREATE TABLE column list is not closed")
}

// splitTopLevel splits s on commas that sit outside quotes and outside nested
// parentheses, so type size specifiers like decimal(10,2) and enum('a','b')
// stay intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
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
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// readType reads the type token following a column name, including any
// parenthesized size specifier, lowercased.
func readType(def string, pos int) string {
	n := len(def)
	for pos < n && (def[pos] == ' ' || def[pos] == '\t' || def[pos] == '\r' || def[pos] == '\n') {
		pos++
	}
	start := pos
	for pos < n && isIdentChar(def[pos]) {
		pos++
	}
	if pos < n && def[pos] == '(' {
		depth := 0
		var quote byte
		for ; pos < n; pos++ {
			ch := def[pos]
			if quote != 0 {
				if ch == quote {
					quote = 0
				}
				continue
			}
			switch ch {
			case '\'', '"':
				quote = ch
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 && ch == ')' {
				pos++
				break
			}
		}
	}
	return strings.ToLower(def[start:pos])
}

// indexOutsideQuotes returns the index of the first unquoted occurrence of
// target, or -1.
func indexOutsideQuotes(s string, target byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
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
		default:
			if ch == target {
				return i
			}
		}
	}
	return -1
}
