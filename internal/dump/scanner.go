package dump

import "strings"

// stmtKind classifies the statements the parser cares about.
type stmtKind int

const (
	stmtOther stmtKind = iota
	stmtCreateTable
	stmtInsert
)

// statement is one semicolon-terminated span of the dump.
type statement struct {
	kind   stmtKind
	table  string
	offset int    // byte offset of the statement start within the dump
	text   string // statement text without the trailing semicolon
}

// scanStatements walks the dump once and returns its statements in order.
//
// The walk is quote- and comment-aware: a semicolon inside a string literal
// or a comment never terminates a statement. This matters because chant
// incipits routinely contain punctuation that a line-based split would trip
// over. A statement truncated by end of input (no closing quote or semicolon)
// is still returned; the value tokenizer reports the unterminated literal.
func scanStatements(input string) []statement {
	var stmts []statement
	pos := 0
	n := len(input)

	for pos < n {
		pos = skipGaps(input, pos)
		if pos >= n {
			break
		}

		start := pos
		var quote byte
		for pos < n {
			ch := input[pos]
			if quote != 0 {
				// Backslash escapes apply inside ' and " but not ` quotes.
				if ch == '\\' && quote != '`' && pos+1 < n {
					pos += 2
					continue
				}
				if ch == quote {
					quote = 0
				}
				pos++
				continue
			}
			switch ch {
			case '\'', '"', '`':
				quote = ch
			case ';':
				goto terminated
			}
			pos++
		}
	terminated:
		text := input[start:pos]
		if pos < n {
			pos++ // consume the semicolon
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		stmts = append(stmts, classify(text, start))
	}

	return stmts
}

// skipGaps advances past whitespace and MySQL comments (`--`, `#`, `/* */`).
// Conditional comments (/*!40101 ... */) are skipped like any block comment;
// the statements they wrap are session setup, not data.
func skipGaps(input string, pos int) int {
	n := len(input)
	for pos < n {
		ch := input[pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			pos++
		case ch == '#' || (ch == '-' && pos+1 < n && input[pos+1] == '-'):
			for pos < n && input[pos] != '\n' {
				pos++
			}
		case ch == '/' && pos+1 < n && input[pos+1] == '*':
			end := strings.Index(input[pos+2:], "*/")
			if end < 0 {
				return n
			}
			pos += 2 + end + 2
			// A conditional comment carries its own terminating semicolon.
			if pos < n && input[pos] == ';' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// classify determines a statement's kind and target table.
func classify(text string, offset int) statement {
	st := statement{kind: stmtOther, offset: offset, text: text}
	trimmed := strings.TrimLeft(text, " \t\r\n")
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"):
		rest := trimmed[len("CREATE TABLE"):]
		if strings.HasPrefix(strings.ToUpper(strings.TrimLeft(rest, " \t\r\n")), "IF NOT EXISTS") {
			rest = strings.TrimLeft(rest, " \t\r\n")[len("IF NOT EXISTS"):]
		}
		if name, _ := readIdentifier(rest, 0); name != "" {
			st.kind = stmtCreateTable
			st.table = name
		}
	case strings.HasPrefix(upper, "INSERT INTO"):
		rest := trimmed[len("INSERT INTO"):]
		if name, _ := readIdentifier(rest, 0); name != "" {
			st.kind = stmtInsert
			st.table = name
		}
	}
	return st
}

// readIdentifier reads an optionally backquoted identifier starting at or
// after pos, returning the identifier and the position just past it.
func readIdentifier(s string, pos int) (string, int) {
	n := len(s)
	for pos < n && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\r' || s[pos] == '\n') {
		pos++
	}
	if pos >= n {
		return "", pos
	}
	if s[pos] == '`' {
		end := strings.IndexByte(s[pos+1:], '`')
		if end < 0 {
			return "", n
		}
		return s[pos+1 : pos+1+end], pos + 1 + end + 1
	}
	start := pos
	for pos < n && isIdentChar(s[pos]) {
		pos++
	}
	return s[start:pos], pos
}

func isIdentChar(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
