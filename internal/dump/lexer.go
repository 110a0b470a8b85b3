package dump

import "strings"

// literal is one tokenized SQL value literal, before decoding.
type literal struct {
	text   string
	quoted bool
	offset int // byte offset of the token within the dump
}

// valueLexer tokenizes the VALUES section of an INSERT statement into tuples
// of literals. It is an explicit state machine (in-string flag plus paren
// depth counter): a comma or parenthesis inside a quoted string must never
// split a token, which rules out any split-on-comma shortcut.
type valueLexer struct {
	input string
	base  int // byte offset of input within the dump, for error reporting
}

// escapes maps backslash escape characters to their decoded bytes,
// per MySQL string literal rules.
var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'0':  0,
	'Z':  0x1a,
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

// tuples splits the blob into rows of literals. A string literal left open at
// the end of the blob yields an UnterminatedLiteralError; the caller fills in
// the table and statement index.
func (l *valueLexer) tuples() ([][]literal, error) {
	var (
		rows [][]literal
		row  []literal
		buf  strings.Builder
	)
	depth := 0
	inStr := false
	strOpen := 0  // offset of the current string's opening quote
	tokStart := 0 // offset of the current token's first byte
	started := false
	quoted := false

	flush := func() {
		row = append(row, literal{text: buf.String(), quoted: quoted, offset: l.base + tokStart})
		buf.Reset()
		started = false
		quoted = false
	}

	n := len(l.input)
	for i := 0; i < n; i++ {
		ch := l.input[i]

		if inStr {
			switch {
			case ch == '\\' && i+1 < n:
				esc := l.input[i+1]
				if dec, ok := escapes[esc]; ok {
					buf.WriteByte(dec)
				} else {
					buf.WriteByte(esc)
				}
				i++
			case ch == '\'':
				if i+1 < n && l.input[i+1] == '\'' {
					// Doubled quote escape: '' decodes to a single quote.
					buf.WriteByte('\'')
					i++
				} else {
					inStr = false
				}
			default:
				buf.WriteByte(ch)
			}
			continue
		}

		switch {
		case ch == '\'':
			if !started {
				started = true
				tokStart = i
			}
			quoted = true
			inStr = true
			strOpen = i
		case ch == '(':
			if depth > 0 {
				buf.WriteByte(ch)
			}
			depth++
		case ch == ')':
			if depth > 1 {
				buf.WriteByte(ch)
			}
			depth--
			if depth == 0 {
				if started || len(row) > 0 {
					flush()
				}
				rows = append(rows, row)
				row = nil
			}
		case ch == ',' && depth == 1:
			flush()
		case (ch == ',' || ch == ';') && depth <= 1:
			// Tuple separator, or a trailing semicolon left on the blob.
			// Inside nested parens these fall through and stay in the token.
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			if started && depth >= 1 && !quoted {
				// Interior whitespace of a bare token (e.g. "1 2") is kept;
				// the decoder rejects it as non-numeric and keeps it raw.
				buf.WriteByte(ch)
			}
		default:
			if depth >= 1 {
				if !started {
					started = true
					tokStart = i
				}
				buf.WriteByte(ch)
			}
		}
	}

	if inStr {
		return rows, &UnterminatedLiteralError{Offset: l.base + strOpen}
	}
	return rows, nil
}
