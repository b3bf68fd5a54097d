package netlist

import "strings"

type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokString
	tokBrace
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex splits the raw netlist text into a flat token stream: bare words and
// numbers become tokIdent, double-quoted spans become tokString (unquoted),
// and '{'/'}'/':' become single-character tokBrace tokens. A minimal
// hand-rolled tokenizer fits a grammar this small better than pulling in a
// full protobuf text-format parser.
func lex(data string) []token {
	var toks []token
	line := 1
	i := 0
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < n && data[i] != '\n' {
				i++
			}
		case c == '{' || c == '}' || c == ':':
			toks = append(toks, token{kind: tokBrace, text: string(c), line: line})
			i++
		case c == '"':
			j := i + 1
			for j < n && data[j] != '"' {
				j++
			}
			toks = append(toks, token{kind: tokString, text: data[i+1 : j], line: line})
			i = j + 1
		default:
			j := i
			for j < n && !isDelim(data[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: data[i:j], line: line})
			i = j
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', ':', '"', '#':
		return true
	default:
		return false
	}
}

// trimQuotes strips a single pair of leading/trailing double quotes, used
// when an identifier token happens to carry them (defensive; lex already
// strips quotes from tokString).
func trimQuotes(s string) string { return strings.Trim(s, "\"") }
