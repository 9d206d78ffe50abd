package lexer

import (
	"hearthc/internal/diag"
	"hearthc/internal/token"
)

// validEscapes is the closed set of recognized string escapes: \\ \" \n \r \t.
var validEscapes = map[byte]bool{
	'\\': true, '"': true, 'n': true, 'r': true, 't': true,
}

// scanString scans a double-quoted string literal. The resulting span and
// Text cover the original escaped source text (including the quotes), not
// the decoded content.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	for {
		if lx.cursor.EOF() {
			span := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
		}
		ch := lx.cursor.Bump()
		if ch == '"' {
			break
		}
		if ch == '\\' {
			if lx.cursor.EOF() {
				span := lx.cursor.SpanFrom(start)
				lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
				return token.Token{Kind: token.Invalid, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
			}
			esc := lx.cursor.Bump()
			if !validEscapes[esc] {
				lx.report(diag.LexUnexpectedChar, lx.cursor.SpanFrom(lx.cursor.Mark()-1), "unknown escape sequence")
			}
		}
	}

	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.String, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}
