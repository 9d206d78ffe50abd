// Package lexer turns source bytes into a token stream for the automations
// language.
package lexer

import (
	"fortio.org/safecast"

	"hearthc/internal/diag"
	"hearthc/internal/source"
	"hearthc/internal/token"
)

const maxTokenLength = 64 * 1024

// Lexer scans one file into a sequence of tokens, reporting lexical errors
// to its Reporter and resuming at the next whitespace boundary so that a
// single bad character never aborts the whole stream.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token
}

// New creates a Lexer for file, reporting diagnostics to rep.
func New(file *source.File, rep diag.Reporter) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), reporter: rep}
}

// Next returns the next significant token. Once EOF is reached it keeps
// returning an EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		t := *lx.look
		lx.look = nil
		return t
	}
	return lx.scanNext()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.scanIfNeeded()
	return t
}

func (lx *Lexer) scanIfNeeded() token.Token {
	if lx.look == nil {
		t := lx.scanNext()
		lx.look = &t
	}
	return *lx.look
}

// All lexes the entire file and returns every token including the final
// EOF. It is a thin convenience used by tests; the parser and the CLI's
// tokenize subcommand instead drive Next/Peek incrementally.
func All(file *source.File, rep diag.Reporter) []token.Token {
	lx := New(file, rep)
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) scanNext() token.Token {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDigit(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	lx.enforceTokenLength(&tok)
	return tok
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// skipTrivia consumes whitespace and comments; both are insignificant to
// the token stream.
func (lx *Lexer) skipTrivia() {
	for {
		switch {
		case isSpace(lx.cursor.Peek()):
			lx.cursor.Bump()
		case lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for {
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			return
		}
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) report(code diag.Code, span source.Span, msg string) {
	if lx.reporter != nil {
		lx.reporter.Report(diag.Error(code, span, msg))
	}
}

func (lx *Lexer) enforceTokenLength(tok *token.Token) {
	length := tok.Span.End - tok.Span.Start
	if length <= maxTokenLength {
		return
	}
	lx.report(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
	tok.Kind = token.Invalid
	if off, err := safecast.Conv[uint32](len(lx.file.Content)); err == nil {
		lx.cursor.Off = off
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }
