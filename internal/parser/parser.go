// Package parser builds a spanned ast.Program from a token stream.
package parser

import (
	"fmt"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/lexer"
	"hearthc/internal/source"
	"hearthc/internal/token"
)

// Parser consumes tokens from a Lexer and builds an ast.Program, recovering
// from errors by synchronizing on ';' and closing delimiters so that a
// single malformed construct does not abort the whole parse.
type Parser struct {
	lx       *lexer.Lexer
	reporter diag.Reporter
	fileID   source.FileID
	inputLen uint32
	cur      token.Token

	// inFilter is true while parsing an automation's `/ filter /` clause.
	// '/' delimits the clause rather than spelling division there, so the
	// multiplicative precedence level suppresses its usual Slash case.
	inFilter bool
}

// New creates a Parser over file's token stream. inputLen is the total
// byte length of the source, used to position diagnostics at EOF.
func New(lx *lexer.Lexer, fileID source.FileID, inputLen uint32, rep diag.Reporter) *Parser {
	p := &Parser{lx: lx, reporter: rep, fileID: fileID, inputLen: inputLen}
	p.cur = lx.Next()
	return p
}

// Parse parses a complete program: an automation, or a template.
func Parse(src []byte, fileID source.FileID, rep diag.Reporter) *ast.Program {
	file := &source.File{ID: fileID, Content: src}
	lx := lexer.New(file, rep)
	p := New(lx, fileID, uint32(len(src)), rep)
	return p.parseProgram()
}

func (p *Parser) advance() token.Token {
	t := p.cur
	p.cur = p.lx.Next()
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) eofSpan() source.Span {
	return source.Span{File: p.fileID, Start: p.inputLen, End: p.inputLen}
}

func (p *Parser) report(code diag.Code, span source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(diag.Error(code, span, msg))
	}
}

// expect consumes the current token if it has kind k, else reports
// UnexpectedToken and returns a zero-value Token without advancing past
// nothing material (so synchronization can proceed).
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.cur.Kind == k {
		return p.advance()
	}
	span := p.cur.Span
	if p.cur.Kind == token.EOF {
		span = p.eofSpan()
	}
	p.report(diag.ParseUnexpectedToken, span, fmt.Sprintf("expected %s, found %s", what, p.cur.Kind))
	return token.Token{Kind: token.Invalid, Span: span}
}

// synchronize skips tokens until a ';', a closing delimiter, or EOF, so
// parsing of subsequent constructs can resume after an error.
func (p *Parser) synchronize() {
	for {
		switch p.cur.Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.RParen, token.RBracket, token.EOF:
			return
		default:
			p.advance()
		}
	}
}
