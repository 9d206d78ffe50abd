package parser

import (
	"hearthc/internal/ast"
	"hearthc/internal/token"
)

// parsePattern parses a destructuring pattern: a bare identifier or a
// brace-delimited struct pattern. Whether a bare identifier is legal at the
// top level of an automation is resolved by the checker, not here.
func (p *Parser) parsePattern() *ast.Pattern {
	if p.at(token.LBrace) {
		return p.parseStructPattern()
	}
	name := p.expect(token.Ident, "pattern")
	return &ast.Pattern{Kind: ast.PatternIdent, Span: name.Span, Ident: ast.IdentPattern{Name: name.Text}}
}

func (p *Parser) parseStructPattern() *ast.Pattern {
	open := p.advance() // '{'
	var fields []ast.FieldPattern
	rest := false
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.DotDotDot) {
			p.advance()
			rest = true
			break
		}
		fields = append(fields, p.parseFieldPattern())
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	close := p.expect(token.RBrace, "'}'")
	return &ast.Pattern{
		Kind: ast.PatternStruct, Span: open.Span.Cover(close.Span),
		Struct: ast.StructPattern{Fields: fields, Rest: rest},
	}
}

func (p *Parser) parseFieldPattern() ast.FieldPattern {
	name := p.expect(token.Ident, "field name")
	if p.at(token.Colon) {
		p.advance()
		sub := p.parsePattern()
		return ast.FieldPattern{Name: name.Text, Pattern: sub, Span: name.Span.Cover(sub.Span)}
	}
	return ast.FieldPattern{Name: name.Text, Span: name.Span}
}
