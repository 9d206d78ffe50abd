package parser

import (
	"hearthc/internal/ast"
	"hearthc/internal/token"
)

// parseProgram parses a complete source file: either a single top-level
// automation (`observer|mutator PATTERN /FILTER/ { BODY }`) or a template
// declaration wrapping a set of automations.
func (p *Parser) parseProgram() *ast.Program {
	if p.at(token.Ident) && p.cur.Text == "template" {
		t := p.parseTemplate()
		return &ast.Program{Template: t, Span: t.Span}
	}
	a := p.parseAutomation()
	return &ast.Program{Automation: a, Span: a.Span}
}

func (p *Parser) parseAutomation() *ast.Automation {
	var kind ast.AutomationKind
	start := p.cur
	switch p.cur.Kind {
	case token.KwObserver:
		p.advance()
		kind = ast.Observer
	case token.KwMutator:
		p.advance()
		kind = ast.Mutator
	default:
		p.expect(token.KwObserver, "'observer' or 'mutator'")
		p.synchronize()
		return &ast.Automation{Kind: ast.Observer, Span: start.Span}
	}

	pattern := p.parsePattern()

	p.expect(token.Slash, "'/' opening filter")
	p.inFilter = true
	filter := p.parseExpr()
	p.inFilter = false
	p.expect(token.Slash, "'/' closing filter")

	body := p.parseBlock()
	return &ast.Automation{
		Kind: kind, Pattern: pattern, Filter: filter, Body: body.stmts,
		Span: start.Span.Cover(body.closeSpan),
	}
}

func (p *Parser) parseTemplate() *ast.Template {
	start := p.advance() // 'template' identifier
	p.expect(token.LParen, "'('")
	var params []ast.TemplateParam
	for !p.at(token.RParen) && !p.at(token.EOF) {
		params = append(params, p.parseTemplateParam())
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen, "')'")
	p.expect(token.LBrace, "'{'")
	var autos []*ast.Automation
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		autos = append(autos, p.parseAutomation())
	}
	close := p.expect(token.RBrace, "'}'")
	return &ast.Template{Params: params, Automations: autos, Span: start.Span.Cover(close.Span)}
}

func (p *Parser) parseTemplateParam() ast.TemplateParam {
	name := p.expect(token.Ident, "parameter name")
	p.expect(token.Colon, "':'")
	ty := p.parseTypeSyn()
	return ast.TemplateParam{Name: name.Text, Type: ty, Span: name.Span}
}

func (p *Parser) parseTypeSyn() *ast.TypeSyn {
	if p.at(token.LBracket) {
		p.advance()
		elem := p.parseTypeSyn()
		p.expect(token.RBracket, "']'")
		return &ast.TypeSyn{Kind: ast.TypeSynList, Elem: elem}
	}
	name := p.expect(token.Ident, "type name")
	switch name.Text {
	case "Set", "Option":
		p.expect(token.Lt, "'<'")
		elem := p.parseTypeSyn()
		p.expect(token.Gt, "'>'")
		if name.Text == "Set" {
			return &ast.TypeSyn{Kind: ast.TypeSynSet, Elem: elem}
		}
		return &ast.TypeSyn{Kind: ast.TypeSynOption, Elem: elem}
	case "Map":
		p.expect(token.Lt, "'<'")
		key := p.parseTypeSyn()
		p.expect(token.Comma, "','")
		value := p.parseTypeSyn()
		p.expect(token.Gt, "'>'")
		return &ast.TypeSyn{Kind: ast.TypeSynMap, Key: key, Value: value}
	default:
		return &ast.TypeSyn{Kind: ast.TypeSynNamed, Named: name.Text}
	}
}
