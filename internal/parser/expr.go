package parser

import (
	"fmt"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/token"
)

// precedence levels, lowest to highest
//  1 ||
//  2 &&
//  3 == !=
//  4 < <= > >= in
//  5 + -
//  6 * / %
//  7 unary ! - * await
//  8 postfix: call, field, optional field

// binOpTable maps a token Kind to the ast.BinOpKind it spells at each
// precedence level the table is consulted for.
var binOpTable = map[token.Kind]ast.BinOpKind{
	token.OrOr:     ast.Or,
	token.AndAnd:   ast.And,
	token.EqEq:     ast.Eq,
	token.BangEq:   ast.Ne,
	token.Lt:       ast.Lt,
	token.LtEq:     ast.Le,
	token.Gt:       ast.Gt,
	token.GtEq:     ast.Ge,
	token.KwIn:     ast.In,
	token.Plus:     ast.Add,
	token.Minus:    ast.Sub,
	token.Star:     ast.Mul,
	token.Slash:    ast.Div,
	token.Percent:  ast.Mod,
}

func (p *Parser) parseExpr() *ast.Expr { return p.parseOr() }

// Comparisons do not chain specially: each precedence level loops over its
// operators left-associatively, so `a < b < c` parses as `(a < b) < c`
// rather than being rejected at parse time. The checker then compares the
// Bool result of `a < b` with `c`, a type mismatch unless `c` is Bool.

func (p *Parser) parseOr() *ast.Expr {
	left := p.parseAnd()
	for p.at(token.OrOr) {
		p.advance()
		right := p.parseAnd()
		left = p.mkBinOp(ast.Or, left, right)
	}
	return left
}

func (p *Parser) parseAnd() *ast.Expr {
	left := p.parseEquality()
	for p.at(token.AndAnd) {
		p.advance()
		right := p.parseEquality()
		left = p.mkBinOp(ast.And, left, right)
	}
	return left
}

func (p *Parser) parseEquality() *ast.Expr {
	left := p.parseComparison()
	for p.at(token.EqEq) || p.at(token.BangEq) {
		opTok := p.advance()
		right := p.parseComparison()
		left = p.mkBinOp(binOpTable[opTok.Kind], left, right)
	}
	return left
}

func (p *Parser) parseComparison() *ast.Expr {
	left := p.parseAdditive()
	for p.at(token.Lt) || p.at(token.LtEq) || p.at(token.Gt) || p.at(token.GtEq) || p.at(token.KwIn) {
		opTok := p.advance()
		right := p.parseAdditive()
		left = p.mkBinOp(binOpTable[opTok.Kind], left, right)
	}
	return left
}

func (p *Parser) parseAdditive() *ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		opTok := p.advance()
		right := p.parseMultiplicative()
		left = p.mkBinOp(binOpTable[opTok.Kind], left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Expr {
	left := p.parseUnary()
	for p.at(token.Star) || (p.at(token.Slash) && !p.inFilter) || p.at(token.Percent) {
		opTok := p.advance()
		right := p.parseUnary()
		left = p.mkBinOp(binOpTable[opTok.Kind], left, right)
	}
	return left
}

func (p *Parser) mkBinOp(op ast.BinOpKind, left, right *ast.Expr) *ast.Expr {
	return &ast.Expr{
		Kind: ast.ExprBinOp,
		Span: left.Span.Cover(right.Span),
		BinOp: ast.BinOpExpr{
			Op: op, Left: left, Right: right,
		},
	}
}

func (p *Parser) parseUnary() *ast.Expr {
	switch p.cur.Kind {
	case token.Bang:
		opTok := p.advance()
		x := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnaryOp, Span: opTok.Span.Cover(x.Span), UnaryOp: ast.UnaryOpExpr{Op: ast.Not, X: x}}
	case token.Minus:
		opTok := p.advance()
		x := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnaryOp, Span: opTok.Span.Cover(x.Span), UnaryOp: ast.UnaryOpExpr{Op: ast.Neg, X: x}}
	case token.Star:
		opTok := p.advance()
		x := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnaryOp, Span: opTok.Span.Cover(x.Span), UnaryOp: ast.UnaryOpExpr{Op: ast.Deref, X: x}}
	case token.KwAwait:
		opTok := p.advance()
		x := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnaryOp, Span: opTok.Span.Cover(x.Span), UnaryOp: ast.UnaryOpExpr{Op: ast.Await, X: x}}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() *ast.Expr {
	e := p.parseAtom()
	for {
		switch p.cur.Kind {
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident, "field name")
			e = &ast.Expr{Kind: ast.ExprField, Span: e.Span.Cover(name.Span), Field: ast.FieldExpr{X: e, Name: name.Text}}
		case token.Question:
			dotStart := p.cur.Span
			p.advance()
			p.expect(token.Dot, "'.' after '?'")
			name := p.expect(token.Ident, "field name")
			e = &ast.Expr{Kind: ast.ExprOptionalField, Span: e.Span.Cover(dotStart).Cover(name.Span), Field: ast.FieldExpr{X: e, Name: name.Text, Optional: true}}
		case token.LParen:
			e = p.parseCall(e)
		default:
			return e
		}
	}
}

func (p *Parser) parseCall(callee *ast.Expr) *ast.Expr {
	p.advance() // '('
	var args []ast.Arg
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseArg())
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	closeTok := p.expect(token.RParen, "')'")
	return &ast.Expr{Kind: ast.ExprCall, Span: callee.Span.Cover(closeTok.Span), Call: ast.CallExpr{Func: callee, Args: args}}
}

func (p *Parser) parseArg() ast.Arg {
	// Named argument: `ident = expr`. Disambiguated by one-token
	// lookahead — an Ident directly followed by '=' (not '==').
	if p.at(token.Ident) {
		save := p.cur
		// Peek at the lexer's next token without losing our own lookahead
		// discipline: Parser only holds one token of state, so we commit
		// to treating `ident =` as named once we see both tokens.
		next := p.lx.Peek()
		if next.Kind == token.Assign {
			p.advance() // ident
			p.advance() // '='
			value := p.parseExpr()
			return ast.Arg{Name: save.Text, Value: value, Span: save.Span.Cover(value.Span)}
		}
	}
	value := p.parseExpr()
	return ast.Arg{Value: value, Span: value.Span}
}

func (p *Parser) parseAtom() *ast.Expr {
	switch p.cur.Kind {
	case token.Int:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprInt, Span: t.Span, IntLit: ast.IntLit{Value: parseIntLiteral(t.Text)}}
	case token.Float:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprFloat, Span: t.Span, FloatLit: ast.FloatLit{Value: parseFloatLiteral(t.Text)}}
	case token.String:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprString, Span: t.Span, StringLit: ast.StringLit{Value: decodeString(t.Text)}}
	case token.KwTrue:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprBool, Span: t.Span, BoolLit: ast.BoolLit{Value: true}}
	case token.KwFalse:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprBool, Span: t.Span, BoolLit: ast.BoolLit{Value: false}}
	case token.UnitLit:
		t := p.advance()
		return &ast.Expr{Kind: ast.ExprUnit, Span: t.Span, UnitLit: ast.UnitLitExpr{Text: unitNumericPart(t.Text, t.Unit), Unit: t.Unit}}
	case token.LBracket:
		return p.parseListOrComp()
	case token.KwIf:
		return p.parseIfExpr()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, "')'")
		return inner
	case token.Ident:
		return p.parseIdentPathOrStructLit()
	default:
		span := p.cur.Span
		if p.cur.Kind == token.EOF {
			span = p.eofSpan()
		}
		p.report(diag.ParseUnexpectedToken, span, fmt.Sprintf("unexpected token %s in expression", p.cur.Kind))
		p.synchronize()
		return &ast.Expr{Kind: ast.ExprIdent, Span: span, Ident: ast.IdentExpr{Name: "<error>"}}
	}
}

func (p *Parser) parseIdentPathOrStructLit() *ast.Expr {
	first := p.advance()
	if p.at(token.ColonColon) {
		segments := []string{first.Text}
		span := first.Span
		for p.at(token.ColonColon) {
			p.advance()
			seg := p.expect(token.Ident, "path segment")
			segments = append(segments, seg.Text)
			span = span.Cover(seg.Span)
		}
		return &ast.Expr{Kind: ast.ExprPath, Span: span, Path: ast.PathExpr{Segments: segments}}
	}
	if p.at(token.LBrace) {
		return p.parseStructLit(first)
	}
	return &ast.Expr{Kind: ast.ExprIdent, Span: first.Span, Ident: ast.IdentExpr{Name: first.Text}}
}

func (p *Parser) parseStructLit(name token.Token) *ast.Expr {
	p.advance() // '{'
	var fields []ast.StructField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fields = append(fields, p.parseStructField())
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	closeTok := p.expect(token.RBrace, "'}'")
	return &ast.Expr{Kind: ast.ExprStructLit, Span: name.Span.Cover(closeTok.Span), StructLit: ast.StructLitExpr{Name: name.Text, Fields: fields}}
}

func (p *Parser) parseStructField() ast.StructField {
	switch p.cur.Kind {
	case token.KwInherit:
		start := p.advance()
		name := p.expect(token.Ident, "field name")
		return ast.StructField{Kind: ast.FieldInherit, Name: name.Text, Span: start.Span.Cover(name.Span)}
	case token.DotDotDot:
		start := p.advance()
		name := p.expect(token.Ident, "spread source")
		return ast.StructField{Kind: ast.FieldSpread, Name: name.Text, Span: start.Span.Cover(name.Span)}
	default:
		name := p.expect(token.Ident, "field name")
		p.expect(token.Colon, "':'")
		value := p.parseExpr()
		return ast.StructField{Kind: ast.FieldSet, Name: name.Text, Value: value, Span: name.Span.Cover(value.Span)}
	}
}

func (p *Parser) parseListOrComp() *ast.Expr {
	open := p.advance() // '['
	if p.at(token.RBracket) {
		close := p.advance()
		return &ast.Expr{Kind: ast.ExprList, Span: open.Span.Cover(close.Span)}
	}
	first := p.parseExpr()
	if p.at(token.KwFor) {
		p.advance()
		v := p.expect(token.Ident, "loop variable")
		p.expect(token.KwIn, "'in'")
		iter := p.parseExpr()
		var filter *ast.Expr
		if p.at(token.KwIf) {
			p.advance()
			filter = p.parseExpr()
		}
		close := p.expect(token.RBracket, "']'")
		return &ast.Expr{
			Kind: ast.ExprListComp, Span: open.Span.Cover(close.Span),
			ListComp: ast.ListCompExpr{Expr: first, Var: v.Text, Iter: iter, Filter: filter},
		}
	}
	elems := []*ast.Expr{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RBracket) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	close := p.expect(token.RBracket, "']'")
	return &ast.Expr{Kind: ast.ExprList, Span: open.Span.Cover(close.Span), List: ast.ListExpr{Elems: elems}}
}

func (p *Parser) parseIfExpr() *ast.Expr {
	start := p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	var els []ast.Stmt
	end := then.closeSpan
	if p.at(token.KwElse) {
		p.advance()
		elseBlock := p.parseBlock()
		els = elseBlock.stmts
		if els == nil {
			// An explicit `else { }` stays distinct from an absent else.
			els = []ast.Stmt{}
		}
		end = elseBlock.closeSpan
	}
	return &ast.Expr{
		Kind: ast.ExprIf, Span: start.Span.Cover(end),
		If: ast.IfExpr{Cond: cond, Then: then.stmts, Else: els},
	}
}
