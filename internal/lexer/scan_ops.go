package lexer

import (
	"hearthc/internal/diag"
	"hearthc/internal/token"
)

// twoByteOps maps a two-byte lookahead to the operator Kind it forms, checked
// before falling back to the one-byte table.
var twoByteOps = map[[2]byte]token.Kind{
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'&', '&'}: token.AndAnd,
	{'|', '|'}: token.OrOr,
	{':', ':'}: token.ColonColon,
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Bang,
	'?': token.Question,
	'.': token.Dot,
	'=': token.Assign,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok {
		if b0 == '.' && b1 == '.' && lx.cursor.PeekAt(2) == '.' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.cursor.Bump()
			span := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.DotDotDot, Span: span, Text: "..."}
		}
		if kind, ok := twoByteOps[[2]byte{b0, b1}]; ok {
			lx.cursor.Bump()
			lx.cursor.Bump()
			span := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: span, Text: kind.String()}
		}
	}

	ch := lx.cursor.Peek()
	if kind, ok := oneByteOps[ch]; ok {
		lx.cursor.Bump()
		span := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: span, Text: kind.String()}
	}

	lx.cursor.Bump()
	lx.report(diag.LexUnexpectedChar, lx.cursor.SpanFrom(start), "unexpected character")
	// Resume at the next whitespace boundary; the skipped run becomes part
	// of this Invalid token.
	for !lx.cursor.EOF() && !isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Invalid, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}
