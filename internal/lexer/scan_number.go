package lexer

import (
	"hearthc/internal/diag"
	"hearthc/internal/token"
)

// scanNumber scans an integer or decimal literal and fuses it with an
// immediately-following known unit suffix into a single UnitLit token.
// The lexer tries unit-literal before float before integer: it always
// scans the full numeric body first, then looks at what follows.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	isFloat := false
	if lx.cursor.Peek() == '.' && isDigit(lx.cursor.PeekAt(1)) {
		isFloat = true
		lx.cursor.Bump() // '.'
		for isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	numSpan := lx.cursor.SpanFrom(start)
	numText := string(lx.file.Content[numSpan.Start:numSpan.End])

	if suffix, ok := lx.tryScanUnitSuffix(); ok {
		fullSpan := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: token.UnitLit,
			Span: fullSpan,
			Text: string(lx.file.Content[fullSpan.Start:fullSpan.End]),
			Unit: suffix,
		}
	} else if lx.suffixLooksLikeUnit() {
		// An identifier immediately follows the digits but does not match
		// any known suffix: this is a lex error, not silently an Int/Ident
		// pair.
		suffixStart := lx.cursor.Mark()
		for isIdentCont(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		full := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownUnitSuffix, lx.cursor.SpanFrom(suffixStart), "unknown unit suffix")
		return token.Token{Kind: token.Invalid, Span: full, Text: string(lx.file.Content[full.Start:full.End])}
	}

	if isFloat {
		return token.Token{Kind: token.Float, Span: numSpan, Text: numText}
	}
	return token.Token{Kind: token.Int, Span: numSpan, Text: numText}
}

// tryScanUnitSuffix consumes the longest known unit suffix immediately
// following the cursor, with no intervening whitespace, and reports
// whether one was found. On failure the cursor is left unmoved.
func (lx *Lexer) tryScanUnitSuffix() (token.UnitKind, bool) {
	if !isIdentStart(lx.cursor.Peek()) {
		return token.UnitNone, false
	}
	mark := lx.cursor.Mark()
	for n := token.UnitSuffixMaxLen; n >= 1; n-- {
		end := uint32(mark) + uint32(n)
		if int(end) > len(lx.file.Content) {
			continue
		}
		candidate := string(lx.file.Content[mark:end])
		if kind, ok := token.UnitSuffixes[candidate]; ok {
			// The suffix must not be followed by more ident characters
			// (otherwise "5second" would wrongly match "s" as a prefix —
			// the longest-match loop already prefers "sec..." length
			// over "s", but guard the boundary explicitly).
			after := lx.cursor.PeekAt(uint32(n))
			if isIdentCont(after) {
				continue
			}
			for i := 0; i < n; i++ {
				lx.cursor.Bump()
			}
			return kind, true
		}
	}
	return token.UnitNone, false
}

// suffixLooksLikeUnit reports whether an identifier immediately follows
// the cursor (no whitespace), which — since tryScanUnitSuffix already
// failed — means it is an ill-formed unit suffix rather than a separate
// token (the grammar never allows NUMBER IDENT as two adjacent tokens).
func (lx *Lexer) suffixLooksLikeUnit() bool {
	return isIdentStart(lx.cursor.Peek())
}
