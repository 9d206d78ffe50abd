package lexer

import (
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/source"
	"hearthc/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.AddFile("t.rule", []byte(src))
	bag := diag.NewBag(64)
	toks := All(f, diag.BagReporter{Bag: bag})
	return toks, bag
}

func TestLexerUnitLiteralFusion(t *testing.T) {
	toks, bag := lexAll(t, "5min + 3s")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if toks[0].Kind != token.UnitLit || toks[0].Unit != token.UnitMinutes {
		t.Fatalf("expected 5min unit literal, got %+v", toks[0])
	}
	if toks[2].Kind != token.UnitLit || toks[2].Unit != token.UnitSeconds {
		t.Fatalf("expected 3s unit literal, got %+v", toks[2])
	}
}

func TestLexerUnknownSuffixIsError(t *testing.T) {
	_, bag := lexAll(t, "5xyz")
	if !bag.HasErrors() {
		t.Fatalf("expected unknown unit suffix error")
	}
}

func TestLexerIdentifierRoundTrip(t *testing.T) {
	toks, bag := lexAll(t, "let observer_value = foo")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if toks[1].Kind != token.Ident || toks[1].Text != "observer_value" {
		t.Fatalf("expected ident round-trip, got %+v", toks[1])
	}
}

func TestLexerCommentsAreSkipped(t *testing.T) {
	toks, bag := lexAll(t, "// line\nlet /* block */ x = 1")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if toks[0].Kind != token.KwLet {
		t.Fatalf("expected let as first token, got %+v", toks[0])
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	_, bag := lexAll(t, `"unterminated`)
	if !bag.HasErrors() {
		t.Fatalf("expected unterminated string error")
	}
}

func TestLexerStringSpanCoversEscapedForm(t *testing.T) {
	toks, bag := lexAll(t, `"a\nb"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if toks[0].Span.Len() != uint32(len(`"a\nb"`)) {
		t.Fatalf("expected span over escaped source, got len=%d", toks[0].Span.Len())
	}
}
