package diag_test

import (
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/source"
)

func TestFormatGoldenSortsAndRenders(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.AddFile("a.rule", []byte("let x = 1\nlet y = bad\n"))

	diags := []diag.Diagnostic{
		{Severity: diag.SevError, Code: diag.CheckUndefinedName, Message: "undefined name 'bad'", Primary: source.Span{File: f.ID, Start: 18, End: 21}},
		{Severity: diag.SevWarning, Code: diag.CheckUnknownField, Message: "unused field", Primary: source.Span{File: f.ID, Start: 4, End: 5}},
	}

	got := diag.FormatGolden(diags, fs)
	want := "warning E3004 a.rule:1:5 unused field\n" +
		"error E3001 a.rule:2:9 undefined name 'bad'"
	if got != want {
		t.Fatalf("FormatGolden mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatGoldenEmpty(t *testing.T) {
	if got := diag.FormatGolden(nil, source.NewFileSet()); got != "" {
		t.Fatalf("expected empty string for no diagnostics, got %q", got)
	}
	if got := diag.FormatGolden([]diag.Diagnostic{{}}, nil); got != "" {
		t.Fatalf("expected empty string for a nil FileSet, got %q", got)
	}
}

func TestFormatGoldenSkipsDiagnosticsForUnregisteredFiles(t *testing.T) {
	fs := source.NewFileSet()
	diags := []diag.Diagnostic{
		{Severity: diag.SevError, Code: diag.LexUnexpectedChar, Message: "stray byte", Primary: source.Span{File: 99, Start: 0, End: 1}},
	}
	if got := diag.FormatGolden(diags, fs); got != "" {
		t.Fatalf("expected empty string when the diagnostic's file isn't registered, got %q", got)
	}
}
