package diag

import "hearthc/internal/source"

// Reporter decouples a pass from how its diagnostics are collected. The
// lexer, parser, checker, and lowerer each take a Reporter rather than a
// concrete *Bag so they can be driven by tests without constructing a bag,
// and so a caller can fan diagnostics from several passes into one bag.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a *Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

// Report adds d to the underlying bag.
func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Error is a convenience constructor for an error-severity diagnostic.
func Error(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: primary}
}

// Warning is a convenience constructor for a warning-severity diagnostic.
func Warning(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevWarning, Code: code, Message: msg, Primary: primary}
}
