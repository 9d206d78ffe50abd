package diag

import "hearthc/internal/source"

// Note attaches a secondary span with an explanatory label to a Diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single reported issue. Rendering (source snippets,
// colour, squiggles) is an external concern; the core only ever produces
// this record.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// WithNote returns a copy of d with an additional secondary note.
func (d Diagnostic) WithNote(span source.Span, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Span: span, Msg: msg})
	return d
}
