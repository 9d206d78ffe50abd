package ast

import "hearthc/internal/source"

// PatternKind discriminates the variant carried by a Pattern.
type PatternKind uint8

const (
	PatternIdent PatternKind = iota
	PatternStruct
)

// Pattern is a destructuring pattern. Top-level automation patterns
// must be PatternStruct; whether a bare PatternIdent is accepted at all
// is resolved at check time, not parse time.
type Pattern struct {
	Kind   PatternKind
	Span   source.Span
	Ident  IdentPattern
	Struct StructPattern
}

type IdentPattern struct{ Name string }

// StructPattern is `{ field_pattern*, rest? }`.
type StructPattern struct {
	Fields []FieldPattern
	Rest   bool
}

// FieldPattern binds one struct field, optionally recursing into a nested
// pattern. A nil Pattern means the field binds its own name directly.
type FieldPattern struct {
	Name    string
	Pattern *Pattern
	Span    source.Span
}

// AutomationKind distinguishes observer from mutator automations.
type AutomationKind uint8

const (
	Observer AutomationKind = iota
	Mutator
)

func (k AutomationKind) String() string {
	if k == Mutator {
		return "mutator"
	}
	return "observer"
}

// Automation is a declarative unit: pattern + filter + body.
type Automation struct {
	Kind    AutomationKind
	Pattern *Pattern
	Filter  *Expr
	Body    []Stmt
	Span    source.Span
}

// TemplateParam is one parameter of a Template.
type TemplateParam struct {
	Name string
	Type *TypeSyn
	Span source.Span
}

// Template declares parameters and a set of automations it expands to. The
// core parses templates but does not exercise them further.
type Template struct {
	Params      []TemplateParam
	Automations []*Automation
	Span        source.Span
}

// Program is the top-level parse result: either a single Automation or a
// Template.
type Program struct {
	Automation *Automation
	Template   *Template
	Span       source.Span
}
