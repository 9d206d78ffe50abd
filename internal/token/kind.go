// Package token defines the lexical token kinds for the automations
// language and the Token value the lexer produces.
package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	// Literals. Boolean literals are spelled as the KwTrue/KwFalse
	// keywords below, not a separate literal kind.
	Int
	Float
	String
	UnitLit

	Ident

	// Keywords
	KwObserver
	KwMutator
	KwLet
	KwIf
	KwElse
	KwFor
	KwIn
	KwAwait
	KwInherit
	KwMatch
	KwReturn
	KwTrue
	KwFalse

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Bang
	Question
	Dot
	DotDotDot
	Assign

	// Delimiters
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	ColonColon
	Semicolon
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Int:        "int",
	Float:      "float",
	String:     "string",
	UnitLit:    "unit-literal",
	Ident:      "ident",
	KwObserver: "observer",
	KwMutator:  "mutator",
	KwLet:      "let",
	KwIf:       "if",
	KwElse:     "else",
	KwFor:      "for",
	KwIn:       "in",
	KwAwait:    "await",
	KwInherit:  "inherit",
	KwMatch:    "match",
	KwReturn:   "return",
	KwTrue:     "true",
	KwFalse:    "false",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Bang:       "!",
	Question:   "?",
	Dot:        ".",
	DotDotDot:  "...",
	Assign:     "=",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	Comma:      ",",
	Colon:      ":",
	ColonColon: "::",
	Semicolon:  ";",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Keywords maps the reserved-word spelling to its Kind.
var Keywords = map[string]Kind{
	"observer": KwObserver,
	"mutator":  KwMutator,
	"let":      KwLet,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"in":       KwIn,
	"await":    KwAwait,
	"inherit":  KwInherit,
	"match":    KwMatch,
	"return":   KwReturn,
	"true":     KwTrue,
	"false":    KwFalse,
}
