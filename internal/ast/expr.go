// Package ast defines the high-level abstract syntax tree produced by the
// parser. Every node carries a source span.
package ast

import (
	"hearthc/internal/source"
	"hearthc/internal/token"
)

// ExprKind discriminates the variant carried by an Expr.
type ExprKind uint8

const (
	ExprInt ExprKind = iota
	ExprFloat
	ExprString
	ExprBool
	ExprUnit
	ExprIdent
	ExprPath
	ExprBinOp
	ExprUnaryOp
	ExprField
	ExprOptionalField
	ExprCall
	ExprIf
	ExprList
	ExprListComp
	ExprStructLit
)

// BinOpKind enumerates binary operators.
type BinOpKind uint8

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	In
)

var binOpText = map[BinOpKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	And: "&&", Or: "||", In: "in",
}

func (op BinOpKind) String() string { return binOpText[op] }

// UnaryOpKind enumerates unary operators.
type UnaryOpKind uint8

const (
	Neg UnaryOpKind = iota
	Not
	Deref
	Await
)

var unaryOpText = map[UnaryOpKind]string{
	Neg: "-", Not: "!", Deref: "*", Await: "await",
}

func (op UnaryOpKind) String() string { return unaryOpText[op] }

// Expr is an expression node. Exactly one of the variant fields matching
// Kind is meaningful; this mirrors the Kind+one-struct-per-variant
// convention used throughout this compiler's IR layers.
type Expr struct {
	Kind ExprKind
	Span source.Span

	IntLit    IntLit
	FloatLit  FloatLit
	StringLit StringLit
	BoolLit   BoolLit
	UnitLit   UnitLitExpr
	Ident     IdentExpr
	Path      PathExpr
	BinOp     BinOpExpr
	UnaryOp   UnaryOpExpr
	Field     FieldExpr
	Call      CallExpr
	If        IfExpr
	List      ListExpr
	ListComp  ListCompExpr
	StructLit StructLitExpr
}

type IntLit struct{ Value int64 }
type FloatLit struct{ Value float64 }
type StringLit struct{ Value string } // decoded (escapes resolved)
type BoolLit struct{ Value bool }

// UnitLitExpr is a numeric literal fused with a unit suffix.
type UnitLitExpr struct {
	Text string // original numeric text, before the suffix
	Unit token.UnitKind
}

type IdentExpr struct{ Name string }

// PathExpr is a "::"-separated reference, e.g. Event::LightOff.
type PathExpr struct{ Segments []string }

type BinOpExpr struct {
	Op          BinOpKind
	Left, Right *Expr
}

type UnaryOpExpr struct {
	Op UnaryOpKind
	X  *Expr
}

// FieldExpr serves both Field and OptionalField; Optional distinguishes
// `.` from `?.` access.
type FieldExpr struct {
	X        *Expr
	Name     string
	Optional bool
}

// Arg is a call argument, either positional (Name == "") or named.
type Arg struct {
	Name  string
	Value *Expr
	Span  source.Span
}

type CallExpr struct {
	Func *Expr
	Args []Arg
}

type IfExpr struct {
	Cond       *Expr
	Then, Else []Stmt
}

type ListExpr struct{ Elems []*Expr }

// ListCompExpr is `[ expr for var in iter if filter? ]`.
type ListCompExpr struct {
	Expr   *Expr
	Var    string
	Iter   *Expr
	Filter *Expr // nil when no filter clause
}

// StructFieldKind discriminates a StructLit field entry.
type StructFieldKind uint8

const (
	FieldSet StructFieldKind = iota
	FieldInherit
	FieldSpread
)

// StructField is one entry of a struct literal: `name: value`,
// `inherit name`, or `...name`.
type StructField struct {
	Kind  StructFieldKind
	Name  string
	Value *Expr // set only for FieldSet
	Span  source.Span
}

type StructLitExpr struct {
	Name   string
	Fields []StructField
}
