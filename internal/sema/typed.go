// Package sema type-checks a lowered program against a registry, producing
// a typed AST, entity constraints, and diagnostics.
package sema

import (
	"hearthc/internal/ast"
	"hearthc/internal/lowered"
	"hearthc/internal/source"
	"hearthc/internal/types"
)

// Expr mirrors lowered.Expr 1:1 with an added Ty field on every node.
type Expr struct {
	Kind   lowered.ExprKind
	Origin lowered.Origin
	Ty     types.Ty

	IntLit    ast.IntLit
	FloatLit  ast.FloatLit
	StringLit ast.StringLit
	BoolLit   ast.BoolLit
	UnitLit   ast.UnitLitExpr
	Ident     ast.IdentExpr
	Path      ast.PathExpr
	BinOp     BinOpExpr
	UnaryOp   UnaryOpExpr
	Field     FieldExpr
	Call      CallExpr
	If        IfExpr
	List      ListExpr
	StructLit StructLitExpr
	Block     BlockExpr
}

type BinOpExpr struct {
	Op          ast.BinOpKind
	Left, Right *Expr
}

type UnaryOpExpr struct {
	Op ast.UnaryOpKind
	X  *Expr
}

type FieldExpr struct {
	X        *Expr
	Name     string
	Optional bool
}

type Arg struct {
	Name  string
	Value *Expr
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

type StructField struct {
	Kind  ast.StructFieldKind
	Name  string
	Value *Expr
}

type StructLitExpr struct {
	Name   string
	Fields []StructField
}

type BlockExpr struct {
	Stmts  []Stmt
	Result *Expr
}

// StmtKind mirrors lowered.StmtKind.
type StmtKind = lowered.StmtKind

type Stmt struct {
	Kind   StmtKind
	Origin lowered.Origin

	Let    LetStmt
	Expr   ExprStmt
	Return ReturnStmt
	LetMut LetMutStmt
	For    ForStmt
	Push   PushStmt
}

type LetStmt struct {
	Name  string
	Value *Expr
}

type ExprStmt struct{ X *Expr }

type ReturnStmt struct{ Value *Expr }

type LetMutStmt struct {
	Name  string
	Value *Expr
}

type ForStmt struct {
	Var  string
	Iter *Expr
	Body []Stmt
}

type PushStmt struct {
	List  string
	Value *Expr
}

// BoundParam is one leaf binding extracted from a top-level automation
// pattern, in traversal order, with its declared type resolved from the
// registry's event/mutation schema. The lowerer turns these directly into
// HIR Params.
type BoundParam struct {
	Name string
	Ty   types.Ty
}

// Automation is a fully-typed automation: pattern fields are bound with
// declared types, filter and body carry resolved types throughout.
type Automation struct {
	Kind    ast.AutomationKind
	Pattern *ast.Pattern
	Params  []BoundParam
	Filter  *Expr
	Body    []Stmt
}

// Program mirrors lowered.Program after type assignment.
type Program struct {
	Automation  *Automation
	Automations []*Automation
}

// EntityConstraint records a field access on a registered entity domain for
// external (runtime) validation. Emitted exactly once per distinct
// (Domain, Entity, Span).
type EntityConstraint struct {
	Domain string
	Entity string
	Span   source.Span
}

// Result is the output of a complete check pass.
type Result struct {
	Program     *Program
	Constraints []EntityConstraint
}
