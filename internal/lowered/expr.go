package lowered

import "hearthc/internal/ast"

// ExprKind discriminates the variant carried by an Expr. It mirrors
// ast.ExprKind 1:1 except that ListComp never survives desugaring, and two
// synthetic kinds — Block and MutableList — appear only in desugared output.
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
	ExprStructLit

	// ExprBlock is synthetic: a statement list followed by a result
	// expression, produced only by list-comprehension desugaring.
	ExprBlock
	// ExprMutableList is synthetic: allocates the accumulator list a
	// desugared comprehension pushes into.
	ExprMutableList
)

// Expr is a lowered expression node, carrying an Origin instead of a raw
// span.
type Expr struct {
	Kind   ExprKind
	Origin Origin

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

// BlockExpr is `{ stmts...; result }`, synthesized by comprehension
// desugaring so the comprehension's expansion can appear in expression
// position.
type BlockExpr struct {
	Stmts  []Stmt
	Result *Expr
}
