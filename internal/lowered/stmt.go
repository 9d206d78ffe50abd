package lowered

import "hearthc/internal/ast"

// StmtKind discriminates the variant carried by a Stmt. LetMut, For, and
// Push exist only in desugared output.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtReturn

	// StmtLetMut introduces the mutable accumulator of a desugared list
	// comprehension.
	StmtLetMut
	// StmtFor is the explicit loop a list comprehension expands into.
	StmtFor
	// StmtPush appends to a mutable list by variable name, not by
	// expression.
	StmtPush
)

type Stmt struct {
	Kind   StmtKind
	Origin Origin

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

// Automation mirrors ast.Automation with its filter and body desugared.
type Automation struct {
	Kind    ast.AutomationKind
	Pattern *ast.Pattern
	Filter  *Expr
	Body    []Stmt
}

// Template mirrors ast.Template with each of its automations desugared.
type Template struct {
	Params      []ast.TemplateParam
	Automations []*Automation
}

// Program mirrors ast.Program after desugaring: exactly one of Automation
// or Template is set.
type Program struct {
	Automation *Automation
	Template   *Template
}
