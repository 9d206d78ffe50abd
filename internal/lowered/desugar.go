package lowered

import (
	"fmt"

	"hearthc/internal/ast"
)

// Desugarer expands list comprehensions into explicit loop constructs while
// translating an ast.Program into a lowered.Program. Each Desugarer owns an
// independent fresh-name counter, so concurrent compilations never
// collide on generated names.
type Desugarer struct {
	counter int
}

// NewDesugarer returns a Desugarer with a zeroed fresh-name counter.
func NewDesugarer() *Desugarer { return &Desugarer{} }

// freshName returns a new name of the form "__prefixN", where N is
// monotonically increasing within this Desugarer.
func (d *Desugarer) freshName(prefix string) string {
	name := fmt.Sprintf("__%s%d", prefix, d.counter)
	d.counter++
	return name
}

// DesugarProgram lowers a complete parsed program.
func (d *Desugarer) DesugarProgram(p *ast.Program) *Program {
	switch {
	case p.Automation != nil:
		return &Program{Automation: d.DesugarAutomation(p.Automation)}
	case p.Template != nil:
		autos := make([]*Automation, len(p.Template.Automations))
		for i, a := range p.Template.Automations {
			autos[i] = d.DesugarAutomation(a)
		}
		return &Program{Template: &Template{Params: p.Template.Params, Automations: autos}}
	default:
		return &Program{}
	}
}

// DesugarAutomation lowers one automation's filter and body.
func (d *Desugarer) DesugarAutomation(a *ast.Automation) *Automation {
	var filter *Expr
	if a.Filter != nil {
		filter = d.desugarExpr(a.Filter)
	}
	body := make([]Stmt, len(a.Body))
	for i := range a.Body {
		body[i] = d.desugarStmt(&a.Body[i])
	}
	return &Automation{Kind: a.Kind, Pattern: a.Pattern, Filter: filter, Body: body}
}

// desugarStmt borrows its Origin from the desugared inner expression — a
// statement has no AST node of its own to point at.
func (d *Desugarer) desugarStmt(s *ast.Stmt) Stmt {
	switch s.Kind {
	case ast.StmtLet:
		value := d.desugarExpr(s.Let.Value)
		return Stmt{Kind: StmtLet, Origin: value.Origin, Let: LetStmt{Name: s.Let.Name, Value: value}}
	case ast.StmtReturn:
		value := d.desugarExpr(s.Return.Value)
		return Stmt{Kind: StmtReturn, Origin: value.Origin, Return: ReturnStmt{Value: value}}
	default: // ast.StmtExpr
		value := d.desugarExpr(s.Expr.X)
		return Stmt{Kind: StmtExpr, Origin: value.Origin, Expr: ExprStmt{X: value}}
	}
}

// desugarExpr translates one AST expression node. Every case but ListComp
// is a 1:1 structural mapping carrying a Direct origin back to e; ListComp
// is the one case that expands into a synthetic Block.
func (d *Desugarer) desugarExpr(e *ast.Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprInt:
		return &Expr{Kind: ExprInt, Origin: DirectOrigin(e), IntLit: e.IntLit}
	case ast.ExprFloat:
		return &Expr{Kind: ExprFloat, Origin: DirectOrigin(e), FloatLit: e.FloatLit}
	case ast.ExprString:
		return &Expr{Kind: ExprString, Origin: DirectOrigin(e), StringLit: e.StringLit}
	case ast.ExprBool:
		return &Expr{Kind: ExprBool, Origin: DirectOrigin(e), BoolLit: e.BoolLit}
	case ast.ExprUnit:
		return &Expr{Kind: ExprUnit, Origin: DirectOrigin(e), UnitLit: e.UnitLit}
	case ast.ExprIdent:
		return &Expr{Kind: ExprIdent, Origin: DirectOrigin(e), Ident: e.Ident}
	case ast.ExprPath:
		return &Expr{Kind: ExprPath, Origin: DirectOrigin(e), Path: e.Path}
	case ast.ExprBinOp:
		return &Expr{
			Kind: ExprBinOp, Origin: DirectOrigin(e),
			BinOp: BinOpExpr{Op: e.BinOp.Op, Left: d.desugarExpr(e.BinOp.Left), Right: d.desugarExpr(e.BinOp.Right)},
		}
	case ast.ExprUnaryOp:
		return &Expr{
			Kind: ExprUnaryOp, Origin: DirectOrigin(e),
			UnaryOp: UnaryOpExpr{Op: e.UnaryOp.Op, X: d.desugarExpr(e.UnaryOp.X)},
		}
	case ast.ExprField, ast.ExprOptionalField:
		return &Expr{
			Kind: exprFieldKind(e.Kind), Origin: DirectOrigin(e),
			Field: FieldExpr{X: d.desugarExpr(e.Field.X), Name: e.Field.Name, Optional: e.Field.Optional},
		}
	case ast.ExprCall:
		args := make([]Arg, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = Arg{Name: a.Name, Value: d.desugarExpr(a.Value)}
		}
		return &Expr{Kind: ExprCall, Origin: DirectOrigin(e), Call: CallExpr{Func: d.desugarExpr(e.Call.Func), Args: args}}
	case ast.ExprIf:
		// Else stays nil when the source had no else clause at all (as
		// opposed to an explicit empty one) — that distinction is what the
		// checker's join rule (else absent => type Unit) keys off of.
		var elseStmts []Stmt
		if e.If.Else != nil {
			elseStmts = d.desugarStmts(e.If.Else)
		}
		return &Expr{
			Kind: ExprIf, Origin: DirectOrigin(e),
			If: IfExpr{Cond: d.desugarExpr(e.If.Cond), Then: d.desugarStmts(e.If.Then), Else: elseStmts},
		}
	case ast.ExprList:
		elems := make([]*Expr, len(e.List.Elems))
		for i, el := range e.List.Elems {
			elems[i] = d.desugarExpr(el)
		}
		return &Expr{Kind: ExprList, Origin: DirectOrigin(e), List: ListExpr{Elems: elems}}
	case ast.ExprStructLit:
		fields := make([]StructField, len(e.StructLit.Fields))
		for i, f := range e.StructLit.Fields {
			fields[i] = StructField{Kind: f.Kind, Name: f.Name, Value: d.desugarExpr(f.Value)}
		}
		return &Expr{Kind: ExprStructLit, Origin: DirectOrigin(e), StructLit: StructLitExpr{Name: e.StructLit.Name, Fields: fields}}
	case ast.ExprListComp:
		return d.desugarListComp(e)
	default:
		return &Expr{Kind: ExprIdent, Origin: DirectOrigin(e), Ident: ast.IdentExpr{Name: "<error>"}}
	}
}

func exprFieldKind(k ast.ExprKind) ExprKind {
	if k == ast.ExprOptionalField {
		return ExprOptionalField
	}
	return ExprField
}

func (d *Desugarer) desugarStmts(stmts []ast.Stmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i := range stmts {
		out[i] = d.desugarStmt(&stmts[i])
	}
	return out
}

// desugarListComp expands `[expr for var in iter if filter?]` into:
//
//	{
//	    let mut __resultN = MutableList;
//	    for var in iter {
//	        [if filter {] push(__resultN, expr); [}]
//	    }
//	    __resultN
//	}
//
// Every synthetic node produced here shares one ListCompSource, the
// refcounted-origin discipline that lets a diagnostic on expanded code
// still point at the comprehension that produced it.
func (d *Desugarer) desugarListComp(e *ast.Expr) *Expr {
	src := &ListCompSource{Expr: e}
	origin := ListCompOrigin(src)

	resultVar := d.freshName("result")
	loweredIter := d.desugarExpr(e.ListComp.Iter)
	loweredBody := d.desugarExpr(e.ListComp.Expr)

	pushStmt := Stmt{
		Kind: StmtPush, Origin: origin,
		Push: PushStmt{List: resultVar, Value: loweredBody},
	}

	var forBody []Stmt
	if e.ListComp.Filter != nil {
		loweredFilter := d.desugarExpr(e.ListComp.Filter)
		forBody = []Stmt{{
			Kind: StmtExpr, Origin: origin,
			Expr: ExprStmt{X: &Expr{
				Kind: ExprIf, Origin: origin,
				If: IfExpr{Cond: loweredFilter, Then: []Stmt{pushStmt}, Else: nil},
			}},
		}}
	} else {
		forBody = []Stmt{pushStmt}
	}

	forStmt := Stmt{
		Kind: StmtFor, Origin: origin,
		For: ForStmt{Var: e.ListComp.Var, Iter: loweredIter, Body: forBody},
	}

	letMutStmt := Stmt{
		Kind: StmtLetMut, Origin: origin,
		LetMut: LetMutStmt{Name: resultVar, Value: &Expr{Kind: ExprMutableList, Origin: origin}},
	}

	result := &Expr{Kind: ExprIdent, Origin: origin, Ident: ast.IdentExpr{Name: resultVar}}

	return &Expr{
		Kind: ExprBlock, Origin: origin,
		Block: BlockExpr{Stmts: []Stmt{letMutStmt, forStmt}, Result: result},
	}
}
