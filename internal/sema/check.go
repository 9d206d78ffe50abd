package sema

import (
	"fmt"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/lowered"
	"hearthc/internal/registry"
	"hearthc/internal/source"
	"hearthc/internal/types"
)

// scope is one lexical level of the type environment Γ. A new scope is
// entered for each automation body, each if branch, each Block, and each
// for body; shadowing is permitted.
type scope struct {
	vars   map[string]types.Ty
	listTy map[string]*types.Ty // mutable-list accumulators: name -> element type cell
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]types.Ty), listTy: make(map[string]*types.Ty), parent: parent}
}

func (s *scope) lookup(name string) (types.Ty, bool) {
	for c := s; c != nil; c = c.parent {
		if ty, ok := c.vars[name]; ok {
			return ty, true
		}
	}
	return types.Ty{}, false
}

func (s *scope) lookupList(name string) (*types.Ty, bool) {
	for c := s; c != nil; c = c.parent {
		if cell, ok := c.listTy[name]; ok {
			return cell, true
		}
	}
	return nil, false
}

func (s *scope) define(name string, ty types.Ty) { s.vars[name] = ty }

// Checker type-checks a lowered program against a Registry, reporting
// diagnostics and collecting entity constraints.
type Checker struct {
	reg         registry.Registry
	reporter    diag.Reporter
	constraints []EntityConstraint
	seen        map[[3]string]bool // dedup key: domain, entity, span string
}

// NewChecker builds a Checker over reg, reporting diagnostics to rep.
func NewChecker(reg registry.Registry, rep diag.Reporter) *Checker {
	return &Checker{reg: reg, reporter: rep, seen: make(map[[3]string]bool)}
}

func (c *Checker) report(code diag.Code, span source.Span, msg string) {
	if c.reporter != nil {
		c.reporter.Report(diag.Error(code, span, msg))
	}
}

func (c *Checker) warn(code diag.Code, span source.Span, msg string) {
	if c.reporter != nil {
		c.reporter.Report(diag.Warning(code, span, msg))
	}
}

// Check type-checks a complete lowered program.
func (c *Checker) Check(p *lowered.Program) Result {
	out := &Program{}
	switch {
	case p.Automation != nil:
		out.Automation = c.checkAutomation(p.Automation)
	case p.Template != nil:
		for _, a := range p.Template.Automations {
			out.Automations = append(out.Automations, c.checkAutomation(a))
		}
	}
	return Result{Program: out, Constraints: c.constraints}
}

func (c *Checker) checkAutomation(a *lowered.Automation) *Automation {
	root := newScope(nil)
	params := c.bindPattern(root, a.Kind, a.Pattern)

	var filter *Expr
	if a.Filter != nil {
		filter = c.checkExpr(root, a.Filter)
		if !filter.Ty.Equal(types.TyBool) && filter.Ty.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, a.Filter.Origin.Span(),
				fmt.Sprintf("filter must be Bool, found %s", filter.Ty))
		}
	}

	body := c.checkStmts(root, a.Body)
	return &Automation{Kind: a.Kind, Pattern: a.Pattern, Params: params, Filter: filter, Body: body}
}

// bindPattern binds the top-level automation pattern's fields against the
// registry's declared event/mutation payload schema and returns the leaf
// bindings in traversal order for the lowerer's Param extraction. Whether
// a bare identifier pattern is legal here is decided at check time, not
// parse time: it is rejected.
func (c *Checker) bindPattern(s *scope, kind ast.AutomationKind, p *ast.Pattern) []BoundParam {
	if p == nil {
		return nil
	}
	if p.Kind == ast.PatternIdent {
		c.report(diag.CheckReservedIdentifier, p.Span,
			"a bare identifier is not a valid top-level automation pattern; use a struct pattern")
		return nil
	}
	schema, ok := c.reg.PatternSchema(kind.String())
	if !ok {
		c.report(diag.CheckUndefinedName, p.Span, fmt.Sprintf("no pattern schema registered for %q automations", kind.String()))
		return nil
	}
	var params []BoundParam
	c.bindStructPattern(s, p, schema, &params)
	return params
}

func (c *Checker) bindStructPattern(s *scope, p *ast.Pattern, schema registry.StructSchema, params *[]BoundParam) {
	fieldTypes := make(map[string]types.Ty, len(schema.Fields))
	for _, f := range schema.Fields {
		fieldTypes[f.Name] = f.Type
	}
	for _, fp := range p.Struct.Fields {
		ty, ok := fieldTypes[fp.Name]
		if !ok {
			c.report(diag.CheckUnknownField, fp.Span, fmt.Sprintf("unknown pattern field %q", fp.Name))
			ty = types.TyError
		}
		if fp.Pattern != nil {
			if fp.Pattern.Kind == ast.PatternStruct {
				nested, ok := c.reg.ResolveType(ty.Named)
				if ok && nested.Kind == registry.SchemaStruct {
					c.bindStructPattern(s, fp.Pattern, *nested.Struct, params)
				} else {
					c.bindStructPattern(s, fp.Pattern, registry.StructSchema{}, params)
				}
			} else {
				s.define(fp.Pattern.Ident.Name, ty)
				*params = append(*params, BoundParam{Name: fp.Pattern.Ident.Name, Ty: ty})
			}
		} else {
			s.define(fp.Name, ty)
			*params = append(*params, BoundParam{Name: fp.Name, Ty: ty})
		}
	}
}

func (c *Checker) checkStmts(parent *scope, stmts []lowered.Stmt) []Stmt {
	s := newScope(parent)
	out := make([]Stmt, len(stmts))
	for i := range stmts {
		out[i] = c.checkStmt(s, &stmts[i])
	}
	return out
}

func (c *Checker) checkStmt(s *scope, st *lowered.Stmt) Stmt {
	switch st.Kind {
	case lowered.StmtLet:
		value := c.checkExpr(s, st.Let.Value)
		s.define(st.Let.Name, value.Ty)
		return Stmt{Kind: lowered.StmtLet, Origin: st.Origin, Let: LetStmt{Name: st.Let.Name, Value: value}}
	case lowered.StmtLetMut:
		value := c.checkExpr(s, st.LetMut.Value)
		cell := new(types.Ty)
		*cell = types.TyError
		s.listTy[st.LetMut.Name] = cell
		// Elem aliases cell itself (not a copy of its current value), so
		// later Pushes that narrow the element type are visible to every
		// prior reference to this list's Γ entry — e.g. the comprehension
		// block's trailing `result` identifier.
		s.define(st.LetMut.Name, types.Ty{Kind: types.List, Elem: cell})
		return Stmt{Kind: lowered.StmtLetMut, Origin: st.Origin, LetMut: LetMutStmt{Name: st.LetMut.Name, Value: value}}
	case lowered.StmtExpr:
		value := c.checkExpr(s, st.Expr.X)
		return Stmt{Kind: lowered.StmtExpr, Origin: st.Origin, Expr: ExprStmt{X: value}}
	case lowered.StmtReturn:
		value := c.checkExpr(s, st.Return.Value)
		return Stmt{Kind: lowered.StmtReturn, Origin: st.Origin, Return: ReturnStmt{Value: value}}
	case lowered.StmtFor:
		iter := c.checkExpr(s, st.For.Iter)
		elemTy := elementTypeOf(iter.Ty)
		body := newScope(s)
		body.define(st.For.Var, elemTy)
		bodyStmts := make([]Stmt, len(st.For.Body))
		for i := range st.For.Body {
			bodyStmts[i] = c.checkStmt(body, &st.For.Body[i])
		}
		return Stmt{Kind: lowered.StmtFor, Origin: st.Origin, For: ForStmt{Var: st.For.Var, Iter: iter, Body: bodyStmts}}
	case lowered.StmtPush:
		cell, ok := s.lookupList(st.Push.List)
		value := c.checkExpr(s, st.Push.Value)
		switch {
		case !ok:
			c.report(diag.CheckUnknownMutableList, st.Origin.Span(), fmt.Sprintf("%q is not a mutable list", st.Push.List))
		case value.Ty.Kind == types.Error:
			// Already poisoned; propagate without a new diagnostic.
		case cell.Kind == types.Error:
			*cell = value.Ty
		case !cell.Equal(value.Ty):
			c.report(diag.CheckTypeMismatch, st.Origin.Span(),
				fmt.Sprintf("pushed value type %s does not match list element type %s", value.Ty, *cell))
		}
		return Stmt{Kind: lowered.StmtPush, Origin: st.Origin, Push: PushStmt{List: st.Push.List, Value: value}}
	default:
		return Stmt{Kind: st.Kind, Origin: st.Origin}
	}
}

// elementTypeOf extracts T from a List<T>/Set<T>/Map<T,_> used as a `for`
// iteration source; anything else reports no new diagnostic since the
// iterator expression's own check already surfaced one if it was ill-typed.
func elementTypeOf(t types.Ty) types.Ty {
	switch t.Kind {
	case types.List, types.Set:
		if t.Elem != nil {
			return *t.Elem
		}
	case types.Map:
		if t.Key != nil {
			return *t.Key
		}
	}
	return types.TyError
}
