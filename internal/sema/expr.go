package sema

import (
	"fmt"
	"strings"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/lowered"
	"hearthc/internal/registry"
	"hearthc/internal/source"
	"hearthc/internal/token"
	"hearthc/internal/types"
)

// checkExpr assigns a semantic type to every node of a lowered expression
// tree, mirroring its shape 1:1 into the typed tree. Error absorbs
// everywhere: once a subexpression is Error, no further diagnostic is
// raised for expressions built from it.
func (c *Checker) checkExpr(s *scope, e *lowered.Expr) *Expr {
	switch e.Kind {
	case lowered.ExprInt:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyInt, IntLit: e.IntLit}
	case lowered.ExprFloat:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyFloat, FloatLit: e.FloatLit}
	case lowered.ExprString:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyString, StringLit: e.StringLit}
	case lowered.ExprBool:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyBool, BoolLit: e.BoolLit}
	case lowered.ExprUnit:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: unitLiteralType(e.UnitLit), UnitLit: e.UnitLit}
	case lowered.ExprIdent:
		return c.checkIdent(s, e)
	case lowered.ExprPath:
		return c.checkPath(s, e)
	case lowered.ExprBinOp:
		return c.checkBinOp(s, e)
	case lowered.ExprUnaryOp:
		return c.checkUnaryOp(s, e)
	case lowered.ExprField, lowered.ExprOptionalField:
		return c.checkField(s, e)
	case lowered.ExprCall:
		return c.checkCall(s, e)
	case lowered.ExprIf:
		return c.checkIf(s, e)
	case lowered.ExprList:
		return c.checkList(s, e)
	case lowered.ExprStructLit:
		return c.checkStructLit(s, e)
	case lowered.ExprBlock:
		return c.checkBlock(s, e)
	case lowered.ExprMutableList:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.ListOf(types.TyError)}
	default:
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyError}
	}
}

func unitLiteralType(u ast.UnitLitExpr) types.Ty {
	switch u.Unit.Family() {
	case token.FamilyDuration:
		return types.TyDuration
	case token.FamilyAngle:
		return types.TyAngle
	case token.FamilyTemperature:
		return types.TyTemperature
	default:
		return types.TyError
	}
}

func (c *Checker) checkIdent(s *scope, e *lowered.Expr) *Expr {
	if ty, ok := s.lookup(e.Ident.Name); ok {
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: ty, Ident: e.Ident}
	}
	if res, ok := c.reg.ResolveType(e.Ident.Name); ok && res.Kind == registry.SchemaEntityDomain {
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: c.reg.EntityType(res.EntityDomain), Ident: e.Ident}
	}
	if sig, ok := c.reg.ResolveCallable(e.Ident.Name); ok {
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: sig.ResultType, Ident: e.Ident}
	}
	c.report(diag.CheckUndefinedName, e.Origin.Span(), fmt.Sprintf("undefined name %q", e.Ident.Name))
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyError, Ident: e.Ident}
}

func (c *Checker) checkPath(s *scope, e *lowered.Expr) *Expr {
	if v, ok := c.reg.ResolveVariant(e.Path.Segments); ok {
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.Variant(v.EnumName, v.VariantName), Path: e.Path}
	}
	c.report(diag.CheckUndefinedName, e.Origin.Span(), fmt.Sprintf("undefined path %q", strings.Join(e.Path.Segments, "::")))
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyError, Path: e.Path}
}

func (c *Checker) checkBinOp(s *scope, e *lowered.Expr) *Expr {
	left := c.checkExpr(s, e.BinOp.Left)
	right := c.checkExpr(s, e.BinOp.Right)
	ty := c.binOpType(e.Origin, e.BinOp.Op, left.Ty, right.Ty)
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: ty, BinOp: BinOpExpr{Op: e.BinOp.Op, Left: left, Right: right}}
}

func (c *Checker) binOpType(origin lowered.Origin, op ast.BinOpKind, l, r types.Ty) types.Ty {
	if l.Kind == types.Error || r.Kind == types.Error {
		return types.TyError
	}
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		if l.IsNumeric() && l.Equal(r) {
			return l
		}
		c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("arithmetic %s requires matching numeric operands, found %s and %s", op, l, r))
		return types.TyError
	case ast.Eq, ast.Ne:
		if l.Equal(r) {
			return types.TyBool
		}
		c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("%s requires operands of the same type, found %s and %s", op, l, r))
		return types.TyBool
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if l.Equal(r) {
			return types.TyBool
		}
		c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("comparison requires operands of the same type, found %s and %s", l, r))
		return types.TyBool
	case ast.In:
		elem := elementTypeOf(r)
		if !elem.Equal(l) && elem.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("'in' left operand %s does not match container element type %s", l, elem))
		}
		return types.TyBool
	case ast.And, ast.Or:
		if !l.Equal(types.TyBool) || !r.Equal(types.TyBool) {
			c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("%s requires Bool operands, found %s and %s", op, l, r))
		}
		return types.TyBool
	default:
		return types.TyError
	}
}

func (c *Checker) checkUnaryOp(s *scope, e *lowered.Expr) *Expr {
	x := c.checkExpr(s, e.UnaryOp.X)
	ty := types.TyError
	switch e.UnaryOp.Op {
	case ast.Not:
		if x.Ty.Equal(types.TyBool) {
			ty = types.TyBool
		} else if x.Ty.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("'!' requires Bool, found %s", x.Ty))
		}
	case ast.Neg:
		if x.Ty.IsNumeric() {
			ty = x.Ty
		} else if x.Ty.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("unary '-' requires a numeric/quantity type, found %s", x.Ty))
		}
	case ast.Deref:
		if x.Ty.Kind == types.Option {
			c.warn(diag.CheckReservedIdentifier, e.Origin.Span(), "prefer a pattern over dereferencing an Option directly")
			ty = *x.Ty.Elem
		} else if x.Ty.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("deref requires Option<T>, found %s", x.Ty))
		}
	case ast.Await:
		if x.Ty.Kind == types.Future {
			ty = *x.Ty.Elem
		} else if x.Ty.Kind != types.Error {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("await requires Future<T>, found %s", x.Ty))
		}
	}
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: ty, UnaryOp: UnaryOpExpr{Op: e.UnaryOp.Op, X: x}}
}

func (c *Checker) checkField(s *scope, e *lowered.Expr) *Expr {
	x := c.checkExpr(s, e.Field.X)
	optional := e.Kind == lowered.ExprOptionalField
	var fieldTy types.Ty
	switch {
	case x.Ty.Kind == types.Error:
		fieldTy = types.TyError
	case x.Ty.Kind == types.Named && c.reg.IsEntityDomain(x.Ty.Named):
		domain := x.Ty.Named
		c.emitEntityConstraint(domain, e.Field.Name, e.Origin.Span())
		fieldTy = c.reg.EntityType(domain)
	case x.Ty.Kind == types.Named:
		ty, ok := c.reg.FieldType(x.Ty.Named, e.Field.Name)
		if !ok {
			c.report(diag.CheckUnknownField, e.Origin.Span(), fmt.Sprintf("unknown field %q on %s", e.Field.Name, x.Ty))
			fieldTy = types.TyError
		} else {
			fieldTy = ty
		}
	case optional && x.Ty.Kind == types.Option:
		inner := *x.Ty.Elem
		if inner.Kind == types.Named {
			if ty, ok := c.reg.FieldType(inner.Named, e.Field.Name); ok {
				fieldTy = ty
			} else {
				c.report(diag.CheckUnknownField, e.Origin.Span(), fmt.Sprintf("unknown field %q on %s", e.Field.Name, inner))
				fieldTy = types.TyError
			}
		} else {
			fieldTy = types.TyError
		}
	default:
		c.report(diag.CheckUnknownField, e.Origin.Span(), fmt.Sprintf("type %s has no fields", x.Ty))
		fieldTy = types.TyError
	}
	if optional && fieldTy.Kind != types.Error && fieldTy.Kind != types.Option {
		fieldTy = types.OptionOf(fieldTy)
	}
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: fieldTy, Field: FieldExpr{X: x, Name: e.Field.Name, Optional: e.Field.Optional}}
}

func (c *Checker) emitEntityConstraint(domain, entity string, span source.Span) {
	key := [3]string{domain, entity, span.String()}
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.constraints = append(c.constraints, EntityConstraint{Domain: domain, Entity: entity, Span: span})
}

// checkCall resolves the callee as an enum-variant constructor before a
// plain callable: ResolveVariant takes priority over ResolveCallable
// when func is a bare Path.
func (c *Checker) checkCall(s *scope, e *lowered.Expr) *Expr {
	args := make([]Arg, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = Arg{Name: a.Name, Value: c.checkExpr(s, a.Value)}
	}

	if e.Call.Func.Kind == lowered.ExprPath {
		if v, ok := c.reg.ResolveVariant(e.Call.Func.Path.Segments); ok {
			c.checkArgsAgainstVariant(e.Origin, v, args)
			func_ := c.checkExpr(s, e.Call.Func)
			return &Expr{
				Kind: e.Kind, Origin: e.Origin, Ty: types.Variant(v.EnumName, v.VariantName),
				Call: CallExpr{Func: func_, Args: args},
			}
		}
	}

	callee := c.checkExpr(s, e.Call.Func)
	name := calleeName(e.Call.Func)
	sig, ok := c.reg.ResolveCallable(name)
	if !ok {
		if callee.Ty.Kind != types.Error {
			c.report(diag.CheckNotCallable, e.Origin.Span(), fmt.Sprintf("%q is not callable", name))
		}
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyError, Call: CallExpr{Func: callee, Args: args}}
	}
	c.checkArgsAgainstParams(e.Origin, sig.Params, args)
	resultTy := sig.ResultType
	if sig.Async {
		resultTy = types.FutureOf(resultTy)
	}
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: resultTy, Call: CallExpr{Func: callee, Args: args}}
}

func calleeName(e *lowered.Expr) string {
	if e.Kind == lowered.ExprIdent {
		return e.Ident.Name
	}
	if e.Kind == lowered.ExprPath {
		return strings.Join(e.Path.Segments, "::")
	}
	return "<expr>"
}

func (c *Checker) checkArgsAgainstVariant(origin lowered.Origin, v registry.VariantResolution, args []Arg) {
	if len(args) != len(v.ArgTypes) {
		c.report(diag.CheckArityMismatch, origin.Span(),
			fmt.Sprintf("%s::%s expects %d argument(s), found %d", v.EnumName, v.VariantName, len(v.ArgTypes), len(args)))
		return
	}
	for i, a := range args {
		if a.Value.Ty.Kind == types.Error {
			continue
		}
		if !a.Value.Ty.Equal(v.ArgTypes[i]) {
			c.report(diag.CheckTypeMismatch, origin.Span(),
				fmt.Sprintf("%s::%s argument %d: expected %s, found %s", v.EnumName, v.VariantName, i, v.ArgTypes[i], a.Value.Ty))
		}
	}
}

func (c *Checker) checkArgsAgainstParams(origin lowered.Origin, params []registry.Param, args []Arg) {
	if len(args) != len(params) {
		c.report(diag.CheckArityMismatch, origin.Span(), fmt.Sprintf("expected %d argument(s), found %d", len(params), len(args)))
		return
	}
	byName := make(map[string]registry.Param, len(params))
	for _, p := range params {
		if p.Name != "" {
			byName[p.Name] = p
		}
	}
	for i, a := range args {
		var want registry.Param
		if a.Name != "" {
			p, ok := byName[a.Name]
			if !ok {
				c.report(diag.CheckUnknownField, origin.Span(), fmt.Sprintf("unknown named argument %q", a.Name))
				continue
			}
			want = p
		} else {
			want = params[i]
		}
		if a.Value.Ty.Kind == types.Error {
			continue
		}
		if !a.Value.Ty.Equal(want.Type) {
			c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("argument %d: expected %s, found %s", i, want.Type, a.Value.Ty))
		}
	}
}

func (c *Checker) checkIf(s *scope, e *lowered.Expr) *Expr {
	cond := c.checkExpr(s, e.If.Cond)
	if !cond.Ty.Equal(types.TyBool) && cond.Ty.Kind != types.Error {
		c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("if condition must be Bool, found %s", cond.Ty))
	}
	then := c.checkStmts(s, e.If.Then)
	var elseStmts []Stmt
	hasElse := e.If.Else != nil
	if hasElse {
		elseStmts = c.checkStmts(s, e.If.Else)
	}
	ty := types.TyUnit
	if hasElse {
		thenTy := trailingType(then)
		elseTy := trailingType(elseStmts)
		if thenTy.Kind != types.Error && elseTy.Kind != types.Error && !thenTy.Equal(elseTy) {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("if branches diverge: %s vs %s", thenTy, elseTy))
			ty = types.TyError
		} else if thenTy.Kind == types.Error {
			ty = elseTy
		} else {
			ty = thenTy
		}
	}
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: ty, If: IfExpr{Cond: cond, Then: then, Else: elseStmts}}
}

func trailingType(stmts []Stmt) types.Ty {
	if len(stmts) == 0 {
		return types.TyUnit
	}
	last := stmts[len(stmts)-1]
	if last.Kind == lowered.StmtExpr {
		return last.Expr.X.Ty
	}
	return types.TyUnit
}

func (c *Checker) checkList(s *scope, e *lowered.Expr) *Expr {
	elems := make([]*Expr, len(e.List.Elems))
	elemTy := types.TyError
	for i, el := range e.List.Elems {
		elems[i] = c.checkExpr(s, el)
		if i == 0 {
			elemTy = elems[i].Ty
		} else if elemTy.Kind != types.Error && elems[i].Ty.Kind != types.Error && !elemTy.Equal(elems[i].Ty) {
			c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("list elements must unify: %s vs %s", elemTy, elems[i].Ty))
		}
	}
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.ListOf(elemTy), List: ListExpr{Elems: elems}}
}

func (c *Checker) checkStructLit(s *scope, e *lowered.Expr) *Expr {
	res, ok := c.reg.ResolveType(e.StructLit.Name)
	if !ok || res.Kind != registry.SchemaStruct {
		c.report(diag.CheckUndefinedName, e.Origin.Span(), fmt.Sprintf("unknown struct type %q", e.StructLit.Name))
		fields := make([]StructField, len(e.StructLit.Fields))
		for i, f := range e.StructLit.Fields {
			var val *Expr
			if f.Value != nil {
				val = c.checkExpr(s, f.Value)
			}
			fields[i] = StructField{Kind: f.Kind, Name: f.Name, Value: val}
		}
		return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.TyError, StructLit: StructLitExpr{Name: e.StructLit.Name, Fields: fields}}
	}

	declared := make(map[string]types.Ty, len(res.Struct.Fields))
	for _, f := range res.Struct.Fields {
		declared[f.Name] = f.Type
	}
	provided := make(map[string]bool, len(e.StructLit.Fields))
	fields := make([]StructField, len(e.StructLit.Fields))

	for i, f := range e.StructLit.Fields {
		switch f.Kind {
		case ast.FieldSet:
			val := c.checkExpr(s, f.Value)
			c.checkFieldAssignment(e.Origin, declared, f.Name, val.Ty)
			provided[f.Name] = true
			fields[i] = StructField{Kind: f.Kind, Name: f.Name, Value: val}
		case ast.FieldInherit:
			ty, ok := s.lookup(f.Name)
			if !ok {
				c.report(diag.CheckUndefinedName, e.Origin.Span(), fmt.Sprintf("inherit %q: undefined name", f.Name))
				ty = types.TyError
			}
			c.checkFieldAssignment(e.Origin, declared, f.Name, ty)
			provided[f.Name] = true
			fields[i] = StructField{Kind: f.Kind, Name: f.Name}
		case ast.FieldSpread:
			srcTy, ok := s.lookup(f.Name)
			poisoned := ok && srcTy.Kind == types.Error
			if !poisoned && (!ok || srcTy.Kind != types.Named || srcTy.Named != e.StructLit.Name) {
				c.report(diag.CheckTypeMismatch, e.Origin.Span(), fmt.Sprintf("...%s must spread the same struct type %s", f.Name, e.StructLit.Name))
			} else {
				for n := range declared {
					provided[n] = true
				}
			}
			fields[i] = StructField{Kind: f.Kind, Name: f.Name}
		}
	}

	for name := range declared {
		if !provided[name] {
			c.report(diag.CheckMissingField, e.Origin.Span(), fmt.Sprintf("missing required field %q on %s", name, e.StructLit.Name))
		}
	}

	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: types.NamedTy(e.StructLit.Name), StructLit: StructLitExpr{Name: e.StructLit.Name, Fields: fields}}
}

func (c *Checker) checkFieldAssignment(origin lowered.Origin, declared map[string]types.Ty, name string, actual types.Ty) {
	want, ok := declared[name]
	if !ok {
		c.report(diag.CheckUnknownField, origin.Span(), fmt.Sprintf("unknown field %q", name))
		return
	}
	if actual.Kind != types.Error && !actual.Equal(want) {
		c.report(diag.CheckTypeMismatch, origin.Span(), fmt.Sprintf("field %q: expected %s, found %s", name, want, actual))
	}
}

func (c *Checker) checkBlock(s *scope, e *lowered.Expr) *Expr {
	inner := newScope(s)
	stmts := make([]Stmt, len(e.Block.Stmts))
	for i := range e.Block.Stmts {
		stmts[i] = c.checkStmt(inner, &e.Block.Stmts[i])
	}
	result := c.checkExpr(inner, e.Block.Result)
	return &Expr{Kind: e.Kind, Origin: e.Origin, Ty: result.Ty, Block: BlockExpr{Stmts: stmts, Result: result}}
}
