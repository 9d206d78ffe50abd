package hir

import (
	"strings"

	"hearthc/internal/ast"
	"hearthc/internal/lowered"
	"hearthc/internal/sema"
	"hearthc/internal/types"
)

// Lowerer lowers one typed automation to HIR. It owns monotone Tmp/BlockID
// counters and Ν, the name map from in-scope identifiers to their current
// Tmp. Each compilation uses its own fresh Lowerer.
type Lowerer struct {
	tmpN   int
	blkN   int
	blocks []*BasicBlock
	cur    *BasicBlock
	names  map[string]Tmp
}

func newLowerer() *Lowerer {
	return &Lowerer{names: make(map[string]Tmp)}
}

func (l *Lowerer) allocTmp() Tmp {
	t := Tmp(l.tmpN)
	l.tmpN++
	return t
}

func (l *Lowerer) newBlock() *BasicBlock {
	b := &BasicBlock{ID: BlockID(l.blkN)}
	l.blkN++
	l.blocks = append(l.blocks, b)
	return b
}

func (l *Lowerer) switchTo(b *BasicBlock) { l.cur = b }

func (l *Lowerer) emitInto(dst Tmp, op Op, ty types.Ty) {
	l.cur.Instrs = append(l.cur.Instrs, Instruction{Dst: dst, Op: op, Ty: ty})
}

func (l *Lowerer) emit(op Op, ty types.Ty) Tmp {
	dst := l.allocTmp()
	l.emitInto(dst, op, ty)
	return dst
}

func (l *Lowerer) terminate(t Terminator) {
	if l.cur.Term.Kind == TermNone {
		l.cur.Term = t
	}
}

// LowerProgram lowers a complete typed program.
func LowerProgram(p *sema.Program) *Program {
	out := &Program{}
	if p.Automation != nil {
		out.Automation = LowerAutomation(p.Automation)
	}
	for _, a := range p.Automations {
		out.Automations = append(out.Automations, LowerAutomation(a))
	}
	return out
}

// LowerAutomation lowers one typed automation to its HIR-CFG body.
func LowerAutomation(a *sema.Automation) *Automation {
	l := newLowerer()
	entry := l.newBlock()
	l.switchTo(entry)

	params := make([]Param, len(a.Params))
	for i, bp := range a.Params {
		t := l.allocTmp()
		l.names[bp.Name] = t
		params[i] = Param{Name: bp.Name, Tmp: t, Ty: bp.Ty}
	}

	if a.Filter != nil {
		l.lowerExpr(a.Filter)
	}

	bodyVal := l.lowerStmtList(a.Body)
	if l.cur.Term.Kind == TermNone {
		// lowerStmtList already emitted a fresh Unit unless the body ends in
		// an expression statement, whose value is discarded here.
		unitTmp := bodyVal
		if n := len(a.Body); n > 0 && a.Body[n-1].Kind == lowered.StmtExpr {
			unitTmp = l.emit(Op{Kind: OpUnit}, types.TyUnit)
		}
		l.terminate(Terminator{Kind: TermReturn, Return: ReturnTerm{Value: unitTmp}})
	}

	return &Automation{Kind: a.Kind, Params: params, Blocks: l.blocks, Entry: entry.ID}
}

// lowerStmtList lowers a statement sequence and returns the Tmp of its
// trailing expression-statement value (a fresh Unit Tmp if the sequence is
// empty or does not end in one) — used both for automation bodies (value
// discarded) and for if/block bodies, where it is the branch's merged
// value.
func (l *Lowerer) lowerStmtList(stmts []sema.Stmt) Tmp {
	result := Tmp(-1)
	haveResult := false
	for i := range stmts {
		st := &stmts[i]
		if i == len(stmts)-1 && st.Kind == lowered.StmtExpr {
			result = l.lowerExpr(st.Expr.X)
			haveResult = true
			break
		}
		l.lowerStmt(st)
		if l.cur.Term.Kind != TermNone && i+1 < len(stmts) {
			// Statements after a terminator (e.g. Return) are unreachable;
			// still lowered, into a fresh orphan block, for diagnostic
			// locality.
			l.switchTo(l.newBlock())
		}
	}
	if !haveResult {
		return l.emit(Op{Kind: OpUnit}, types.TyUnit)
	}
	return result
}

func (l *Lowerer) lowerStmt(st *sema.Stmt) {
	switch st.Kind {
	case lowered.StmtLet:
		t := l.lowerExpr(st.Let.Value)
		l.names[st.Let.Name] = t
	case lowered.StmtLetMut:
		t := l.emit(Op{Kind: OpEmptyList}, st.LetMut.Value.Ty)
		l.names[st.LetMut.Name] = t
	case lowered.StmtExpr:
		l.lowerExpr(st.Expr.X)
	case lowered.StmtReturn:
		t := l.lowerExpr(st.Return.Value)
		l.terminate(Terminator{Kind: TermReturn, Return: ReturnTerm{Value: t}})
	case lowered.StmtFor:
		l.lowerFor(&st.For)
	case lowered.StmtPush:
		listTmp := l.names[st.Push.List]
		valTmp := l.lowerExpr(st.Push.Value)
		l.emit(Op{Kind: OpListPush, ListPush: ListPushOp{List: listTmp, Value: valTmp}}, types.TyUnit)
	}
}

func (l *Lowerer) lowerFor(f *sema.ForStmt) {
	collection := l.lowerExpr(f.Iter)
	iterTmp := l.emit(Op{Kind: OpIterInit, IterInit: IterInitOp{Collection: collection}}, f.Iter.Ty)

	head := l.newBlock()
	body := l.newBlock()
	exit := l.newBlock()
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: head.ID}})

	l.switchTo(head)
	valueTmp := l.allocTmp()
	l.terminate(Terminator{Kind: TermIterNext, IterNext: IterNextTerm{
		Iter: iterTmp, ValueDst: valueTmp, Body: body.ID, Exit: exit.ID,
	}})

	l.switchTo(body)
	l.names[f.Var] = valueTmp
	l.lowerStmtList(f.Body)
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: head.ID}})

	l.switchTo(exit)
}

func (l *Lowerer) lowerExpr(e *sema.Expr) Tmp {
	switch e.Kind {
	case lowered.ExprInt:
		return l.emit(Op{Kind: OpConstInt, ConstInt: ConstIntOp{Value: e.IntLit.Value}}, e.Ty)
	case lowered.ExprFloat:
		return l.emit(Op{Kind: OpConstFloat, ConstFloat: ConstFloatOp{Value: e.FloatLit.Value}}, e.Ty)
	case lowered.ExprString:
		return l.emit(Op{Kind: OpConstString, ConstString: ConstStringOp{Value: e.StringLit.Value}}, e.Ty)
	case lowered.ExprBool:
		return l.emit(Op{Kind: OpConstBool, ConstBool: ConstBoolOp{Value: e.BoolLit.Value}}, e.Ty)
	case lowered.ExprUnit:
		return l.emit(Op{Kind: OpConstUnit, ConstUnit: ConstUnitOp{Text: e.UnitLit.Text, Unit: e.UnitLit}}, e.Ty)
	case lowered.ExprIdent:
		if t, ok := l.names[e.Ident.Name]; ok {
			return l.emit(Op{Kind: OpCopy, Copy: CopyOp{Src: t}}, e.Ty)
		}
		// A name not in Ν resolves through the registry (a constant or a
		// function used as a value); modeled as a zero-argument Call.
		return l.emit(Op{Kind: OpCall, Call: CallOp{Name: e.Ident.Name}}, e.Ty)
	case lowered.ExprPath:
		segs := e.Path.Segments
		enum, variant := "", strings.Join(segs, "::")
		if len(segs) == 2 {
			enum, variant = segs[0], segs[1]
		}
		return l.emit(Op{Kind: OpVariant, Variant: VariantOp{Enum: enum, Variant: variant}}, e.Ty)
	case lowered.ExprBinOp:
		switch e.BinOp.Op {
		case ast.And:
			return l.lowerAnd(e)
		case ast.Or:
			return l.lowerOr(e)
		default:
			lt := l.lowerExpr(e.BinOp.Left)
			rt := l.lowerExpr(e.BinOp.Right)
			return l.emit(Op{Kind: OpBinOp, BinOp: BinOpOp{Op: e.BinOp.Op, Left: lt, Right: rt}}, e.Ty)
		}
	case lowered.ExprUnaryOp:
		return l.lowerUnaryOp(e)
	case lowered.ExprField, lowered.ExprOptionalField:
		base := l.lowerExpr(e.Field.X)
		if e.Kind == lowered.ExprOptionalField {
			return l.emit(Op{Kind: OpOptionalField, OptionalField: FieldOp{Base: base, Name: e.Field.Name}}, e.Ty)
		}
		return l.emit(Op{Kind: OpField, Field: FieldOp{Base: base, Name: e.Field.Name}}, e.Ty)
	case lowered.ExprCall:
		return l.lowerCall(e)
	case lowered.ExprIf:
		return l.lowerIf(e)
	case lowered.ExprList:
		elems := make([]Tmp, len(e.List.Elems))
		for i, el := range e.List.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return l.emit(Op{Kind: OpList, List: ListOp{Elems: elems}}, e.Ty)
	case lowered.ExprStructLit:
		return l.lowerStructLit(e)
	case lowered.ExprBlock:
		return l.lowerBlockExpr(e)
	case lowered.ExprMutableList:
		return l.emit(Op{Kind: OpEmptyList}, e.Ty)
	default:
		return l.emit(Op{Kind: OpUnit}, types.TyUnit)
	}
}

func (l *Lowerer) lowerUnaryOp(e *sema.Expr) Tmp {
	x := l.lowerExpr(e.UnaryOp.X)
	switch e.UnaryOp.Op {
	case ast.Not:
		return l.emit(Op{Kind: OpNot, Not: UnaryTmpOp{X: x}}, e.Ty)
	case ast.Neg:
		return l.emit(Op{Kind: OpNeg, Neg: UnaryTmpOp{X: x}}, e.Ty)
	case ast.Deref:
		return l.emit(Op{Kind: OpDeref, Deref: UnaryTmpOp{X: x}}, e.Ty)
	default: // ast.Await
		return l.emit(Op{Kind: OpAwait, Await: UnaryTmpOp{X: x}}, e.Ty)
	}
}

// lowerAnd implements the short-circuit `&&` lowering: the result
// Tmp is pre-allocated and written by a Copy instruction in each of the two
// predecessor blocks, so the join block simply reads it — not strict SSA,
// but a Tmp with two definitions that are mutually unreachable at runtime.
func (l *Lowerer) lowerAnd(e *sema.Expr) Tmp {
	lt := l.lowerExpr(e.BinOp.Left)
	dst := l.allocTmp()
	evalRight := l.newBlock()
	joinFalse := l.newBlock()
	join := l.newBlock()
	l.terminate(Terminator{Kind: TermBranch, Branch: BranchTerm{Cond: lt, Then: evalRight.ID, Else: joinFalse.ID}})

	l.switchTo(joinFalse)
	falseTmp := l.emit(Op{Kind: OpConstBool, ConstBool: ConstBoolOp{Value: false}}, types.TyBool)
	l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: falseTmp}}, types.TyBool)
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})

	l.switchTo(evalRight)
	rt := l.lowerExpr(e.BinOp.Right)
	l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: rt}}, e.Ty)
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})

	l.switchTo(join)
	return dst
}

// lowerOr is the dual of lowerAnd: Branch{L, join_true, eval_right}, where
// join_true supplies the constant true.
func (l *Lowerer) lowerOr(e *sema.Expr) Tmp {
	lt := l.lowerExpr(e.BinOp.Left)
	dst := l.allocTmp()
	evalRight := l.newBlock()
	joinTrue := l.newBlock()
	join := l.newBlock()
	l.terminate(Terminator{Kind: TermBranch, Branch: BranchTerm{Cond: lt, Then: joinTrue.ID, Else: evalRight.ID}})

	l.switchTo(joinTrue)
	trueTmp := l.emit(Op{Kind: OpConstBool, ConstBool: ConstBoolOp{Value: true}}, types.TyBool)
	l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: trueTmp}}, types.TyBool)
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})

	l.switchTo(evalRight)
	rt := l.lowerExpr(e.BinOp.Right)
	l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: rt}}, e.Ty)
	l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})

	l.switchTo(join)
	return dst
}

func (l *Lowerer) lowerIf(e *sema.Expr) Tmp {
	cond := l.lowerExpr(e.If.Cond)
	thenBB := l.newBlock()
	elseBB := l.newBlock()
	join := l.newBlock()
	l.terminate(Terminator{Kind: TermBranch, Branch: BranchTerm{Cond: cond, Then: thenBB.ID, Else: elseBB.ID}})
	dst := l.allocTmp()

	l.switchTo(thenBB)
	thenVal := l.lowerStmtList(e.If.Then)
	if l.cur.Term.Kind == TermNone {
		l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: thenVal}}, e.Ty)
		l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})
	}

	l.switchTo(elseBB)
	elseVal := l.lowerStmtList(e.If.Else)
	if l.cur.Term.Kind == TermNone {
		l.emitInto(dst, Op{Kind: OpCopy, Copy: CopyOp{Src: elseVal}}, e.Ty)
		l.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: join.ID}})
	}

	l.switchTo(join)
	return dst
}

func (l *Lowerer) lowerCall(e *sema.Expr) Tmp {
	args := make([]Tmp, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = l.lowerExpr(a.Value)
	}
	if e.Ty.Kind == types.EnumVariant && e.Call.Func.Kind == lowered.ExprPath {
		segs := e.Call.Func.Path.Segments
		enum, variant := "", strings.Join(segs, "::")
		if len(segs) == 2 {
			enum, variant = segs[0], segs[1]
		}
		return l.emit(Op{Kind: OpVariant, Variant: VariantOp{Enum: enum, Variant: variant, Args: args}}, e.Ty)
	}
	name := calleeName(e.Call.Func)
	return l.emit(Op{Kind: OpCall, Call: CallOp{Name: name, Args: args}}, e.Ty)
}

func calleeName(e *sema.Expr) string {
	if e.Kind == lowered.ExprIdent {
		return e.Ident.Name
	}
	if e.Kind == lowered.ExprPath {
		return strings.Join(e.Path.Segments, "::")
	}
	return "<expr>"
}

func (l *Lowerer) lowerStructLit(e *sema.Expr) Tmp {
	fields := make([]StructFieldOp, 0, len(e.StructLit.Fields))
	for _, f := range e.StructLit.Fields {
		switch f.Kind {
		case ast.FieldSet:
			v := l.lowerExpr(f.Value)
			fields = append(fields, StructFieldOp{Kind: StructFieldSet, Name: f.Name, Value: v})
		case ast.FieldInherit:
			fields = append(fields, StructFieldOp{Kind: StructFieldSet, Name: f.Name, Value: l.names[f.Name]})
		case ast.FieldSpread:
			fields = append(fields, StructFieldOp{Kind: StructFieldSpread, Name: f.Name, Src: l.names[f.Name]})
		}
	}
	return l.emit(Op{Kind: OpStruct, Struct: StructOp{Name: e.StructLit.Name, Fields: fields}}, e.Ty)
}

// lowerBlockExpr lowers a synthetic Block (comprehension expansion): its
// bindings are local to the block, so Ν is snapshotted and restored around
// it — a linear scope exit, not a branch merge.
func (l *Lowerer) lowerBlockExpr(e *sema.Expr) Tmp {
	saved := make(map[string]Tmp, len(l.names))
	for k, v := range l.names {
		saved[k] = v
	}
	for i := range e.Block.Stmts {
		l.lowerStmt(&e.Block.Stmts[i])
	}
	result := l.lowerExpr(e.Block.Result)
	l.names = saved
	return result
}
