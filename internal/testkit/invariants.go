// Package testkit holds reusable structural assertions for the universal
// properties every compiled program must satisfy, shared across
// this module's _test.go files so each one doesn't hand-roll its own
// well-formedness walk.
package testkit

import (
	"fmt"

	"hearthc/internal/hir"
	"hearthc/internal/lowered"
)

// CheckBlockWellFormed verifies the invariants a hir.Automation's CFG must
// hold: every block ends in exactly one terminator, every BlockID a
// terminator names resolves to a real block, and every Tmp an instruction
// or terminator reads was defined earlier in program order (either by an
// instruction in the same block, or by an instruction or an IterNext's
// ValueDst in a block that dominates it by construction — this Lowerer
// never forward-references a
// Tmp, so "defined in some block already walked" is a sound approximation
// of dominance for the structures it emits).
func CheckBlockWellFormed(a *hir.Automation) error {
	defined := make(map[hir.Tmp]bool, len(a.Params))
	for _, p := range a.Params {
		defined[p.Tmp] = true
	}

	blocks := make(map[hir.BlockID]*hir.BasicBlock, len(a.Blocks))
	for _, b := range a.Blocks {
		blocks[b.ID] = b
	}

	for _, b := range a.Blocks {
		for _, in := range b.Instrs {
			for _, use := range usesOf(in.Op) {
				if !defined[use] {
					return fmt.Errorf("block %d: instruction for %%%d uses undefined %%%d", b.ID, in.Dst, use)
				}
			}
			defined[in.Dst] = true
		}
		if err := checkTerminator(b, blocks, defined); err != nil {
			return err
		}
	}
	return nil
}

func checkTerminator(b *hir.BasicBlock, blocks map[hir.BlockID]*hir.BasicBlock, defined map[hir.Tmp]bool) error {
	switch b.Term.Kind {
	case hir.TermJump:
		return requireBlock(blocks, b.Term.Jump.Target)
	case hir.TermBranch:
		if !defined[b.Term.Branch.Cond] {
			return fmt.Errorf("block %d: branch condition %%%d undefined", b.ID, b.Term.Branch.Cond)
		}
		if err := requireBlock(blocks, b.Term.Branch.Then); err != nil {
			return err
		}
		return requireBlock(blocks, b.Term.Branch.Else)
	case hir.TermReturn:
		if !defined[b.Term.Return.Value] {
			return fmt.Errorf("block %d: return value %%%d undefined", b.ID, b.Term.Return.Value)
		}
		return nil
	case hir.TermIterNext:
		if !defined[b.Term.IterNext.Iter] {
			return fmt.Errorf("block %d: iter_next iterator %%%d undefined", b.ID, b.Term.IterNext.Iter)
		}
		defined[b.Term.IterNext.ValueDst] = true
		if err := requireBlock(blocks, b.Term.IterNext.Body); err != nil {
			return err
		}
		return requireBlock(blocks, b.Term.IterNext.Exit)
	default:
		return fmt.Errorf("block %d: missing terminator", b.ID)
	}
}

func requireBlock(blocks map[hir.BlockID]*hir.BasicBlock, id hir.BlockID) error {
	if _, ok := blocks[id]; !ok {
		return fmt.Errorf("terminator references nonexistent block %d", id)
	}
	return nil
}

// usesOf returns the Tmps an Op reads, excluding its own Dst.
func usesOf(op hir.Op) []hir.Tmp {
	switch op.Kind {
	case hir.OpBinOp:
		return []hir.Tmp{op.BinOp.Left, op.BinOp.Right}
	case hir.OpNeg:
		return []hir.Tmp{op.Neg.X}
	case hir.OpNot:
		return []hir.Tmp{op.Not.X}
	case hir.OpDeref:
		return []hir.Tmp{op.Deref.X}
	case hir.OpAwait:
		return []hir.Tmp{op.Await.X}
	case hir.OpField:
		return []hir.Tmp{op.Field.Base}
	case hir.OpOptionalField:
		return []hir.Tmp{op.OptionalField.Base}
	case hir.OpCall:
		return op.Call.Args
	case hir.OpVariant:
		return op.Variant.Args
	case hir.OpList:
		return op.List.Elems
	case hir.OpListPush:
		return []hir.Tmp{op.ListPush.List, op.ListPush.Value}
	case hir.OpIterInit:
		return []hir.Tmp{op.IterInit.Collection}
	case hir.OpStruct:
		uses := make([]hir.Tmp, 0, len(op.Struct.Fields))
		for _, f := range op.Struct.Fields {
			if f.Kind == hir.StructFieldSpread {
				uses = append(uses, f.Src)
			} else {
				uses = append(uses, f.Value)
			}
		}
		return uses
	case hir.OpCopy:
		return []hir.Tmp{op.Copy.Src}
	default:
		return nil
	}
}

// CheckLoopCorrectness verifies that every IterNext terminator's Body and
// Exit blocks exist, and that the block bearing IterInit for a given
// iterator Tmp appears earlier in block order than any IterNext that reads
// it — the "IterInit dominates its IterNext" half of the loop-correctness
// property that CheckBlockWellFormed's use-before-def walk doesn't
// distinguish from an ordinary value use.
func CheckLoopCorrectness(a *hir.Automation) error {
	iterInitAt := make(map[hir.Tmp]int)
	for i, b := range a.Blocks {
		for _, in := range b.Instrs {
			if in.Op.Kind == hir.OpIterInit {
				iterInitAt[in.Dst] = i
			}
		}
	}
	for i, b := range a.Blocks {
		if b.Term.Kind != hir.TermIterNext {
			continue
		}
		initIdx, ok := iterInitAt[b.Term.IterNext.Iter]
		if !ok {
			return fmt.Errorf("block %d: iter_next on %%%d with no preceding iter_init", b.ID, b.Term.IterNext.Iter)
		}
		if initIdx > i {
			return fmt.Errorf("block %d: iter_init for %%%d occurs after its iter_next", b.ID, b.Term.IterNext.Iter)
		}
	}
	return nil
}

// Desugar-elimination is a type-level guarantee here rather than something
// to walk and assert at runtime: lowered.ExprKind has no ListComp variant
// at all, so a lowered.Program literally cannot hold one. There is nothing
// for this package to check beyond what the compiler already enforces.

// CheckFreshNameUniqueness verifies that every synthetic mutable-list
// accumulator a Desugarer introduces (`__resultN`) has a name distinct from
// every other one in the same program — the fresh-name-uniqueness property
// that lets nested or sibling comprehensions share one Desugarer's counter
// without colliding.
func CheckFreshNameUniqueness(p *lowered.Program) error {
	seen := make(map[string]bool)
	check := func(a *lowered.Automation) error {
		if a.Filter != nil {
			if err := collectFreshNames(a.Filter, seen); err != nil {
				return err
			}
		}
		return collectFreshNamesStmts(a.Body, seen)
	}
	if p.Automation != nil {
		return check(p.Automation)
	}
	if p.Template != nil {
		for _, a := range p.Template.Automations {
			if err := check(a); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectFreshNamesStmts(stmts []lowered.Stmt, seen map[string]bool) error {
	for i := range stmts {
		s := &stmts[i]
		if s.Kind == lowered.StmtLetMut {
			if seen[s.LetMut.Name] {
				return fmt.Errorf("duplicate fresh name %q at %s", s.LetMut.Name, s.Origin.Span())
			}
			seen[s.LetMut.Name] = true
		}
		if err := collectFreshNamesInStmt(s, seen); err != nil {
			return err
		}
	}
	return nil
}

func collectFreshNamesInStmt(s *lowered.Stmt, seen map[string]bool) error {
	switch s.Kind {
	case lowered.StmtLet:
		return collectFreshNames(s.Let.Value, seen)
	case lowered.StmtLetMut:
		return collectFreshNames(s.LetMut.Value, seen)
	case lowered.StmtReturn:
		return collectFreshNames(s.Return.Value, seen)
	case lowered.StmtExpr:
		return collectFreshNames(s.Expr.X, seen)
	case lowered.StmtFor:
		if err := collectFreshNames(s.For.Iter, seen); err != nil {
			return err
		}
		return collectFreshNamesStmts(s.For.Body, seen)
	case lowered.StmtPush:
		return collectFreshNames(s.Push.Value, seen)
	default:
		return nil
	}
}

func collectFreshNames(e *lowered.Expr, seen map[string]bool) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case lowered.ExprBinOp:
		if err := collectFreshNames(e.BinOp.Left, seen); err != nil {
			return err
		}
		return collectFreshNames(e.BinOp.Right, seen)
	case lowered.ExprUnaryOp:
		return collectFreshNames(e.UnaryOp.X, seen)
	case lowered.ExprField, lowered.ExprOptionalField:
		return collectFreshNames(e.Field.X, seen)
	case lowered.ExprCall:
		if err := collectFreshNames(e.Call.Func, seen); err != nil {
			return err
		}
		for _, arg := range e.Call.Args {
			if err := collectFreshNames(arg.Value, seen); err != nil {
				return err
			}
		}
		return nil
	case lowered.ExprIf:
		if err := collectFreshNames(e.If.Cond, seen); err != nil {
			return err
		}
		if err := collectFreshNamesStmts(e.If.Then, seen); err != nil {
			return err
		}
		return collectFreshNamesStmts(e.If.Else, seen)
	case lowered.ExprList:
		for _, el := range e.List.Elems {
			if err := collectFreshNames(el, seen); err != nil {
				return err
			}
		}
		return nil
	case lowered.ExprStructLit:
		for _, f := range e.StructLit.Fields {
			if err := collectFreshNames(f.Value, seen); err != nil {
				return err
			}
		}
		return nil
	case lowered.ExprBlock:
		if err := collectFreshNamesStmts(e.Block.Stmts, seen); err != nil {
			return err
		}
		return collectFreshNames(e.Block.Result, seen)
	default:
		return nil
	}
}

// CheckOriginDiscipline verifies that e's own Origin reports IsSynthetic()
// equal to wantSynthetic: true for a synthetic (comprehension-expanded)
// node, false for one parsed directly from source — the refcounted-origin
// contract that lets a diagnostic on a desugared node point at sensible
// source text either way. Only e itself is checked; its sub-expressions
// are not visited.
func CheckOriginDiscipline(e *lowered.Expr, wantSynthetic bool) error {
	if e == nil {
		return nil
	}
	if e.Origin.IsSynthetic() != wantSynthetic {
		return fmt.Errorf("expr at %s: IsSynthetic()=%v, want %v", e.Origin.Span(), e.Origin.IsSynthetic(), wantSynthetic)
	}
	return nil
}
