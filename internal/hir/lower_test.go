package hir

import (
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/lowered"
	"hearthc/internal/parser"
	"hearthc/internal/registry"
	"hearthc/internal/sema"
)

const emptyObserverDoc = `
[patterns.observer]
`

const itemsObserverDoc = `
[patterns.observer]
items = "[Int]"
`

const andOrObserverDoc = `
[patterns.observer]

[callables.a]
params = []
param_names = []
result = "Bool"
async = false

[callables.b]
params = []
param_names = []
result = "Bool"
async = false
`

func lowerSource(t *testing.T, src, regDoc string) (*Program, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	prog := parser.Parse([]byte(src), 0, rep)
	if bag.Len() > 0 {
		t.Fatalf("parse errors: %+v", bag.Items())
	}
	low := lowered.NewDesugarer().DesugarProgram(prog)
	reg, err := registry.LoadStaticBytes([]byte(regDoc))
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	checker := sema.NewChecker(reg, rep)
	result := checker.Check(low)
	if bag.Len() > 0 {
		t.Fatalf("check errors: %+v", bag.Items())
	}
	return LowerProgram(result.Program), bag
}

// lowerSourceAllowingDiagnostics is the same pipeline but lets the caller
// inspect diagnostics rather than failing on them.
func lowerSourceAllowingDiagnostics(t *testing.T, src, regDoc string) (*Program, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	prog := parser.Parse([]byte(src), 0, rep)
	low := lowered.NewDesugarer().DesugarProgram(prog)
	reg, err := registry.LoadStaticBytes([]byte(regDoc))
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	checker := sema.NewChecker(reg, rep)
	result := checker.Check(low)
	return LowerProgram(result.Program), bag
}

func firstAutomation(p *Program) *Automation {
	if p.Automation != nil {
		return p.Automation
	}
	return p.Automations[0]
}

// Scenario A: constant filter, empty body.
func TestLowerConstantFilterEmptyBody(t *testing.T) {
	p, _ := lowerSource(t, `observer {} /true/ { }`, emptyObserverDoc)
	a := firstAutomation(p)
	if len(a.Params) != 0 {
		t.Fatalf("expected no params, got %+v", a.Params)
	}
	if len(a.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(a.Blocks))
	}
	blk := a.Blocks[0]
	if len(blk.Instrs) != 2 || blk.Instrs[0].Op.Kind != OpConstBool || !blk.Instrs[0].Op.ConstBool.Value || blk.Instrs[1].Op.Kind != OpUnit {
		t.Fatalf("expected the filter's const_bool true followed by a single Unit instruction, got %+v", blk.Instrs)
	}
	if blk.Term.Kind != TermReturn {
		t.Fatalf("expected Return terminator, got %v", blk.Term.Kind)
	}
}

// Scenario B: simple let and return.
func TestLowerLetAndReturn(t *testing.T) {
	p, _ := lowerSource(t, `observer {} /true/ { let x = 1 + 2; return x; }`, emptyObserverDoc)
	a := firstAutomation(p)
	if len(a.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(a.Blocks))
	}
	blk := a.Blocks[0]
	var sawAdd bool
	for _, in := range blk.Instrs {
		if in.Op.Kind == OpBinOp {
			sawAdd = true
			if in.Ty.String() != "Int" {
				t.Fatalf("expected add result type Int, got %s", in.Ty)
			}
		}
	}
	if !sawAdd {
		t.Fatalf("expected an add instruction, got %+v", blk.Instrs)
	}
	if blk.Term.Kind != TermReturn {
		t.Fatalf("expected Return terminator, got %v", blk.Term.Kind)
	}
}

// Scenario C: if produces a value.
func TestLowerIfProducesValue(t *testing.T) {
	p, _ := lowerSource(t, `observer {} /true/ { let y = if true { 1; } else { 2; }; return y; }`, emptyObserverDoc)
	a := firstAutomation(p)
	if len(a.Blocks) != 4 {
		t.Fatalf("expected 4 blocks (entry, then, else, join), got %d", len(a.Blocks))
	}
	entry := a.Blocks[0]
	if entry.Term.Kind != TermBranch {
		t.Fatalf("expected entry to end in a Branch, got %v", entry.Term.Kind)
	}
	then := a.Block(entry.Term.Branch.Then)
	els := a.Block(entry.Term.Branch.Else)
	join := a.Block(then.Term.Jump.Target)
	if els.Term.Jump.Target != join.ID {
		t.Fatalf("expected both branches to join at the same block")
	}
	if join.Term.Kind != TermReturn {
		t.Fatalf("expected join block to return, got %v", join.Term.Kind)
	}
}

// Scenario D: list comprehension lowers to EmptyList/IterInit/IterNext/ListPush.
func TestLowerListComprehension(t *testing.T) {
	p, _ := lowerSource(t, `observer { items } /true/ { return [ x * 2 for x in items ]; }`, itemsObserverDoc)
	a := firstAutomation(p)

	var sawEmptyList, sawIterInit, sawPush, sawIterNext bool
	for _, blk := range a.Blocks {
		for _, in := range blk.Instrs {
			switch in.Op.Kind {
			case OpEmptyList:
				sawEmptyList = true
			case OpIterInit:
				sawIterInit = true
			case OpListPush:
				sawPush = true
			}
		}
		if blk.Term.Kind == TermIterNext {
			sawIterNext = true
		}
	}
	if !sawEmptyList || !sawIterInit || !sawPush || !sawIterNext {
		t.Fatalf("expected EmptyList, IterInit, ListPush and an IterNext terminator; got EmptyList=%v IterInit=%v Push=%v IterNext=%v",
			sawEmptyList, sawIterInit, sawPush, sawIterNext)
	}
}

// Scenario E: short-circuit && never lowers the right operand on a
// path reaching the false branch.
func TestLowerShortCircuitAnd(t *testing.T) {
	p, _ := lowerSource(t, `observer {} / a && b / { }`, andOrObserverDoc)
	a := firstAutomation(p)

	entry := a.Blocks[0]
	if entry.Term.Kind != TermBranch {
		t.Fatalf("expected entry to end in Branch, got %v", entry.Term.Kind)
	}
	falseBB := a.Block(entry.Term.Branch.Else)
	for _, in := range falseBB.Instrs {
		if in.Op.Kind == OpCall && in.Op.Call.Name == "b" {
			t.Fatalf("right operand 'b' was evaluated on the false path")
		}
	}
	var sawConstFalse bool
	for _, in := range falseBB.Instrs {
		if in.Op.Kind == OpConstBool && !in.Op.ConstBool.Value {
			sawConstFalse = true
		}
	}
	if !sawConstFalse {
		t.Fatalf("expected the false-path block to materialize const_bool false")
	}
}

// Scenario G: a unit literal's suffix survives into the HIR constant.
func TestLowerUnitLiteralPreservesSuffix(t *testing.T) {
	p, _ := lowerSource(t, `observer {} /true/ { let x = 5min + 3s; return x; }`, emptyObserverDoc)
	a := firstAutomation(p)
	var texts []string
	for _, blk := range a.Blocks {
		for _, in := range blk.Instrs {
			if in.Op.Kind == OpConstUnit {
				texts = append(texts, in.Op.ConstUnit.Text)
			}
		}
	}
	if len(texts) != 2 {
		t.Fatalf("expected two unit-literal constants, got %v", texts)
	}
}

// Scenario H: a type mismatch poisons only its own expression.
func TestLowerTypeMismatchIsolated(t *testing.T) {
	p, bag := lowerSourceAllowingDiagnostics(t, `observer {} /true/ { let x = 1 + "a"; let y = x + 1; return y; }`, emptyObserverDoc)
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %+v", len(items), items)
	}
	if items[0].Code != diag.CheckTypeMismatch {
		t.Fatalf("expected CheckTypeMismatch, got %v", items[0].Code)
	}

	a := firstAutomation(p)
	var addCount int
	var sawErrorTy bool
	for _, blk := range a.Blocks {
		for _, in := range blk.Instrs {
			if in.Op.Kind == OpBinOp {
				addCount++
				if in.Ty.String() == "<error>" {
					sawErrorTy = true
				}
			}
		}
	}
	if addCount != 2 {
		t.Fatalf("expected both adds to still be lowered, got %d", addCount)
	}
	if !sawErrorTy {
		t.Fatalf("expected the offending add's result type to be Error")
	}
}
