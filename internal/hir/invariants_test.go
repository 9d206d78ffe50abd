package hir_test

import (
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/hir"
	"hearthc/internal/lowered"
	"hearthc/internal/parser"
	"hearthc/internal/registry"
	"hearthc/internal/sema"
	"hearthc/internal/testkit"
)

const observerDoc = `
[patterns.observer]
`

const itemsDoc = `
[patterns.observer]
items = "[Int]"
`

func compile(t *testing.T, src, regDoc string) (*lowered.Program, *hir.Program) {
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
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	return low, hir.LowerProgram(result.Program)
}

func oneAutomation(p *hir.Program) *hir.Automation {
	if p.Automation != nil {
		return p.Automation
	}
	return p.Automations[0]
}

func TestInvariantsHoldForStraightLineBody(t *testing.T) {
	_, p := compile(t, `observer {} /true/ { let x = 1 + 2; return x; }`, observerDoc)
	a := oneAutomation(p)
	if err := testkit.CheckBlockWellFormed(a); err != nil {
		t.Errorf("block well-formedness: %v", err)
	}
	if err := testkit.CheckLoopCorrectness(a); err != nil {
		t.Errorf("loop correctness: %v", err)
	}
}

func TestInvariantsHoldForIfJoin(t *testing.T) {
	_, p := compile(t, `observer {} /true/ { let y = if true { 1; } else { 2; }; return y; }`, observerDoc)
	a := oneAutomation(p)
	if err := testkit.CheckBlockWellFormed(a); err != nil {
		t.Errorf("block well-formedness: %v", err)
	}
}

func TestInvariantsHoldForComprehension(t *testing.T) {
	low, p := compile(t, `observer { items } /true/ { return [ x * 2 for x in items ]; }`, itemsDoc)
	a := oneAutomation(p)
	if err := testkit.CheckBlockWellFormed(a); err != nil {
		t.Errorf("block well-formedness: %v", err)
	}
	if err := testkit.CheckLoopCorrectness(a); err != nil {
		t.Errorf("loop correctness: %v", err)
	}
	if err := testkit.CheckFreshNameUniqueness(low); err != nil {
		t.Errorf("fresh-name uniqueness: %v", err)
	}
}

func TestInvariantsHoldForShortCircuit(t *testing.T) {
	_, p := compile(t, `observer {} / a && b / { }`, andOrDoc)
	a := oneAutomation(p)
	if err := testkit.CheckBlockWellFormed(a); err != nil {
		t.Errorf("block well-formedness: %v", err)
	}
}

const andOrDoc = `
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
