package lowered

import (
	"strings"
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/parser"
	"hearthc/internal/source"
)

func parseProgram(t *testing.T, src string) *Program {
	t.Helper()
	bag := diag.NewBag(64)
	prog := parser.Parse([]byte(src), source.FileID(1), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, bag.Items())
	}
	return NewDesugarer().DesugarProgram(prog)
}

// This package has no list-comprehension expression kind at all (its
// absence is the invariant), so instead of searching for one the test
// confirms every Block/MutableList/For/Push construct a comprehension
// should produce is actually present.
func TestDesugarListComprehensionEliminatesComprehensionShape(t *testing.T) {
	p := parseProgram(t, `observer x /true/ { let ys = [y for y in xs if y > 0]; return ys; }`)
	letStmt := p.Automation.Body[0]
	if letStmt.Kind != StmtLet {
		t.Fatalf("expected let statement, got %v", letStmt.Kind)
	}
	val := letStmt.Let.Value
	if val.Kind != ExprBlock {
		t.Fatalf("expected comprehension to desugar into a Block, got %v", val.Kind)
	}
	if len(val.Block.Stmts) != 2 {
		t.Fatalf("expected [let mut, for] in block, got %d stmts", len(val.Block.Stmts))
	}
	if val.Block.Stmts[0].Kind != StmtLetMut {
		t.Fatalf("expected first stmt to be LetMut, got %v", val.Block.Stmts[0].Kind)
	}
	if val.Block.Stmts[0].LetMut.Value.Kind != ExprMutableList {
		t.Fatalf("expected LetMut value to be MutableList, got %v", val.Block.Stmts[0].LetMut.Value.Kind)
	}
	if val.Block.Stmts[1].Kind != StmtFor {
		t.Fatalf("expected second stmt to be For, got %v", val.Block.Stmts[1].Kind)
	}
	forBody := val.Block.Stmts[1].For.Body
	if len(forBody) != 1 || forBody[0].Kind != StmtExpr || forBody[0].Expr.X.Kind != ExprIf {
		t.Fatalf("expected filtered comprehension's for-body to be a single If statement, got %+v", forBody)
	}
	inner := forBody[0].Expr.X.If.Then
	if len(inner) != 1 || inner[0].Kind != StmtPush {
		t.Fatalf("expected the if's then-branch to be a single Push, got %+v", inner)
	}
	if val.Block.Result.Kind != ExprIdent || val.Block.Result.Ident.Name != val.Block.Stmts[0].LetMut.Name {
		t.Fatalf("expected block result to reference the accumulator var")
	}
}

func TestDesugarListComprehensionWithoutFilter(t *testing.T) {
	p := parseProgram(t, `observer x /true/ { return [y for y in xs]; }`)
	val := p.Automation.Body[0].Return.Value
	forBody := val.Block.Stmts[1].For.Body
	if len(forBody) != 1 || forBody[0].Kind != StmtPush {
		t.Fatalf("expected an unfiltered comprehension's for-body to push directly, got %+v", forBody)
	}
}

func TestDesugarFreshNamesAreUniqueAcrossComprehensions(t *testing.T) {
	p := parseProgram(t, `observer x /true/ {
		let a = [y for y in xs];
		let b = [z for z in zs];
		return a;
	}`)
	nameOf := func(s Stmt) string {
		return s.Let.Value.Block.Stmts[0].LetMut.Name
	}
	n1 := nameOf(p.Automation.Body[0])
	n2 := nameOf(p.Automation.Body[1])
	if n1 == n2 {
		t.Fatalf("expected distinct fresh names, got %q twice", n1)
	}
	if !strings.HasPrefix(n1, "__result") || !strings.HasPrefix(n2, "__result") {
		t.Fatalf("expected __result-prefixed fresh names, got %q and %q", n1, n2)
	}
}

func TestDesugarPassesThroughNonComprehensionExprsUnchanged(t *testing.T) {
	p := parseProgram(t, `observer x /true/ { return x.brightness + 1; }`)
	val := p.Automation.Body[0].Return.Value
	if val.Kind != ExprBinOp {
		t.Fatalf("expected binop passthrough, got %v", val.Kind)
	}
	if val.BinOp.Left.Kind != ExprField {
		t.Fatalf("expected left operand to remain a field access, got %v", val.BinOp.Left.Kind)
	}
}

func TestDesugarSharesOriginAcrossSyntheticNodes(t *testing.T) {
	p := parseProgram(t, `observer x /true/ { return [y for y in xs if y > 0]; }`)
	val := p.Automation.Body[0].Return.Value
	letMutOrigin := val.Block.Stmts[0].Origin
	forOrigin := val.Block.Stmts[1].Origin
	if !letMutOrigin.IsSynthetic() || !forOrigin.IsSynthetic() {
		t.Fatal("expected synthetic origins for comprehension-desugared statements")
	}
	if letMutOrigin.ListComp != forOrigin.ListComp {
		t.Fatal("expected every synthetic node from one comprehension to share one ListCompSource")
	}
}
