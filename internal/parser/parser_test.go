package parser

import (
	"strings"
	"testing"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Program, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	prog := Parse([]byte(src), source.FileID(1), diag.BagReporter{Bag: bag})
	return prog, bag
}

func TestParseObserverAutomation(t *testing.T) {
	prog, bag := parseSource(t, `observer { entity } /entity.on/ { return entity; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if prog.Automation == nil {
		t.Fatal("expected an automation")
	}
	if prog.Automation.Kind != ast.Observer {
		t.Fatalf("expected observer kind, got %v", prog.Automation.Kind)
	}
	if prog.Automation.Pattern.Kind != ast.PatternStruct {
		t.Fatalf("expected struct pattern, got %v", prog.Automation.Pattern.Kind)
	}
	if len(prog.Automation.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(prog.Automation.Body))
	}
}

func TestParseMutatorWithDivisionInBody(t *testing.T) {
	// '/' inside the body (outside the filter clause) must still parse as
	// division, not be mistaken for a filter delimiter.
	prog, bag := parseSource(t, `mutator light /true/ { let x = 10 / 2; return x; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if len(prog.Automation.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(prog.Automation.Body))
	}
	letStmt := prog.Automation.Body[0]
	if letStmt.Kind != ast.StmtLet {
		t.Fatalf("expected let statement, got %v", letStmt.Kind)
	}
	if letStmt.Let.Value.Kind != ast.ExprBinOp || letStmt.Let.Value.BinOp.Op != ast.Div {
		t.Fatalf("expected division binop, got %+v", letStmt.Let.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.BinOpKind // the root operator expected after parsing
	}{
		{"or_binds_loosest", "a || b && c", ast.Or},
		{"and_over_equality", "a && b == c", ast.And},
		{"equality_over_additive", "a == b + c", ast.Eq},
		{"additive_over_multiplicative", "a + b * c", ast.Add},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, bag := parseSource(t, `observer x /`+tt.src+`/ { return x; }`)
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %v", bag.Items())
			}
			filter := prog.Automation.Filter
			if filter.Kind != ast.ExprBinOp {
				t.Fatalf("expected binop root, got %v", filter.Kind)
			}
			if filter.BinOp.Op != tt.want {
				t.Fatalf("expected root op %v, got %v", tt.want, filter.BinOp.Op)
			}
		})
	}
}

func TestParseListComprehension(t *testing.T) {
	prog, bag := parseSource(t, `observer x /true/ { let ys = [y for y in xs if y > 0]; return ys; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	val := prog.Automation.Body[0].Let.Value
	if val.Kind != ast.ExprListComp {
		t.Fatalf("expected list comprehension, got %v", val.Kind)
	}
	if val.ListComp.Var != "y" {
		t.Fatalf("expected loop var 'y', got %q", val.ListComp.Var)
	}
	if val.ListComp.Filter == nil {
		t.Fatal("expected a filter clause")
	}
}

func TestParseStructLiteralFields(t *testing.T) {
	prog, bag := parseSource(t, `observer x /true/ { let s = Light { brightness: 5, inherit color, ...base }; return s; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	lit := prog.Automation.Body[0].Let.Value
	if lit.Kind != ast.ExprStructLit || lit.StructLit.Name != "Light" {
		t.Fatalf("expected Light struct literal, got %+v", lit)
	}
	if len(lit.StructLit.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(lit.StructLit.Fields))
	}
	kinds := []ast.StructFieldKind{lit.StructLit.Fields[0].Kind, lit.StructLit.Fields[1].Kind, lit.StructLit.Fields[2].Kind}
	want := []ast.StructFieldKind{ast.FieldSet, ast.FieldInherit, ast.FieldSpread}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("field %d: expected kind %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestParseNamedAndPositionalArgs(t *testing.T) {
	prog, bag := parseSource(t, `observer x /true/ { return notify(x, message = "hi"); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	call := prog.Automation.Body[0].Return.Value
	if call.Kind != ast.ExprCall {
		t.Fatalf("expected call, got %v", call.Kind)
	}
	if len(call.Call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Call.Args))
	}
	if call.Call.Args[0].Name != "" {
		t.Fatalf("expected positional first arg, got name %q", call.Call.Args[0].Name)
	}
	if call.Call.Args[1].Name != "message" {
		t.Fatalf("expected named second arg 'message', got %q", call.Call.Args[1].Name)
	}
}

func TestParseOptionalFieldAccess(t *testing.T) {
	prog, bag := parseSource(t, `observer x /true/ { return x?.brightness; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	ret := prog.Automation.Body[0].Return.Value
	if ret.Kind != ast.ExprOptionalField {
		t.Fatalf("expected optional field access, got %v", ret.Kind)
	}
	if !ret.Field.Optional {
		t.Fatal("expected Optional flag set")
	}
}

func TestParseUnitLiteral(t *testing.T) {
	prog, bag := parseSource(t, `observer x /true/ { return 5min; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	ret := prog.Automation.Body[0].Return.Value
	if ret.Kind != ast.ExprUnit {
		t.Fatalf("expected unit literal, got %v", ret.Kind)
	}
	if ret.UnitLit.Text != "5" {
		t.Fatalf("expected numeric part '5', got %q", ret.UnitLit.Text)
	}
}

func TestParseUnexpectedTokenRecovers(t *testing.T) {
	// A malformed statement should report an error and resynchronize so the
	// statement after it still parses.
	prog, bag := parseSource(t, `observer x /true/ { let = ; return x; }`)
	if !bag.HasErrors() {
		t.Fatal("expected a parse error")
	}
	if len(prog.Automation.Body) != 2 {
		t.Fatalf("expected recovery to still yield 2 statements, got %d", len(prog.Automation.Body))
	}
}

func TestPrintParseRoundTrip(t *testing.T) {
	src := `observer x /x.on && x.brightness > 0/ { let y = x.brightness + 1; return y; }`
	prog1, bag1 := parseSource(t, src)
	if bag1.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag1.Items())
	}
	printed := ast.Print(prog1)
	prog2, bag2 := parseSource(t, printed)
	if bag2.HasErrors() {
		t.Fatalf("unexpected errors reparsing printed output %q: %v", printed, bag2.Items())
	}
	if prog2.Automation.Kind != prog1.Automation.Kind {
		t.Fatalf("automation kind changed across round trip")
	}
	if len(prog2.Automation.Body) != len(prog1.Automation.Body) {
		t.Fatalf("body length changed across round trip")
	}
}

func TestPrintParseRoundTripOmitsElselessIf(t *testing.T) {
	src := `observer x /true/ { if x.on { notify(); }; }`
	prog1, bag1 := parseSource(t, src)
	if bag1.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag1.Items())
	}
	ifExpr := prog1.Automation.Body[0].Expr.X
	if ifExpr.If.Else != nil {
		t.Fatalf("expected a nil Else for an else-less if, got %+v", ifExpr.If.Else)
	}

	printed := ast.Print(prog1)
	if strings.Contains(printed, "else") {
		t.Fatalf("expected printed output to omit 'else' for an else-less if, got %q", printed)
	}

	prog2, bag2 := parseSource(t, printed)
	if bag2.HasErrors() {
		t.Fatalf("unexpected errors reparsing printed output %q: %v", printed, bag2.Items())
	}
	if prog2.Automation.Body[0].Expr.X.If.Else != nil {
		t.Fatalf("expected the reparsed if to still have a nil Else, got %+v", prog2.Automation.Body[0].Expr.X.If.Else)
	}
}
