package sema_test

import (
	"testing"

	"hearthc/internal/diag"
	"hearthc/internal/lowered"
	"hearthc/internal/parser"
	"hearthc/internal/registry"
	"hearthc/internal/sema"
	"hearthc/internal/types"
)

const fixtureDoc = `
[patterns.observer]
light = "light"
device = "Device"

[structs.Device]
brightness = "Int"

[domains]
light = "LightEntityType"

[callables.notify]
params = ["String"]
param_names = ["message"]
result = "Unit"
async = false
`

func checkSource(t *testing.T, src string) (*sema.Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	prog := parser.Parse([]byte(src), 0, rep)
	if bag.Len() > 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	low := lowered.NewDesugarer().DesugarProgram(prog)
	reg, err := registry.LoadStaticBytes([]byte(fixtureDoc))
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	checker := sema.NewChecker(reg, rep)
	result := checker.Check(low)
	return &result, bag
}

func firstReturn(a *sema.Automation) *sema.Expr {
	for _, s := range a.Body {
		if s.Kind == lowered.StmtReturn {
			return s.Return.Value
		}
	}
	return nil
}

func onlyCode(t *testing.T, bag *diag.Bag) diag.Code {
	t.Helper()
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", len(items), items)
	}
	return items[0].Code
}

func TestCheckFieldAccessOnEntityDomainEmitsConstraint(t *testing.T) {
	result, bag := checkSource(t, `observer { light } /true/ { return light.brightness; }`)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(result.Constraints) != 1 {
		t.Fatalf("expected 1 entity constraint, got %d", len(result.Constraints))
	}
	c := result.Constraints[0]
	if c.Domain != "light" || c.Entity != "brightness" {
		t.Fatalf("unexpected constraint: %+v", c)
	}
	ret := firstReturn(result.Program.Automation)
	if !ret.Ty.Equal(types.NamedTy("LightEntityType")) {
		t.Fatalf("expected LightEntityType, got %s", ret.Ty)
	}
}

func TestCheckFieldAccessOnStructResolvesDeclaredType(t *testing.T) {
	result, bag := checkSource(t, `observer { device } /true/ { return device.brightness; }`)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	ret := firstReturn(result.Program.Automation)
	if !ret.Ty.Equal(types.TyInt) {
		t.Fatalf("expected Int, got %s", ret.Ty)
	}
}

func TestCheckUnknownFieldReportsDiagnostic(t *testing.T) {
	_, bag := checkSource(t, `observer { device } /true/ { return device.missing; }`)
	if code := onlyCode(t, bag); code != diag.CheckUnknownField {
		t.Fatalf("expected CheckUnknownField, got %s", code)
	}
}

func TestCheckCallArityMismatch(t *testing.T) {
	_, bag := checkSource(t, `observer {} /true/ { return notify(); }`)
	if code := onlyCode(t, bag); code != diag.CheckArityMismatch {
		t.Fatalf("expected CheckArityMismatch, got %s", code)
	}
}

func TestCheckCallTypeChecksArgs(t *testing.T) {
	result, bag := checkSource(t, `observer {} /true/ { return notify("hi"); }`)
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	ret := firstReturn(result.Program.Automation)
	if !ret.Ty.Equal(types.TyUnit) {
		t.Fatalf("expected Unit, got %s", ret.Ty)
	}
}

func TestCheckIfBranchDivergenceReportsDiagnostic(t *testing.T) {
	result, bag := checkSource(t, `observer {} /true/ { let x = if true { 1; } else { "s"; }; return x; }`)
	if code := onlyCode(t, bag); code != diag.CheckTypeMismatch {
		t.Fatalf("expected CheckTypeMismatch, got %s", code)
	}
	ret := firstReturn(result.Program.Automation)
	if ret.Ty.Kind != types.Error {
		t.Fatalf("expected the mismatched if to poison its own type, got %s", ret.Ty)
	}
}

func TestCheckListElementUnifyMismatch(t *testing.T) {
	_, bag := checkSource(t, `observer {} /true/ { return [1, "x"]; }`)
	if code := onlyCode(t, bag); code != diag.CheckTypeMismatch {
		t.Fatalf("expected CheckTypeMismatch, got %s", code)
	}
}

func TestCheckStructLiteralMissingFieldReportsDiagnostic(t *testing.T) {
	result, bag := checkSource(t, `observer {} /true/ { return Device { }; }`)
	if code := onlyCode(t, bag); code != diag.CheckMissingField {
		t.Fatalf("expected CheckMissingField, got %s", code)
	}
	ret := firstReturn(result.Program.Automation)
	if !ret.Ty.Equal(types.NamedTy("Device")) {
		t.Fatalf("expected the struct literal to still type as Device, got %s", ret.Ty)
	}
}

func TestCheckStructLiteralUnknownTypeReportsDiagnostic(t *testing.T) {
	result, bag := checkSource(t, `observer {} /true/ { return Bogus { }; }`)
	if code := onlyCode(t, bag); code != diag.CheckUndefinedName {
		t.Fatalf("expected CheckUndefinedName, got %s", code)
	}
	ret := firstReturn(result.Program.Automation)
	if ret.Ty.Kind != types.Error {
		t.Fatalf("expected Error, got %s", ret.Ty)
	}
}

func TestCheckBareIdentifierPatternRejected(t *testing.T) {
	_, bag := checkSource(t, `observer x /true/ { return 1; }`)
	if code := onlyCode(t, bag); code != diag.CheckReservedIdentifier {
		t.Fatalf("expected CheckReservedIdentifier, got %s", code)
	}
}
