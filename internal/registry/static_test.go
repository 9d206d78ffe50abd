package registry

import (
	"testing"

	"hearthc/internal/types"
)

const testDoc = `
[structs.Light]
brightness = "Int"
on = "Bool"

[enums.Event]
Motion = ["String"]
LightOff = []

[domains]
light = "LightEntity"

[callables.notify]
params = ["String"]
param_names = ["message"]
result = "Unit"
async = false

[patterns.observer]
entity = "Light"
`

func loadTestRegistry(t *testing.T) *Static {
	t.Helper()
	reg, err := LoadStaticBytes([]byte(testDoc))
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	return reg
}

func TestResolveTypeStruct(t *testing.T) {
	reg := loadTestRegistry(t)
	res, ok := reg.ResolveType("Light")
	if !ok || res.Kind != SchemaStruct {
		t.Fatalf("expected struct resolution, got %+v ok=%v", res, ok)
	}
}

func TestFieldType(t *testing.T) {
	reg := loadTestRegistry(t)
	ty, ok := reg.FieldType("Light", "brightness")
	if !ok || !ty.Equal(types.TyInt) {
		t.Fatalf("expected Int, got %v ok=%v", ty, ok)
	}
}

func TestResolveVariant(t *testing.T) {
	reg := loadTestRegistry(t)
	v, ok := reg.ResolveVariant([]string{"Event", "Motion"})
	if !ok || v.EnumName != "Event" || v.VariantName != "Motion" {
		t.Fatalf("expected Event::Motion, got %+v ok=%v", v, ok)
	}
	if len(v.ArgTypes) != 1 || !v.ArgTypes[0].Equal(types.TyString) {
		t.Fatalf("expected one String arg, got %+v", v.ArgTypes)
	}
}

func TestIsEntityDomain(t *testing.T) {
	reg := loadTestRegistry(t)
	if !reg.IsEntityDomain("light") {
		t.Fatal("expected 'light' to be a registered entity domain")
	}
	if reg.IsEntityDomain("nonexistent") {
		t.Fatal("did not expect 'nonexistent' to be an entity domain")
	}
	if !reg.EntityType("light").Equal(types.NamedTy("LightEntity")) {
		t.Fatalf("expected LightEntity, got %v", reg.EntityType("light"))
	}
}

func TestResolveCallable(t *testing.T) {
	reg := loadTestRegistry(t)
	sig, ok := reg.ResolveCallable("notify")
	if !ok {
		t.Fatal("expected notify to resolve")
	}
	if len(sig.Params) != 1 || sig.Params[0].Name != "message" {
		t.Fatalf("expected one named param 'message', got %+v", sig.Params)
	}
	if !sig.ResultType.Equal(types.TyUnit) {
		t.Fatalf("expected Unit result, got %v", sig.ResultType)
	}
}

func TestPatternSchema(t *testing.T) {
	reg := loadTestRegistry(t)
	schema, ok := reg.PatternSchema("observer")
	if !ok || len(schema.Fields) != 1 || schema.Fields[0].Name != "entity" {
		t.Fatalf("expected observer pattern with one 'entity' field, got %+v ok=%v", schema, ok)
	}
}

func TestParseTypeNameParametric(t *testing.T) {
	tests := []struct {
		name string
		want types.Ty
	}{
		{"[Int]", types.ListOf(types.TyInt)},
		{"Set<String>", types.SetOf(types.TyString)},
		{"Option<Bool>", types.OptionOf(types.TyBool)},
		{"Map<String, Int>", types.MapOf(types.TyString, types.TyInt)},
	}
	for _, tt := range tests {
		got, err := parseTypeName(tt.name)
		if err != nil {
			t.Fatalf("parseTypeName(%q): %v", tt.name, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("parseTypeName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
