// Package registry defines the external contract the checker consults to
// resolve names outside the automations language itself, plus a
// TOML-backed reference implementation for tests and the CLI.
package registry

import "hearthc/internal/types"

// SchemaKind discriminates what resolve_type resolved to.
type SchemaKind uint8

const (
	SchemaStruct SchemaKind = iota
	SchemaEnum
	SchemaEntityDomain
)

// Field is one member of a StructSchema.
type Field struct {
	Name string
	Type types.Ty
}

// StructSchema is the declared shape of a struct-like named type,
// including an automation pattern's event/mutation payload schema.
type StructSchema struct {
	Name   string
	Fields []Field
}

// EnumSchema is the declared shape of an enum's variants and each
// variant's associated argument types.
type EnumSchema struct {
	Name     string
	Variants map[string][]types.Ty
}

// TypeResolution is the result of resolve_type: exactly one of Struct,
// Enum, or EntityDomain is set, selected by Kind.
type TypeResolution struct {
	Kind         SchemaKind
	Struct       *StructSchema
	Enum         *EnumSchema
	EntityDomain string
}

// CallableSignature is a resolved function or method signature.
type CallableSignature struct {
	Params     []Param
	ResultType types.Ty
	Async      bool
}

// Param is one callable parameter; Name is empty for a positional-only
// parameter that cannot be passed by keyword.
type Param struct {
	Name string
	Type types.Ty
}

// VariantResolution is the result of resolve_variant: a `::`-path resolved
// against a known enum.
type VariantResolution struct {
	EnumName    string
	VariantName string
	ArgTypes    []types.Ty
}

// Registry is the read-only contract the checker depends on. It is
// stateless with respect to the core: a Registry may be backed by static
// configuration, generated code, or runtime introspection, and the core
// never distinguishes between implementations.
type Registry interface {
	ResolveType(name string) (TypeResolution, bool)
	ResolveCallable(name string) (CallableSignature, bool)
	ResolveVariant(path []string) (VariantResolution, bool)
	FieldType(structName, fieldName string) (types.Ty, bool)
	IsEntityDomain(name string) bool
	EntityType(domain string) types.Ty
	// PatternSchema returns the declared shape of the event/mutation
	// payload an automation of the given kind destructures ("observer" or
	// "mutator").
	PatternSchema(automationKind string) (StructSchema, bool)
}
