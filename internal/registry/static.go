package registry

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"hearthc/internal/types"
)

// Static is a Registry backed by a TOML document, following the same
// toml.DecodeFile convention used for other configuration files in this
// codebase. It is the reference implementation used by tests and the CLI;
// a deployment may supply any other Registry (generated code, runtime
// introspection) since the checker only ever depends on the interface.
type Static struct {
	structs    map[string]StructSchema
	enums      map[string]EnumSchema
	domains    map[string]string // domain name -> entity type name
	callables  map[string]CallableSignature
	patterns   map[string]StructSchema
}

// document mirrors the TOML shape a registry configuration file takes:
//
//	[structs.Light]
//	brightness = "Int"
//	on = "Bool"
//
//	[enums.Event]
//	LightOff = []
//	Motion = ["String"]
//
//	[domains]
//	light = "LightEntity"
//
//	[callables.notify]
//	params = ["String"]
//	param_names = ["message"]
//	result = "Unit"
//	async = false
//
//	[patterns.observer]
//	entity = "Light"
type document struct {
	Structs   map[string]map[string]string `toml:"structs"`
	Enums     map[string]map[string][]string `toml:"enums"`
	Domains   map[string]string            `toml:"domains"`
	Callables map[string]callableDoc       `toml:"callables"`
	Patterns  map[string]map[string]string  `toml:"patterns"`
}

type callableDoc struct {
	Params     []string `toml:"params"`
	ParamNames []string `toml:"param_names"`
	Result     string   `toml:"result"`
	Async      bool     `toml:"async"`
}

// LoadStaticFile parses a registry configuration from a TOML file on disk.
func LoadStaticFile(path string) (*Static, error) {
	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse registry TOML: %w", path, err)
	}
	return newStaticFromDocument(doc)
}

// LoadStaticBytes parses a registry configuration from an in-memory TOML
// document, used by tests that don't want a filesystem fixture.
func LoadStaticBytes(src []byte) (*Static, error) {
	var doc document
	if _, err := toml.Decode(string(src), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry TOML: %w", err)
	}
	return newStaticFromDocument(doc)
}

func newStaticFromDocument(doc document) (*Static, error) {
	s := &Static{
		structs:   make(map[string]StructSchema),
		enums:     make(map[string]EnumSchema),
		domains:   make(map[string]string),
		callables: make(map[string]CallableSignature),
		patterns:  make(map[string]StructSchema),
	}
	for name, fields := range doc.Structs {
		schema := StructSchema{Name: name}
		for fname, tyName := range fields {
			ty, err := parseTypeName(tyName)
			if err != nil {
				return nil, fmt.Errorf("struct %s.%s: %w", name, fname, err)
			}
			schema.Fields = append(schema.Fields, Field{Name: fname, Type: ty})
		}
		s.structs[name] = schema
	}
	for name, variants := range doc.Enums {
		schema := EnumSchema{Name: name, Variants: make(map[string][]types.Ty)}
		for vname, argTypeNames := range variants {
			argTypes := make([]types.Ty, len(argTypeNames))
			for i, tn := range argTypeNames {
				ty, err := parseTypeName(tn)
				if err != nil {
					return nil, fmt.Errorf("enum %s::%s arg %d: %w", name, vname, i, err)
				}
				argTypes[i] = ty
			}
			schema.Variants[vname] = argTypes
		}
		s.enums[name] = schema
	}
	for domain, entityTypeName := range doc.Domains {
		s.domains[domain] = entityTypeName
	}
	for name, c := range doc.Callables {
		result, err := parseTypeName(c.Result)
		if err != nil {
			return nil, fmt.Errorf("callable %s: result: %w", name, err)
		}
		params := make([]Param, len(c.Params))
		for i, tn := range c.Params {
			ty, err := parseTypeName(tn)
			if err != nil {
				return nil, fmt.Errorf("callable %s: param %d: %w", name, i, err)
			}
			pname := ""
			if i < len(c.ParamNames) {
				pname = c.ParamNames[i]
			}
			params[i] = Param{Name: pname, Type: ty}
		}
		s.callables[name] = CallableSignature{Params: params, ResultType: result, Async: c.Async}
	}
	for kind, fields := range doc.Patterns {
		schema := StructSchema{Name: kind}
		for fname, tyName := range fields {
			ty, err := parseTypeName(tyName)
			if err != nil {
				return nil, fmt.Errorf("pattern %s.%s: %w", kind, fname, err)
			}
			schema.Fields = append(schema.Fields, Field{Name: fname, Type: ty})
		}
		s.patterns[kind] = schema
	}
	return s, nil
}

func (s *Static) ResolveType(name string) (TypeResolution, bool) {
	if schema, ok := s.structs[name]; ok {
		cp := schema
		return TypeResolution{Kind: SchemaStruct, Struct: &cp}, true
	}
	if schema, ok := s.enums[name]; ok {
		cp := schema
		return TypeResolution{Kind: SchemaEnum, Enum: &cp}, true
	}
	if _, ok := s.domains[name]; ok {
		return TypeResolution{Kind: SchemaEntityDomain, EntityDomain: name}, true
	}
	return TypeResolution{}, false
}

func (s *Static) ResolveCallable(name string) (CallableSignature, bool) {
	sig, ok := s.callables[name]
	return sig, ok
}

func (s *Static) ResolveVariant(path []string) (VariantResolution, bool) {
	if len(path) != 2 {
		return VariantResolution{}, false
	}
	enum, ok := s.enums[path[0]]
	if !ok {
		return VariantResolution{}, false
	}
	argTypes, ok := enum.Variants[path[1]]
	if !ok {
		return VariantResolution{}, false
	}
	return VariantResolution{EnumName: path[0], VariantName: path[1], ArgTypes: argTypes}, true
}

func (s *Static) FieldType(structName, fieldName string) (types.Ty, bool) {
	schema, ok := s.structs[structName]
	if !ok {
		return types.Ty{}, false
	}
	for _, f := range schema.Fields {
		if f.Name == fieldName {
			return f.Type, true
		}
	}
	return types.Ty{}, false
}

func (s *Static) IsEntityDomain(name string) bool {
	_, ok := s.domains[name]
	return ok
}

func (s *Static) EntityType(domain string) types.Ty {
	if name, ok := s.domains[domain]; ok {
		return types.NamedTy(name)
	}
	return types.TyError
}

func (s *Static) PatternSchema(automationKind string) (StructSchema, bool) {
	schema, ok := s.patterns[automationKind]
	return schema, ok
}

// parseTypeName parses the small type-name grammar registry TOML documents
// use: bare names ("Int", "String", "Light"), and the parametric forms
// "[T]", "Set<T>", "Map<K, V>", "Option<T>", "Future<T>".
func parseTypeName(name string) (types.Ty, error) {
	switch name {
	case "Int":
		return types.TyInt, nil
	case "Float":
		return types.TyFloat, nil
	case "Bool":
		return types.TyBool, nil
	case "String":
		return types.TyString, nil
	case "Duration":
		return types.TyDuration, nil
	case "Angle":
		return types.TyAngle, nil
	case "Temperature":
		return types.TyTemperature, nil
	case "Unit", "":
		return types.TyUnit, nil
	}
	if len(name) >= 2 && name[0] == '[' && name[len(name)-1] == ']' {
		elem, err := parseTypeName(name[1 : len(name)-1])
		if err != nil {
			return types.Ty{}, err
		}
		return types.ListOf(elem), nil
	}
	if open, closeIdx, head, ok := splitParametric(name); ok {
		inner := name[open:closeIdx]
		switch head {
		case "Set":
			elem, err := parseTypeName(inner)
			if err != nil {
				return types.Ty{}, err
			}
			return types.SetOf(elem), nil
		case "Option":
			elem, err := parseTypeName(inner)
			if err != nil {
				return types.Ty{}, err
			}
			return types.OptionOf(elem), nil
		case "Future":
			elem, err := parseTypeName(inner)
			if err != nil {
				return types.Ty{}, err
			}
			return types.FutureOf(elem), nil
		case "Map":
			key, value, err := splitMapArgs(inner)
			if err != nil {
				return types.Ty{}, err
			}
			k, err := parseTypeName(key)
			if err != nil {
				return types.Ty{}, err
			}
			v, err := parseTypeName(value)
			if err != nil {
				return types.Ty{}, err
			}
			return types.MapOf(k, v), nil
		}
	}
	return types.NamedTy(name), nil
}

func splitParametric(name string) (openIdx, closeIdx int, head string, ok bool) {
	lt := -1
	for i, c := range name {
		if c == '<' {
			lt = i
			break
		}
	}
	if lt < 0 || name[len(name)-1] != '>' {
		return 0, 0, "", false
	}
	return lt + 1, len(name) - 1, name[:lt], true
}

func splitMapArgs(inner string) (key, value string, err error) {
	depth := 0
	for i, c := range inner {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return trimSpace(inner[:i]), trimSpace(inner[i+1:]), nil
			}
		}
	}
	return "", "", fmt.Errorf("malformed Map arguments %q", inner)
}

func trimSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
