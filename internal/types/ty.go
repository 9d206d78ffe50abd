// Package types defines the semantic type lattice assigned to every
// expression by the checker. It is distinct
// from the syntactic ast.TypeSyn grammar used for template parameters.
package types

import "fmt"

// Kind discriminates the variant carried by a Ty.
type Kind uint8

const (
	Int Kind = iota
	Float
	Bool
	String

	Duration
	Angle
	Temperature

	List
	Set
	Map
	Option
	Future

	Named
	EnumVariant

	Unit

	// Error is a poison type: once assigned, it propagates silently
	// through any expression built from it and is never itself the
	// cause of a new diagnostic.
	Error
)

// Ty is a semantic type value. Exactly one variant field is meaningful,
// selected by Kind, following the Kind+struct-per-variant convention used
// throughout this compiler's IR layers.
type Ty struct {
	Kind Kind

	Elem  *Ty // List, Set, Option, Future
	Key   *Ty // Map
	Value *Ty // Map

	Named       string // Named
	EnumName    string // EnumVariant
	VariantName string // EnumVariant
}

func (t Ty) String() string {
	switch t.Kind {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Duration:
		return "Duration"
	case Angle:
		return "Angle"
	case Temperature:
		return "Temperature"
	case List:
		return fmt.Sprintf("[%s]", t.Elem)
	case Set:
		return fmt.Sprintf("Set<%s>", t.Elem)
	case Map:
		return fmt.Sprintf("Map<%s, %s>", t.Key, t.Value)
	case Option:
		return fmt.Sprintf("Option<%s>", t.Elem)
	case Future:
		return fmt.Sprintf("Future<%s>", t.Elem)
	case Named:
		return t.Named
	case EnumVariant:
		return fmt.Sprintf("%s::%s", t.EnumName, t.VariantName)
	case Unit:
		return "()"
	case Error:
		return "<error>"
	default:
		return "<unknown>"
	}
}

// Equal reports structural equality between two types. Error is never
// equal to anything, including itself, so comparisons involving a poison
// type never spuriously succeed.
func (t Ty) Equal(other Ty) bool {
	if t.Kind == Error || other.Kind == Error {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case List, Set, Option, Future:
		return t.Elem.Equal(*other.Elem)
	case Map:
		return t.Key.Equal(*other.Key) && t.Value.Equal(*other.Value)
	case Named:
		return t.Named == other.Named
	case EnumVariant:
		return t.EnumName == other.EnumName && t.VariantName == other.VariantName
	default:
		return true
	}
}

// IsNumeric reports whether t supports arithmetic (+, -, *, /, %).
func (t Ty) IsNumeric() bool {
	switch t.Kind {
	case Int, Float, Duration, Angle, Temperature:
		return true
	default:
		return false
	}
}

func ListOf(elem Ty) Ty { return Ty{Kind: List, Elem: &elem} }
func SetOf(elem Ty) Ty { return Ty{Kind: Set, Elem: &elem} }
func OptionOf(elem Ty) Ty { return Ty{Kind: Option, Elem: &elem} }
func FutureOf(elem Ty) Ty { return Ty{Kind: Future, Elem: &elem} }
func MapOf(key, value Ty) Ty { return Ty{Kind: Map, Key: &key, Value: &value} }
func NamedTy(name string) Ty { return Ty{Kind: Named, Named: name} }
func Variant(enumName, variantName string) Ty {
	return Ty{Kind: EnumVariant, EnumName: enumName, VariantName: variantName}
}

var (
	TyInt         = Ty{Kind: Int}
	TyFloat       = Ty{Kind: Float}
	TyBool        = Ty{Kind: Bool}
	TyString      = Ty{Kind: String}
	TyDuration    = Ty{Kind: Duration}
	TyAngle       = Ty{Kind: Angle}
	TyTemperature = Ty{Kind: Temperature}
	TyUnit        = Ty{Kind: Unit}
	TyError       = Ty{Kind: Error}
)
