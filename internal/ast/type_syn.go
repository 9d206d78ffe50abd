package ast

// TypeSynKind discriminates the variant carried by a TypeSyn. This is the
// syntactic type-annotation grammar used only by template parameters; it
// is distinct from the semantic type lattice the checker assigns to every
// expression.
type TypeSynKind uint8

const (
	TypeSynNamed TypeSynKind = iota
	TypeSynList
	TypeSynSet
	TypeSynMap
	TypeSynOption
)

// TypeSyn is a syntactic type annotation, e.g. `Map<String, Int>`.
type TypeSyn struct {
	Kind  TypeSynKind
	Named string   // set when Kind == TypeSynNamed
	Elem  *TypeSyn // set when Kind is List, Set, or Option
	Key   *TypeSyn // set when Kind == TypeSynMap
	Value *TypeSyn // set when Kind == TypeSynMap
}
