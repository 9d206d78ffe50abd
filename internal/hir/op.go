package hir

import "hearthc/internal/ast"

// OpKind discriminates the variant carried by an Op. And/Or are
// deliberately absent: short-circuit logic is expressed only via Branch
// terminators.
type OpKind uint8

const (
	OpConstInt OpKind = iota
	OpConstFloat
	OpConstString
	OpConstBool
	OpConstUnit // literal with a preserved unit suffix
	OpUnit      // the void value
	OpBinOp
	OpNeg
	OpNot
	OpDeref
	OpAwait
	OpField
	OpOptionalField
	OpCall
	OpVariant
	OpEmptyList
	OpList
	OpListPush
	OpIterInit
	OpStruct
	OpCopy
)

// Op is the tagged-union payload of one Instruction.
type Op struct {
	Kind OpKind

	ConstInt      ConstIntOp
	ConstFloat    ConstFloatOp
	ConstString   ConstStringOp
	ConstBool     ConstBoolOp
	ConstUnit     ConstUnitOp
	BinOp         BinOpOp
	Neg           UnaryTmpOp
	Not           UnaryTmpOp
	Deref         UnaryTmpOp
	Await         UnaryTmpOp
	Field         FieldOp
	OptionalField FieldOp
	Call          CallOp
	Variant       VariantOp
	List          ListOp
	ListPush      ListPushOp
	IterInit      IterInitOp
	Struct        StructOp
	Copy          CopyOp
}

type ConstIntOp struct{ Value int64 }
type ConstFloatOp struct{ Value float64 }
type ConstStringOp struct{ Value string }
type ConstBoolOp struct{ Value bool }

// ConstUnitOp carries a unit literal's original numeric text and suffix
// through to HIR.
type ConstUnitOp struct {
	Text string
	Unit ast.UnitLitExpr
}

type BinOpOp struct {
	Op          ast.BinOpKind
	Left, Right Tmp
}

// UnaryTmpOp covers Neg/Not/Deref/Await, which all take one Tmp operand.
type UnaryTmpOp struct{ X Tmp }

type FieldOp struct {
	Base Tmp
	Name string
}

type CallOp struct {
	Name string
	Args []Tmp
}

type VariantOp struct {
	Enum    string
	Variant string
	Args    []Tmp
}

type ListOp struct{ Elems []Tmp }

type ListPushOp struct {
	List  Tmp
	Value Tmp
}

type IterInitOp struct{ Collection Tmp }

// StructFieldKind discriminates a Struct op's field entries.
type StructFieldKind uint8

const (
	StructFieldSet StructFieldKind = iota
	StructFieldSpread
)

type StructFieldOp struct {
	Kind  StructFieldKind
	Name  string
	Value Tmp // set only for StructFieldSet
	Src   Tmp // set only for StructFieldSpread
}

type StructOp struct {
	Name   string
	Fields []StructFieldOp
}

type CopyOp struct{ Src Tmp }
