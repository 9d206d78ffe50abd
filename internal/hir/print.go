package hir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a Program in the canonical deterministic form used for
// snapshot tests: `%N` for Tmp, `bbN` for BlockID, `op left, right`
// for instructions, `[type]` tags where types are meaningful.
func Print(p *Program) string {
	var b strings.Builder
	if p.Automation != nil {
		printAutomation(&b, p.Automation)
	}
	for _, a := range p.Automations {
		printAutomation(&b, a)
	}
	return b.String()
}

func printAutomation(b *strings.Builder, a *Automation) {
	fmt.Fprintf(b, "automation %s(", a.Kind.String())
	for i, p := range a.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %%%d [%s]", p.Name, int(p.Tmp), p.Ty)
	}
	b.WriteString(") {\n")
	for _, blk := range a.Blocks {
		printBlock(b, blk)
	}
	b.WriteString("}\n")
}

func printBlock(b *strings.Builder, blk *BasicBlock) {
	fmt.Fprintf(b, "bb%d:\n", int(blk.ID))
	for _, in := range blk.Instrs {
		fmt.Fprintf(b, "  %%%d = %s [%s]\n", int(in.Dst), printOp(in.Op), in.Ty)
	}
	fmt.Fprintf(b, "  %s\n", printTerm(blk.Term))
}

func tmp(t Tmp) string { return "%" + strconv.Itoa(int(t)) }
func bb(id BlockID) string { return "bb" + strconv.Itoa(int(id)) }

func printOp(op Op) string {
	switch op.Kind {
	case OpConstInt:
		return fmt.Sprintf("const_int %d", op.ConstInt.Value)
	case OpConstFloat:
		return fmt.Sprintf("const_float %g", op.ConstFloat.Value)
	case OpConstString:
		return fmt.Sprintf("const_string %q", op.ConstString.Value)
	case OpConstBool:
		return fmt.Sprintf("const_bool %t", op.ConstBool.Value)
	case OpConstUnit:
		return fmt.Sprintf("const_unit %s", op.ConstUnit.Text)
	case OpUnit:
		return "unit"
	case OpBinOp:
		return fmt.Sprintf("%s %s, %s", op.BinOp.Op, tmp(op.BinOp.Left), tmp(op.BinOp.Right))
	case OpNeg:
		return fmt.Sprintf("neg %s", tmp(op.Neg.X))
	case OpNot:
		return fmt.Sprintf("not %s", tmp(op.Not.X))
	case OpDeref:
		return fmt.Sprintf("deref %s", tmp(op.Deref.X))
	case OpAwait:
		return fmt.Sprintf("await %s", tmp(op.Await.X))
	case OpField:
		return fmt.Sprintf("field %s.%s", tmp(op.Field.Base), op.Field.Name)
	case OpOptionalField:
		return fmt.Sprintf("optional_field %s.%s", tmp(op.OptionalField.Base), op.OptionalField.Name)
	case OpCall:
		return fmt.Sprintf("call %s(%s)", op.Call.Name, joinTmps(op.Call.Args))
	case OpVariant:
		return fmt.Sprintf("variant %s::%s(%s)", op.Variant.Enum, op.Variant.Variant, joinTmps(op.Variant.Args))
	case OpEmptyList:
		return "empty_list"
	case OpList:
		return fmt.Sprintf("list [%s]", joinTmps(op.List.Elems))
	case OpListPush:
		return fmt.Sprintf("list_push %s, %s", tmp(op.ListPush.List), tmp(op.ListPush.Value))
	case OpIterInit:
		return fmt.Sprintf("iter_init %s", tmp(op.IterInit.Collection))
	case OpStruct:
		return fmt.Sprintf("struct %s{%s}", op.Struct.Name, printStructFields(op.Struct.Fields))
	case OpCopy:
		return fmt.Sprintf("copy %s", tmp(op.Copy.Src))
	default:
		return "?"
	}
}

func printStructFields(fields []StructFieldOp) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Kind == StructFieldSpread {
			parts[i] = fmt.Sprintf("...%s=%s", f.Name, tmp(f.Src))
		} else {
			parts[i] = fmt.Sprintf("%s=%s", f.Name, tmp(f.Value))
		}
	}
	return strings.Join(parts, ", ")
}

func joinTmps(ts []Tmp) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = tmp(t)
	}
	return strings.Join(parts, ", ")
}

func printTerm(t Terminator) string {
	switch t.Kind {
	case TermJump:
		return fmt.Sprintf("jump %s", bb(t.Jump.Target))
	case TermBranch:
		return fmt.Sprintf("branch %s, %s, %s", tmp(t.Branch.Cond), bb(t.Branch.Then), bb(t.Branch.Else))
	case TermReturn:
		return fmt.Sprintf("return %s", tmp(t.Return.Value))
	case TermIterNext:
		return fmt.Sprintf("iter_next %s, %s, %s, %s",
			tmp(t.IterNext.Iter), tmp(t.IterNext.ValueDst), bb(t.IterNext.Body), bb(t.IterNext.Exit))
	default:
		return "<none>"
	}
}
