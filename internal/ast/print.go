package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a Program back to source text. Re-parsing the result must
// be structurally equal (ignoring spans) to the original parse — the
// parse-idempotence property this module's formatter relies on.
func Print(p *Program) string {
	var b strings.Builder
	if p.Automation != nil {
		printAutomation(&b, p.Automation, 0)
	} else if p.Template != nil {
		printTemplate(&b, p.Template)
	}
	return b.String()
}

func printTemplate(b *strings.Builder, t *Template) {
	b.WriteString("template(")
	for i, p := range t.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %s", p.Name, printTypeSyn(p.Type))
	}
	b.WriteString(") {\n")
	for _, a := range t.Automations {
		printAutomation(b, a, 1)
	}
	b.WriteString("}\n")
}

func printTypeSyn(t *TypeSyn) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeSynNamed:
		return t.Named
	case TypeSynList:
		return "[" + printTypeSyn(t.Elem) + "]"
	case TypeSynSet:
		return "Set<" + printTypeSyn(t.Elem) + ">"
	case TypeSynMap:
		return "Map<" + printTypeSyn(t.Key) + ", " + printTypeSyn(t.Value) + ">"
	case TypeSynOption:
		return "Option<" + printTypeSyn(t.Elem) + ">"
	default:
		return "?"
	}
}

func printAutomation(b *strings.Builder, a *Automation, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	b.WriteString(a.Kind.String())
	b.WriteString(" ")
	printPattern(b, a.Pattern)
	b.WriteString(" /")
	printExpr(b, a.Filter)
	b.WriteString("/ {\n")
	for _, s := range a.Body {
		printStmt(b, &s, indent+1)
	}
	b.WriteString(pad)
	b.WriteString("}\n")
}

func printPattern(b *strings.Builder, p *Pattern) {
	switch p.Kind {
	case PatternIdent:
		b.WriteString(p.Ident.Name)
	case PatternStruct:
		b.WriteString("{ ")
		for i, f := range p.Struct.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			if f.Pattern != nil {
				b.WriteString(": ")
				printPattern(b, f.Pattern)
			}
		}
		if p.Struct.Rest {
			if len(p.Struct.Fields) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteString(" }")
	}
}

func printStmt(b *strings.Builder, s *Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	switch s.Kind {
	case StmtLet:
		fmt.Fprintf(b, "let %s = ", s.Let.Name)
		printExpr(b, s.Let.Value)
		b.WriteString(";\n")
	case StmtExpr:
		printExpr(b, s.Expr.X)
		b.WriteString(";\n")
	case StmtReturn:
		b.WriteString("return ")
		printExpr(b, s.Return.Value)
		b.WriteString(";\n")
	}
}

func printExpr(b *strings.Builder, e *Expr) {
	switch e.Kind {
	case ExprInt:
		fmt.Fprintf(b, "%d", e.IntLit.Value)
	case ExprFloat:
		s := strconv.FormatFloat(e.FloatLit.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0" // keep an integral float from reparsing as an Int
		}
		b.WriteString(s)
	case ExprString:
		fmt.Fprintf(b, "%q", e.StringLit.Value)
	case ExprBool:
		fmt.Fprintf(b, "%t", e.BoolLit.Value)
	case ExprUnit:
		fmt.Fprintf(b, "%s%s", e.UnitLit.Text, e.UnitLit.Unit.String())
	case ExprIdent:
		b.WriteString(e.Ident.Name)
	case ExprPath:
		b.WriteString(strings.Join(e.Path.Segments, "::"))
	case ExprBinOp:
		b.WriteString("(")
		printExpr(b, e.BinOp.Left)
		fmt.Fprintf(b, " %s ", e.BinOp.Op.String())
		printExpr(b, e.BinOp.Right)
		b.WriteString(")")
	case ExprUnaryOp:
		if e.UnaryOp.Op == Await {
			b.WriteString("await ")
		} else {
			b.WriteString(e.UnaryOp.Op.String())
		}
		printExpr(b, e.UnaryOp.X)
	case ExprField, ExprOptionalField:
		printExpr(b, e.Field.X)
		if e.Field.Optional {
			b.WriteString("?.")
		} else {
			b.WriteString(".")
		}
		b.WriteString(e.Field.Name)
	case ExprCall:
		printExpr(b, e.Call.Func)
		b.WriteString("(")
		for i, a := range e.Call.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.Name != "" {
				fmt.Fprintf(b, "%s = ", a.Name)
			}
			printExpr(b, a.Value)
		}
		b.WriteString(")")
	case ExprIf:
		b.WriteString("if ")
		printExpr(b, e.If.Cond)
		b.WriteString(" { ")
		printBlockInline(b, e.If.Then)
		b.WriteString(" }")
		if e.If.Else != nil {
			b.WriteString(" else { ")
			printBlockInline(b, e.If.Else)
			b.WriteString(" }")
		}
	case ExprList:
		b.WriteString("[")
		for i, el := range e.List.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, el)
		}
		b.WriteString("]")
	case ExprListComp:
		b.WriteString("[")
		printExpr(b, e.ListComp.Expr)
		fmt.Fprintf(b, " for %s in ", e.ListComp.Var)
		printExpr(b, e.ListComp.Iter)
		if e.ListComp.Filter != nil {
			b.WriteString(" if ")
			printExpr(b, e.ListComp.Filter)
		}
		b.WriteString("]")
	case ExprStructLit:
		fmt.Fprintf(b, "%s { ", e.StructLit.Name)
		for i, f := range e.StructLit.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			switch f.Kind {
			case FieldSet:
				fmt.Fprintf(b, "%s: ", f.Name)
				printExpr(b, f.Value)
			case FieldInherit:
				fmt.Fprintf(b, "inherit %s", f.Name)
			case FieldSpread:
				fmt.Fprintf(b, "...%s", f.Name)
			}
		}
		b.WriteString(" }")
	}
}

// printBlockInline renders a statement list on a single line, the form
// used inside an If expression's braces. Every statement keeps its ';',
// including a trailing expression, since the parser requires one after
// each statement.
func printBlockInline(b *strings.Builder, stmts []Stmt) {
	for _, s := range stmts {
		printStmtInline(b, &s)
	}
}

func printStmtInline(b *strings.Builder, s *Stmt) {
	switch s.Kind {
	case StmtLet:
		fmt.Fprintf(b, "let %s = ", s.Let.Name)
		printExpr(b, s.Let.Value)
		b.WriteString("; ")
	case StmtExpr:
		printExpr(b, s.Expr.X)
		b.WriteString("; ")
	case StmtReturn:
		b.WriteString("return ")
		printExpr(b, s.Return.Value)
		b.WriteString("; ")
	}
}
