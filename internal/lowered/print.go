package lowered

import (
	"fmt"
	"strconv"
	"strings"

	"hearthc/internal/ast"
)

// Print renders a lowered Program deterministically, for desugar snapshot
// tests.
func Print(p *Program) string {
	var b strings.Builder
	if p.Automation != nil {
		printAutomation(&b, p.Automation, 0)
	} else if p.Template != nil {
		for _, a := range p.Template.Automations {
			printAutomation(&b, a, 0)
		}
	}
	return b.String()
}

func printAutomation(b *strings.Builder, a *Automation, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	b.WriteString(a.Kind.String())
	b.WriteString(" /")
	if a.Filter != nil {
		printExpr(b, a.Filter)
	}
	b.WriteString("/ {\n")
	for _, s := range a.Body {
		printStmt(b, &s, indent+1)
	}
	b.WriteString(pad)
	b.WriteString("}\n")
}

func printStmt(b *strings.Builder, s *Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	switch s.Kind {
	case StmtLet:
		fmt.Fprintf(b, "let %s = ", s.Let.Name)
		printExpr(b, s.Let.Value)
		b.WriteString(";\n")
	case StmtLetMut:
		fmt.Fprintf(b, "let mut %s = ", s.LetMut.Name)
		printExpr(b, s.LetMut.Value)
		b.WriteString(";\n")
	case StmtExpr:
		printExpr(b, s.Expr.X)
		b.WriteString(";\n")
	case StmtReturn:
		b.WriteString("return ")
		printExpr(b, s.Return.Value)
		b.WriteString(";\n")
	case StmtFor:
		fmt.Fprintf(b, "for %s in ", s.For.Var)
		printExpr(b, s.For.Iter)
		b.WriteString(" {\n")
		for _, inner := range s.For.Body {
			printStmt(b, &inner, indent+1)
		}
		b.WriteString(pad)
		b.WriteString("}\n")
	case StmtPush:
		fmt.Fprintf(b, "push(%s, ", s.Push.List)
		printExpr(b, s.Push.Value)
		b.WriteString(");\n")
	}
}

func printExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ExprInt:
		fmt.Fprintf(b, "%d", e.IntLit.Value)
	case ExprFloat:
		b.WriteString(strconv.FormatFloat(e.FloatLit.Value, 'g', -1, 64))
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
		if e.UnaryOp.Op == ast.Await {
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
		b.WriteString(" { ... } else { ... }")
	case ExprList:
		b.WriteString("[")
		for i, el := range e.List.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, el)
		}
		b.WriteString("]")
	case ExprStructLit:
		fmt.Fprintf(b, "%s { ... }", e.StructLit.Name)
	case ExprBlock:
		b.WriteString("{ ... ")
		printExpr(b, e.Block.Result)
		b.WriteString(" }")
	case ExprMutableList:
		b.WriteString("MutableList")
	}
}
