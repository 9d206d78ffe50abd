// Package lowered defines the lowered AST produced by desugaring:
// list comprehensions are expanded into explicit loop constructs, and every
// node's provenance is tracked via an Origin rather than a raw span.
package lowered

import (
	"hearthc/internal/ast"
	"hearthc/internal/source"
)

// OriginKind discriminates a Direct 1:1 mapping from a synthetic node
// produced by desugaring a list comprehension.
type OriginKind uint8

const (
	// Direct nodes own their source ast.Expr exclusively: one lowered
	// node, one AST node.
	Direct OriginKind = iota
	// ListComp nodes are synthesized while expanding a single source
	// list comprehension; every synthetic node produced from the same
	// comprehension shares one *ListCompSource.
	ListComp
)

// ListCompSource is the shared, refcounted record for all synthetic nodes
// desugared from one source list comprehension. Go has no Rc<T>; a pointer
// shared across Origin values plays the same role, since nothing here
// mutates it after desugarListComp constructs it.
type ListCompSource struct {
	Expr *ast.Expr // the original Expr, Kind == ast.ExprListComp
}

// Origin records which source AST node a lowered node was produced from.
type Origin struct {
	Kind OriginKind

	Direct   *ast.Expr
	ListComp *ListCompSource
}

// DirectOrigin wraps e as a 1:1 mapping.
func DirectOrigin(e *ast.Expr) Origin {
	return Origin{Kind: Direct, Direct: e}
}

// ListCompOrigin wraps a shared comprehension source.
func ListCompOrigin(src *ListCompSource) Origin {
	return Origin{Kind: ListComp, ListComp: src}
}

// Span returns the source span of the originating AST node.
func (o Origin) Span() source.Span {
	switch o.Kind {
	case ListComp:
		return o.ListComp.Expr.Span
	default:
		return o.Direct.Span
	}
}

// IsSynthetic reports whether this node was generated by desugaring rather
// than corresponding 1:1 to a parsed node.
func (o Origin) IsSynthetic() bool { return o.Kind == ListComp }
