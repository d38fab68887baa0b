package lsp

import (
	"fmt"
	"strings"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// hover describes the innermost syntax node under pos. It returns nil when
// the document does not currently parse or pos is outside every node.
func hover(doc *Document, pos Position) *Hover {
	if doc == nil || doc.File == nil {
		return nil
	}

	node := nodeAt(doc.File, doc.Offset(pos))
	if node == nil {
		return nil
	}

	span := token.Span{Start: node.Pos(), End: node.End()}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", nodeKind(node))
	if name := nodeName(node); name != "" {
		fmt.Fprintf(&b, " `%s`", name)
	}
	fmt.Fprintf(&b, "\n\n%s", span)

	r := toRange(span)
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: b.String()},
		Range:    &r,
	}
}

// nodeAt returns the innermost node whose span contains offset.
func nodeAt(root ast.Node, offset int) ast.Node {
	var found ast.Node
	ast.Walk(root, func(n ast.Node) bool {
		if offset < n.Pos().Offset || offset >= n.End().Offset {
			return false
		}
		found = n
		return true
	})
	return found
}

func nodeKind(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

func nodeName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.ImportItem:
		return n.Name
	case *ast.ValProp:
		return n.Name
	case *ast.ExprProp:
		return n.Name
	case *ast.DatasetProp:
		return n.Name
	case *ast.CompProp:
		return n.Name
	case *ast.PropBinding:
		return n.Name
	case *ast.CompInstance:
		return n.Name
	case *ast.FunctionDef:
		return n.Name
	case *ast.Param:
		return n.Name
	case *ast.FieldReference:
		var parts []string
		for _, p := range []string{n.Schema, n.Table, n.Name} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ".")
	case *ast.Invocation:
		return n.Name
	}
	return ""
}
