package lsp

import (
	"slices"
	"strings"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// completions offers the names declared at the top level of the document,
// then keywords, filtered by the word being typed.
func completions(doc *Document, pos Position) []CompletionItem {
	items := []CompletionItem{}
	if doc == nil {
		return items
	}

	prefix := strings.ToLower(doc.WordBefore(pos))
	matches := func(label string) bool {
		return strings.HasPrefix(strings.ToLower(label), prefix)
	}

	seen := make(map[string]bool)
	for _, item := range declaredNames(doc.LastGood) {
		if !seen[item.Label] && matches(item.Label) {
			seen[item.Label] = true
			items = append(items, item)
		}
	}
	for _, kw := range token.Keywords() {
		if matches(kw) {
			items = append(items, CompletionItem{Label: kw, Kind: CompletionItemKindKeyword})
		}
	}
	return items
}

// declaredNames lists imports, properties, and functions declared at the
// top level of f, sorted by name.
func declaredNames(f *ast.File) []CompletionItem {
	if f == nil {
		return nil
	}

	var items []CompletionItem
	prop := func(kind ast.PropKind, name, typ string) {
		detail := string(kind)
		if typ != "" {
			detail += "<" + typ + ">"
		}
		items = append(items, CompletionItem{Label: name, Kind: CompletionItemKindProperty, Detail: detail})
	}

	for _, stmt := range f.Statements {
		switch n := stmt.(type) {
		case *ast.Import:
			for _, item := range n.Items {
				name := item.Name
				if item.Alias != "" {
					name = item.Alias
				}
				items = append(items, CompletionItem{Label: name, Kind: CompletionItemKindClass, Detail: "import from " + n.Path})
			}
		case *ast.ValProp:
			prop(ast.KindVal, n.Name, n.Type)
		case *ast.ExprProp:
			prop(ast.KindExpr, n.Name, n.Type)
		case *ast.DatasetProp:
			prop(ast.KindDataset, n.Name, n.Type)
		case *ast.CompProp:
			prop(ast.KindComp, n.Name, n.Type)
		case *ast.FunctionDef:
			items = append(items, CompletionItem{Label: n.Name, Kind: CompletionItemKindFunction, Detail: "fn -> " + string(n.ReturnKind)})
		}
	}

	slices.SortStableFunc(items, func(a, b CompletionItem) int {
		return strings.Compare(a.Label, b.Label)
	})
	return items
}
