package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/stretchr/testify/require"
)

// render prints an expression fully parenthesized so grouping is explicit:
// a OR b AND c renders as (a OR (b AND c)).
func render(e ast.Expr) string {
	switch n := e.(type) {
	case nil:
		return "<nil>"
	case *ast.Literal:
		if n.Kind == ast.LiteralString {
			return "'" + n.Value + "'"
		}
		return n.Value
	case *ast.FieldReference:
		return joinNonEmpty(n.Schema, n.Table, n.Name)
	case *ast.Parameter:
		switch n.Kind {
		case ast.ParamNamed:
			return "@" + n.Name
		case ast.ParamNumbered:
			return fmt.Sprintf("$%d", n.Index)
		}
		return "?"
	case *ast.Star:
		if n.Table != "" {
			return n.Table + ".*"
		}
		return "*"
	case *ast.BinaryExpression:
		return "(" + render(n.Left) + " " + n.Op + " " + render(n.Right) + ")"
	case *ast.UnaryExpression:
		return "(" + n.Op + " " + render(n.Operand) + ")"
	case *ast.Between:
		op := " BETWEEN "
		if n.Not {
			op = " NOT BETWEEN "
		}
		return "(" + render(n.Expr) + op + render(n.Low) + " AND " + render(n.High) + ")"
	case *ast.GroupedExpression:
		return "group" + render(n.Expr)
	case *ast.List:
		return "list(" + renderList(n.Items) + ")"
	case *ast.ArrayConstructor:
		if n.Query != nil {
			return "array(query)"
		}
		return "array[" + renderList(n.Elements) + "]"
	case *ast.Invocation:
		name := joinNonEmpty(n.Schema, n.Name)
		if n.Distinct {
			return name + "(DISTINCT " + renderList(n.Args) + ")"
		}
		return name + "(" + renderList(n.Args) + ")"
	case *ast.WindowFunction:
		if n.WindowName != "" {
			return render(n.Call) + " OVER " + n.WindowName
		}
		return render(n.Call) + " OVER (...)"
	case *ast.Cast:
		return "cast(" + render(n.Expr) + " AS " + renderType(n.Type) + ")"
	case *ast.Subscript:
		if n.Slice {
			return render(n.Expr) + "[" + renderOpt(n.Lower) + ":" + renderOpt(n.Upper) + "]"
		}
		return render(n.Expr) + "[" + render(n.Index) + "]"
	case *ast.Subquery:
		return "subquery"
	case *ast.Exists:
		return "exists(query)"
	case *ast.Case:
		return "case"
	case *ast.Interval:
		return strings.TrimSpace("interval '" + n.Value + "' " + n.Unit)
	}
	return fmt.Sprintf("%T", e)
}

func renderList(items []ast.Expr) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = render(item)
	}
	return strings.Join(parts, ", ")
}

func renderOpt(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return render(e)
}

func renderType(t *ast.TypeName) string {
	s := joinNonEmpty(t.Schema, t.Name)
	if len(t.Modifiers) > 0 {
		s += "(" + strings.Join(t.Modifiers, ", ") + ")"
	}
	return s + strings.Repeat("[]", t.ArrayDims)
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// mustExpr parses a bare expression.
func mustExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.ParseExpression(src)
	require.NoError(t, err, "parsing %q", src)
	return e
}

// mustQuery parses a bare query.
func mustQuery(t *testing.T, src string) *ast.Query {
	t.Helper()
	q, err := parser.ParseQuery(src)
	require.NoError(t, err, "parsing %q", src)
	return q
}

// mustSelect parses a query whose body is a single SELECT.
func mustSelect(t *testing.T, src string) *ast.SelectStatement {
	t.Helper()
	q := mustQuery(t, src)
	sel, ok := q.Body.(*ast.SelectStatement)
	require.True(t, ok, "body is %T", q.Body)
	return sel
}

// mustParse parses a program.
func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.Parse(src)
	require.NoError(t, err, "parsing %q", src)
	return f
}

// syntaxError asserts that err is a *SyntaxError and returns it.
func syntaxError(t *testing.T, err error) *parser.SyntaxError {
	t.Helper()
	require.Error(t, err)
	var se *parser.SyntaxError
	require.ErrorAs(t, err, &se)
	return se
}
