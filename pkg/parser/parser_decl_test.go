package parser_test

import (
	"testing"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImports(t *testing.T) {
	f := mustParse(t, `
		import { Rect, Symbol as Sym } from 'avenger/marks';
		import Chart from 'charts';`)

	require.Len(t, f.Statements, 2)

	imp, ok := f.Statements[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "avenger/marks", imp.Path)
	require.Len(t, imp.Items, 2)
	assert.Equal(t, "Rect", imp.Items[0].Name)
	assert.Empty(t, imp.Items[0].Alias)
	assert.Equal(t, "Symbol", imp.Items[1].Name)
	assert.Equal(t, "Sym", imp.Items[1].Alias)

	bare := f.Statements[1].(*ast.Import)
	require.Len(t, bare.Items, 1)
	assert.Equal(t, "Chart", bare.Items[0].Name)
	assert.Equal(t, "charts", bare.Path)
}

func TestPropertyDeclarations(t *testing.T) {
	f := mustParse(t, `
		in val<int> width: 10;
		out expr e: x + 1;
		dataset d: SELECT * FROM t;
		comp c: Rect { x: 1; };
		val plain: 'hi';`)

	require.Len(t, f.Statements, 5)

	v := f.Statements[0].(*ast.ValProp)
	assert.Equal(t, ast.QualIn, v.Qualifier)
	assert.Equal(t, "int", v.Type)
	assert.Equal(t, "width", v.Name)
	assert.Equal(t, "10", render(v.Value))

	e := f.Statements[1].(*ast.ExprProp)
	assert.Equal(t, ast.QualOut, e.Qualifier)
	assert.Equal(t, "(x + 1)", render(e.Value))

	d := f.Statements[2].(*ast.DatasetProp)
	assert.Equal(t, ast.QualNone, d.Qualifier)
	assert.IsType(t, &ast.SelectStatement{}, d.Value.Body)

	c := f.Statements[3].(*ast.CompProp)
	assert.Equal(t, "Rect", c.Value.Name)
	assert.Len(t, c.Value.Body, 1)

	p := f.Statements[4].(*ast.ValProp)
	assert.Empty(t, p.Type)
	assert.Equal(t, "'hi'", render(p.Value))
}

func TestCompPropSemicolonOptional(t *testing.T) {
	f := mustParse(t, "comp a: Rect { } comp b: Rect { };")
	require.Len(t, f.Statements, 2)
	assert.IsType(t, &ast.CompProp{}, f.Statements[0])
	assert.IsType(t, &ast.CompProp{}, f.Statements[1])
}

func TestBindings(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		check    func(t *testing.T, v ast.QueryOrExpr)
	}{
		{"expression", "x: a * 2;", "x", func(t *testing.T, v ast.QueryOrExpr) {
			assert.Equal(t, "(a * 2)", render(v.(ast.Expr)))
		}},
		{"kind keyword as name", "val: 1;", "val", func(t *testing.T, v ast.QueryOrExpr) {
			assert.Equal(t, "1", render(v.(ast.Expr)))
		}},
		{"out as name", "out: 2;", "out", func(t *testing.T, v ast.QueryOrExpr) {
			assert.Equal(t, "2", render(v.(ast.Expr)))
		}},
		{"query", "data: SELECT 1;", "data", func(t *testing.T, v ast.QueryOrExpr) {
			assert.IsType(t, &ast.Query{}, v)
		}},
		{"with query", "data: WITH a AS (SELECT 1) SELECT * FROM a;", "data", func(t *testing.T, v ast.QueryOrExpr) {
			q, ok := v.(*ast.Query)
			require.True(t, ok)
			assert.Len(t, q.CTEs, 1)
		}},
		{"parenthesized query", "data: (SELECT 1);", "data", func(t *testing.T, v ast.QueryOrExpr) {
			assert.IsType(t, &ast.Query{}, v)
		}},
		{"parenthesized union", "data: (SELECT 1) UNION (SELECT 2);", "data", func(t *testing.T, v ast.QueryOrExpr) {
			q, ok := v.(*ast.Query)
			require.True(t, ok)
			assert.IsType(t, &ast.SetOperation{}, q.Body)
		}},
		{"subquery arithmetic", "n: (SELECT 1) + 1;", "n", func(t *testing.T, v ast.QueryOrExpr) {
			assert.Equal(t, "(subquery + 1)", render(v.(ast.Expr)))
		}},
		{"grouped expression", "n: (1 + 2);", "n", func(t *testing.T, v ast.QueryOrExpr) {
			assert.Equal(t, "group(1 + 2)", render(v.(ast.Expr)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustParse(t, tt.src)
			require.Len(t, f.Statements, 1)
			b, ok := f.Statements[0].(*ast.PropBinding)
			require.True(t, ok, "got %T", f.Statements[0])
			assert.Equal(t, tt.wantName, b.Name)
			tt.check(t, b.Value)
		})
	}
}

func TestComponentInstances(t *testing.T) {
	f := mustParse(t, `
		Chart {
			width: 100;
			Rect {
				x: @offset + 1;
			}
			Text { }
		}`)

	require.Len(t, f.Statements, 1)
	chart, ok := f.Statements[0].(*ast.CompInstance)
	require.True(t, ok)
	assert.Equal(t, "Chart", chart.Name)
	require.Len(t, chart.Body, 3)
	assert.IsType(t, &ast.PropBinding{}, chart.Body[0])

	rect := chart.Body[1].(*ast.CompInstance)
	assert.Equal(t, "Rect", rect.Name)
	require.Len(t, rect.Body, 1)

	// a non-reserved keyword spelled in Pascal case names a component
	assert.Equal(t, "Text", chart.Body[2].(*ast.CompInstance).Name)
}

func TestFunctionDefinitions(t *testing.T) {
	f := mustParse(t, `
		fn scale(val v, expr<float> e) -> val<float> {
			val k: 2;
			return v * k + e;
		}
		fn rows() -> dataset {
			return SELECT * FROM t;
		}`)

	require.Len(t, f.Statements, 2)

	scale := f.Statements[0].(*ast.FunctionDef)
	assert.Equal(t, "scale", scale.Name)
	require.Len(t, scale.Params, 2)
	assert.Equal(t, ast.KindVal, scale.Params[0].Kind)
	assert.Equal(t, "v", scale.Params[0].Name)
	assert.Equal(t, ast.KindExpr, scale.Params[1].Kind)
	assert.Equal(t, "float", scale.Params[1].Type)
	assert.Equal(t, ast.KindVal, scale.ReturnKind)
	assert.Equal(t, "float", scale.ReturnType)
	assert.Len(t, scale.Body, 1)
	require.NotNil(t, scale.Return)
	assert.Equal(t, "((v * k) + e)", render(scale.Return.Value.(ast.Expr)))

	rows := f.Statements[1].(*ast.FunctionDef)
	assert.Empty(t, rows.Params)
	assert.Equal(t, ast.KindDataset, rows.ReturnKind)
	assert.IsType(t, &ast.Query{}, rows.Return.Value)
}

func TestStatementOrder(t *testing.T) {
	f := mustParse(t, `
		-- header comment
		import { Rect } from 'marks';
		in dataset src: SELECT 1;
		fn f() -> val { return 1; }
		/* block */
		Rect { }
		width: 3;`)

	kinds := make([]string, len(f.Statements))
	for i, s := range f.Statements {
		switch s.(type) {
		case *ast.Import:
			kinds[i] = "import"
		case *ast.DatasetProp:
			kinds[i] = "dataset"
		case *ast.FunctionDef:
			kinds[i] = "fn"
		case *ast.CompInstance:
			kinds[i] = "instance"
		case *ast.PropBinding:
			kinds[i] = "binding"
		}
	}
	assert.Equal(t, []string{"import", "dataset", "fn", "instance", "binding"}, kinds)
}

func TestEmptyFile(t *testing.T) {
	f := mustParse(t, "  -- nothing here\n")
	assert.Empty(t, f.Statements)
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		wantLine    int
		wantColumn  int
		wantMessage string
	}{
		{"missing value", "val x: ;", 1, 8, `unexpected ";", expected expression`},
		{"missing semicolon", "val x: 1", 1, 9, `unexpected end of input, expected ";"`},
		{"lower-case component", "chart { }", 1, 1, `component name "chart" must start with an upper-case letter`},
		{"lower-case import", "import { rect } from 'x';", 1, 10, `import name "rect" must start with an upper-case letter`},
		{"upper-case property", "val X: 1;", 1, 5, `property name "X" must start with a lower-case letter`},
		{"upper-case function", "fn F() -> val { return 1; }", 1, 4, `function name "F" must start with a lower-case letter`},
		{"missing return", "fn f() -> val {\n  val a: 1;\n}", 3, 1, `function "f" must end with a return statement`},
		{"statement after return", "fn f() -> val { return 1; val a: 2; }", 1, 27, `return must be the last statement of function "f"`},
		{"second return", "fn f() -> val { return 1; return 2; }", 1, 27, `return must be the last statement of function "f"`},
		{"binding in function", "fn f() -> val { x: 1; return 1; }", 1, 17, `unexpected IDENT "x", expected property declaration or RETURN`},
		{"bad return kind", "fn f() -> int { return 1; }", 1, 11, `unexpected keyword INT, expected VAL, EXPR, DATASET or COMP`},
		{"name without colon", "width 10;", 1, 7, `unexpected NUMBER "10", expected ":" or "{"`},
		{"not a statement", "42;", 1, 1, `unexpected NUMBER "42", expected statement`},
		{"unclosed instance", "Chart { x: 1;", 1, 14, `unexpected end of input, expected "}"`},
		{"unclosed import braces", "import { Rect from 'x';", 1, 15, `unexpected keyword FROM, expected "}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parser.Parse(tt.src)
			assert.Nil(t, f)
			se := syntaxError(t, err)
			assert.Equal(t, tt.wantLine, se.Pos.Line)
			assert.Equal(t, tt.wantColumn, se.Pos.Column)
			assert.Equal(t, tt.wantMessage, se.Detail())
		})
	}
}

func TestMissingValuePosition(t *testing.T) {
	_, err := parser.Parse("val x: ;")
	se := syntaxError(t, err)
	assert.Equal(t, 7, se.Pos.Offset)
	assert.Equal(t, []string{"expression"}, se.Expected)
	assert.Equal(t, `syntax error at line 1, column 8: unexpected ";", expected expression`, se.Error())
}

func TestParseIsAllOrNothing(t *testing.T) {
	f, err := parser.Parse("val a: 1;\nval b: 2;\nval c: ;")
	assert.Nil(t, f)
	se := syntaxError(t, err)
	assert.Equal(t, 3, se.Pos.Line)
}

func TestLexErrorsSurfaceFromParse(t *testing.T) {
	_, err := parser.Parse("val s: 'unterminated;")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrLex)

	var le *parser.LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 8, le.Pos.Column)
}
