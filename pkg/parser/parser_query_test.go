package parser_test

import (
	"testing"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectProjection(t *testing.T) {
	sel := mustSelect(t, `SELECT DISTINCT a, b AS bee, c cee, d AS "Dee", e AS 'eee', t.* FROM t`)

	assert.True(t, sel.Distinct)
	require.Len(t, sel.Projection, 6)

	aliases := make([]string, len(sel.Projection))
	for i, item := range sel.Projection {
		aliases[i] = item.Alias
	}
	assert.Equal(t, []string{"", "bee", "cee", "Dee", "eee", ""}, aliases)
	assert.Equal(t, "t.*", render(sel.Projection[5].Expr))
	require.NotNil(t, sel.From)
}

func TestSelectWithoutFrom(t *testing.T) {
	sel := mustSelect(t, "SELECT 1 + 1 AS two")
	assert.Nil(t, sel.From)
	require.Len(t, sel.Projection, 1)
	assert.Equal(t, "two", sel.Projection[0].Alias)
}

func TestSelectAll(t *testing.T) {
	sel := mustSelect(t, "SELECT ALL a FROM t")
	assert.False(t, sel.Distinct)
	assert.Len(t, sel.Projection, 1)
}

func TestTrailingClauses(t *testing.T) {
	sel := mustSelect(t, `
		SELECT g, count(*) OVER w
		FROM t
		WHERE x > 0
		GROUP BY g
		HAVING count(*) > 1
		WINDOW w AS (PARTITION BY g), w2 AS (w ORDER BY x)
		ORDER BY g DESC NULLS LAST, x USING >, y
		LIMIT 10 OFFSET 5`)

	from := sel.From
	require.NotNil(t, from)
	assert.Equal(t, "(x > 0)", render(from.Where))
	assert.Equal(t, "g", renderList(from.GroupBy))
	assert.Equal(t, "(count(*) > 1)", render(from.Having))

	require.Len(t, from.Windows, 2)
	assert.Equal(t, "w", from.Windows[0].Name)
	assert.Len(t, from.Windows[0].Spec.PartitionBy, 1)
	assert.Equal(t, "w", from.Windows[1].Spec.BaseName)

	require.Len(t, from.OrderBy, 3)
	assert.Equal(t, ast.SortDesc, from.OrderBy[0].Direction)
	assert.Equal(t, ast.NullsLast, from.OrderBy[0].Nulls)
	assert.Equal(t, ">", from.OrderBy[1].Using)
	assert.Equal(t, ast.SortDefault, from.OrderBy[1].Direction)
	assert.Equal(t, ast.SortDefault, from.OrderBy[2].Direction)

	require.NotNil(t, from.Limit)
	assert.Equal(t, "10", from.Limit.Count.Value)
	require.NotNil(t, from.Limit.Offset)
	assert.Equal(t, "5", from.Limit.Offset.Value)
}

func TestSetOperations(t *testing.T) {
	t.Run("left nesting", func(t *testing.T) {
		q := mustQuery(t, "SELECT 1 UNION SELECT 2 EXCEPT SELECT 3")
		outer, ok := q.Body.(*ast.SetOperation)
		require.True(t, ok)
		assert.Equal(t, ast.SetOpExcept, outer.Op)
		assert.IsType(t, &ast.SelectStatement{}, outer.Right)

		inner, ok := outer.Left.(*ast.SetOperation)
		require.True(t, ok)
		assert.Equal(t, ast.SetOpUnion, inner.Op)
		assert.IsType(t, &ast.SelectStatement{}, inner.Left)
		assert.IsType(t, &ast.SelectStatement{}, inner.Right)
	})

	t.Run("all and distinct", func(t *testing.T) {
		q := mustQuery(t, "SELECT 1 UNION ALL SELECT 2 INTERSECT DISTINCT SELECT 3")
		outer := q.Body.(*ast.SetOperation)
		assert.Equal(t, ast.SetOpIntersect, outer.Op)
		assert.False(t, outer.All)
		assert.True(t, outer.Left.(*ast.SetOperation).All)
	})

	t.Run("parenthesized operands", func(t *testing.T) {
		q := mustQuery(t, "(SELECT a FROM t) UNION ((SELECT b FROM u))")
		op, ok := q.Body.(*ast.SetOperation)
		require.True(t, ok)
		assert.IsType(t, &ast.SelectStatement{}, op.Left)
		assert.IsType(t, &ast.SelectStatement{}, op.Right)
	})

	t.Run("parenthesized set operation as operand", func(t *testing.T) {
		q := mustQuery(t, "SELECT 1 EXCEPT (SELECT 2 UNION SELECT 3)")
		op := q.Body.(*ast.SetOperation)
		assert.Equal(t, ast.SetOpExcept, op.Op)
		right, ok := op.Right.(*ast.SetOperation)
		require.True(t, ok)
		assert.Equal(t, ast.SetOpUnion, right.Op)
	})
}

func TestCommonTableExpressions(t *testing.T) {
	q := mustQuery(t, `
		WITH RECURSIVE
			r(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM r WHERE n < 10),
			m AS MATERIALIZED (SELECT 2),
			nm AS NOT MATERIALIZED (SELECT 3)
		SELECT * FROM r`)

	require.Len(t, q.CTEs, 3)
	for _, cte := range q.CTEs {
		assert.True(t, cte.Recursive, cte.Name)
	}
	assert.Equal(t, "r", q.CTEs[0].Name)
	assert.Equal(t, []string{"n"}, q.CTEs[0].Columns)
	assert.Equal(t, ast.MaterializeDefault, q.CTEs[0].Materialized)
	assert.IsType(t, &ast.SetOperation{}, q.CTEs[0].Query.Body)
	assert.Equal(t, ast.MaterializeAlways, q.CTEs[1].Materialized)
	assert.Equal(t, ast.MaterializeNever, q.CTEs[2].Materialized)

	plain := mustQuery(t, "WITH a AS (SELECT 1) SELECT * FROM a")
	require.Len(t, plain.CTEs, 1)
	assert.False(t, plain.CTEs[0].Recursive)
}

func TestParenthesizedWith(t *testing.T) {
	q := mustQuery(t, "((WITH a AS (SELECT 1) SELECT * FROM a))")
	require.Len(t, q.CTEs, 1)
	assert.Equal(t, "a", q.CTEs[0].Name)
	assert.IsType(t, &ast.SelectStatement{}, q.Body)

	for _, src := range []string{
		"WITH a AS (SELECT 1) (WITH b AS (SELECT 2) SELECT 3)",
		"SELECT 1 UNION (WITH b AS (SELECT 2) SELECT 3)",
		"(WITH b AS (SELECT 2) SELECT 3) UNION SELECT 1",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := parser.ParseQuery(src)
			se := syntaxError(t, err)
			assert.Equal(t, "WITH is not allowed inside a parenthesized set operand", se.Message)
		})
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantColumn  int
		wantMessage string
	}{
		{"limit expression", "SELECT a FROM t LIMIT @n", 23, "LIMIT requires a numeric literal"},
		{"offset expression", "SELECT a FROM t LIMIT 1 OFFSET x", 32, "OFFSET requires a numeric literal"},
		{"empty projection", "SELECT FROM t", 8, "unexpected keyword FROM, expected expression"},
		{"trailing query", "SELECT 1 SELECT 2", 10, "unexpected keyword SELECT after end of query"},
		{"bad nulls", "SELECT a FROM t ORDER BY a NULLS x", 34, `unexpected IDENT "x", expected FIRST or LAST`},
		{"cte without parens", "WITH a AS SELECT 1 SELECT 2", 11, `unexpected keyword SELECT, expected "("`},
		{"missing body", "WITH a AS (SELECT 1)", 21, `unexpected end of input, expected SELECT, WITH or "("`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseQuery(tt.query)
			se := syntaxError(t, err)
			assert.Equal(t, tt.wantColumn, se.Pos.Column)
			assert.Equal(t, tt.wantMessage, se.Detail())
		})
	}
}

func TestQueryTrailingSemicolon(t *testing.T) {
	q := mustQuery(t, "SELECT 1;")
	assert.IsType(t, &ast.SelectStatement{}, q.Body)
}
