package ast

import (
	"reflect"

	"github.com/avenger-vis/avenger/pkg/token"
)

// Walk traverses an AST depth-first in source order and calls fn for each
// node. If fn returns false, the children of that node are skipped.
func Walk(node Node, fn func(node Node) bool) {
	if isNil(node) {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

// Spans maps every node reachable from root to its source span.
func Spans(root Node) map[Node]token.Span {
	spans := make(map[Node]token.Span)
	Walk(root, func(n Node) bool {
		spans[n] = token.Span{Start: n.Pos(), End: n.End()}
		return true
	})
	return spans
}

// Count returns the number of nodes reachable from root.
func Count(root Node) int {
	n := 0
	Walk(root, func(Node) bool {
		n++
		return true
	})
	return n
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func walkStmts(stmts []Statement, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		Walk(e, fn)
	}
}

func walkOrder(items []*OrderTarget, fn func(Node) bool) {
	for _, o := range items {
		Walk(o, fn)
	}
}

//nolint:gocyclo // one case per node type
func walkNode(node Node, fn func(Node) bool) {
	switch n := node.(type) {
	// Declarations
	case *File:
		walkStmts(n.Statements, fn)
	case *Import:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	case *ValProp:
		Walk(n.Value, fn)
	case *ExprProp:
		Walk(n.Value, fn)
	case *DatasetProp:
		Walk(n.Value, fn)
	case *CompProp:
		Walk(n.Value, fn)
	case *PropBinding:
		Walk(n.Value, fn)
	case *CompInstance:
		walkStmts(n.Body, fn)
	case *FunctionDef:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		walkStmts(n.Body, fn)
		Walk(n.Return, fn)
	case *ReturnStatement:
		Walk(n.Value, fn)

	// Queries
	case *Query:
		for _, cte := range n.CTEs {
			Walk(cte, fn)
		}
		Walk(n.Body, fn)
	case *CTE:
		Walk(n.Query, fn)
	case *SetOperation:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *SelectStatement:
		for _, item := range n.Projection {
			Walk(item, fn)
		}
		Walk(n.From, fn)
	case *SelectItem:
		Walk(n.Expr, fn)
	case *FromClause:
		for _, r := range n.Relations {
			Walk(r, fn)
		}
		for _, j := range n.Joins {
			Walk(j, fn)
		}
		Walk(n.Where, fn)
		walkExprs(n.GroupBy, fn)
		Walk(n.Having, fn)
		for _, w := range n.Windows {
			Walk(w, fn)
		}
		walkOrder(n.OrderBy, fn)
		Walk(n.Limit, fn)
	case *WindowDef:
		Walk(n.Spec, fn)
	case *OrderTarget:
		Walk(n.Expr, fn)
	case *Limit:
		Walk(n.Count, fn)
		Walk(n.Offset, fn)

	// Relations and joins
	case *Relation:
		Walk(n.Source, fn)
		Walk(n.Alias, fn)
	case *Values:
		for _, row := range n.Rows {
			Walk(row, fn)
		}
	case *JoinClause:
		Walk(n.Relation, fn)
		Walk(n.Nested, fn)
		Walk(n.Condition, fn)
	case *CrossJoin:
		Walk(n.Relation, fn)
	case *LateralJoin:
		Walk(n.Relation, fn)
		Walk(n.Condition, fn)
	case *LateralCrossJoin:
		Walk(n.Relation, fn)
	case *OnCondition:
		Walk(n.Predicate, fn)

	// Expressions
	case *List:
		walkExprs(n.Items, fn)
	case *Case:
		Walk(n.Operand, fn)
		for _, w := range n.Whens {
			Walk(w, fn)
		}
		Walk(n.Else, fn)
	case *When:
		Walk(n.Condition, fn)
		Walk(n.Result, fn)
	case *WindowFunction:
		Walk(n.Call, fn)
		Walk(n.Spec, fn)
	case *WindowSpec:
		walkExprs(n.PartitionBy, fn)
		walkOrder(n.OrderBy, fn)
		Walk(n.Frame, fn)
	case *Frame:
		Walk(n.Start, fn)
		Walk(n.Finish, fn)
	case *FrameBound:
		Walk(n.Offset, fn)
	case *Subquery:
		Walk(n.Query, fn)
	case *Cast:
		Walk(n.Expr, fn)
		Walk(n.Type, fn)
	case *Exists:
		Walk(n.Query, fn)
	case *Invocation:
		walkExprs(n.Args, fn)
		walkOrder(n.OrderBy, fn)
		Walk(n.Separator, fn)
		Walk(n.Limit, fn)
		Walk(n.Filter, fn)
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Subscript:
		Walk(n.Expr, fn)
		Walk(n.Index, fn)
		Walk(n.Lower, fn)
		Walk(n.Upper, fn)
	case *UnaryExpression:
		Walk(n.Operand, fn)
	case *ArrayConstructor:
		walkExprs(n.Elements, fn)
		Walk(n.Query, fn)
	case *Between:
		Walk(n.Expr, fn)
		Walk(n.Low, fn)
		Walk(n.High, fn)
	case *GroupedExpression:
		Walk(n.Expr, fn)
	}
	// Leaves: ImportItem, Param, Literal, FieldReference, Parameter,
	// TypeName, Interval, Star, Alias, ObjectReference, TableVariable,
	// UsingCondition.
}
